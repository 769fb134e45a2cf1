package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/client"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/hub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict in production
		return true
	},
}

// WSHandler manages WebSocket endpoints
type WSHandler struct {
	hub *hub.Hub
	ctx context.Context
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(h *hub.Hub, ctx context.Context) *WSHandler {
	return &WSHandler{
		hub: h,
		ctx: ctx,
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  WebSocket upgrade error: %v\n", err)
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.hub)

	h.hub.Register(c)

	// Start client pumps (use handler context, not request context)
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	fmt.Printf("✓ WebSocket connection established: %s\n", clientID)
}

// HandleMetrics returns hub metrics
// GET /metrics
func (h *WSHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.hub.GetMetrics()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

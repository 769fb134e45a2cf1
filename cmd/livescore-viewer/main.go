// livescore-viewer is a terminal scoreboard for one match: it subscribes
// to the live channel over WebSocket and plays score animations through
// the reducer, one at a time.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/reducer"
	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "live-scores WebSocket URL")
	matchID := flag.Int64("match", 0, "match id to follow")
	flag.Parse()

	if *matchID <= 0 {
		fmt.Println("❌ -match is required")
		os.Exit(1)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		fmt.Printf("❌ Failed to connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("✓ Connected, following match %d\n", *matchID)

	// Narrow the shared channel to this match
	subscribe := models.ClientMessage{
		Type: models.MessageTypeSubscribe,
		Payload: map[string]interface{}{
			"matches": []int64{*matchID},
		},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		fmt.Printf("❌ Failed to subscribe: %v\n", err)
		os.Exit(1)
	}

	red := reducer.New(*matchID)
	go renderFrames(red)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				fmt.Printf("⚠️  Connection closed: %v\n", err)
				return
			}

			var msg models.IncomingMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				fmt.Printf("⚠️  Failed to parse message: %v\n", err)
				continue
			}

			if err := red.Apply(msg); err != nil {
				fmt.Printf("⚠️  Failed to apply %s: %v\n", msg.Type, err)
			}

			if msg.Type == models.EventTypeMatchUpdated {
				printScoreboard(red.Snapshot())
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-done:
	}

	fmt.Println("\n✓ Viewer stopped")
}

// renderFrames prints each animation frame from the reducer
func renderFrames(red *reducer.Reducer) {
	for frame := range red.Frames() {
		switch frame.Kind {
		case models.EventTypeScoreUpdate:
			fmt.Printf("  🔥 +%d for team %s%s\n", frame.Increment, frame.Team, scoreTypesSuffix(frame.ScoreTypes))
		case models.EventTypeSetWon:
			fmt.Printf("  🏓 Team %s takes set %d!\n", frame.Team, frame.SetNumber)
		case models.EventTypeMatchWon:
			fmt.Printf("  🏆 Team %s wins the match!\n", frame.Team)
		}
	}
}

func scoreTypesSuffix(types []models.ScoreType) string {
	if len(types) == 0 {
		return ""
	}

	parts := make([]string, 0, len(types))
	for _, st := range types {
		parts = append(parts, fmt.Sprintf("%s +%d", st.Type, st.Value))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// printScoreboard shows the authoritative state after each snapshot
func printScoreboard(match *models.Match) {
	if match == nil {
		return
	}

	fmt.Printf("── %s: %s vs %s [%s]\n", match.Game.Name, match.TeamA.Name, match.TeamB.Name, match.Status)
}

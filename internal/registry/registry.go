package registry

import (
	"fmt"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/sports/kabaddi"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/sports/tabletennis"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/sports/tugofwar"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/contracts"
)

// Registry manages available game modules
type Registry struct {
	modules map[string]contracts.GameModule
}

// New creates a new game registry with all fest sports
func New() *Registry {
	r := &Registry{
		modules: make(map[string]contracts.GameModule),
	}

	r.Register(kabaddi.New())
	r.Register(tabletennis.New())
	r.Register(tugofwar.New())

	return r
}

// Register adds a game module to the registry
func (r *Registry) Register(module contracts.GameModule) {
	r.modules[module.GetGameKey()] = module
}

// GetModule retrieves a game module by key
func (r *Registry) GetModule(gameKey string) (contracts.GameModule, error) {
	module, ok := r.modules[gameKey]
	if !ok {
		return nil, fmt.Errorf("game module not found: %s", gameKey)
	}
	return module, nil
}

// AllGameKeys returns all registered game keys
func (r *Registry) AllGameKeys() []string {
	keys := make([]string, 0, len(r.modules))
	for key := range r.modules {
		keys = append(keys, key)
	}
	return keys
}

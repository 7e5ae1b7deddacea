// Package registry lists the playable game modes. Modes are registered in
// init(), allowing the menu, the CLI and the SSH server to discover them
// without hardcoding the mode list.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

// ModeInfo describes a registered game mode.
type ModeInfo struct {
	ID          string // CLI name, e.g. "time"
	Title       string // Display name, e.g. "Time Mode"
	Description string
	Mode        engine.Mode
}

var (
	modes = make(map[string]ModeInfo)
	mu    sync.RWMutex
)

// Register adds a game mode to the registry.
// Panics if a mode with the same ID is already registered.
func Register(info ModeInfo) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := modes[info.ID]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}
	modes[info.ID] = info
}

// List returns all registered modes in menu order.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(modes))
	for _, info := range modes {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Mode != result[j].Mode {
			return result[i].Mode < result[j].Mode
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the mode registered under id.
func Lookup(id string) (ModeInfo, error) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := modes[id]
	if !ok {
		return ModeInfo{}, fmt.Errorf("registry: unknown mode %q", id)
	}
	return info, nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := modes[id]
	return ok
}

// Start looks up a mode and starts a session for it on the host.
func Start(h *engine.Host, id string, d config.Difficulty) (*engine.Session, error) {
	info, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	if !d.Valid() {
		return nil, fmt.Errorf("registry: invalid difficulty %q", d)
	}
	return h.Play(info.Mode, d), nil
}

func init() {
	Register(ModeInfo{
		ID:          engine.ModeTime.ID(),
		Title:       engine.ModeTime.String(),
		Description: "60 seconds on the clock. Pop the answer, chase bonus seconds.",
		Mode:        engine.ModeTime,
	})
	Register(ModeInfo{
		ID:          engine.ModeSurvival.ID(),
		Title:       engine.ModeSurvival.String(),
		Description: "Three lives. Wrong pops and missed answers cost a heart.",
		Mode:        engine.ModeSurvival,
	})
}

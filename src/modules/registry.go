// Package modules replaces runtime module discovery with an explicit
// startup-time registry: each module declares its routes, bus subscriptions
// and lifecycle hooks, and main iterates the list once. Same composability,
// no reflection.
package modules

import (
	"fmt"
	"log"
	"xbs/src/bus"

	"github.com/gin-gonic/gin"
)

type Module struct {
	Name          string
	Routes        func(g *gin.RouterGroup)
	EventHandlers func(b *bus.Bus)
	Init          func() error
	Shutdown      func()
}

type Registry struct {
	mods []Module
}

func NewRegistry(mods ...Module) *Registry {
	return &Registry{mods: mods}
}

func (r *Registry) Register(m Module) {
	r.mods = append(r.mods, m)
}

func (r *Registry) Init() error {
	for _, m := range r.mods {
		if m.Init == nil {
			continue
		}
		if err := m.Init(); err != nil {
			return fmt.Errorf("module %s init: %w", m.Name, err)
		}
		log.Printf("[modules] Initialized %s\n", m.Name)
	}
	return nil
}

func (r *Registry) Routes(g *gin.RouterGroup) {
	for _, m := range r.mods {
		if m.Routes != nil {
			m.Routes(g)
		}
	}
}

func (r *Registry) EventHandlers(b *bus.Bus) {
	for _, m := range r.mods {
		if m.EventHandlers != nil {
			m.EventHandlers(b)
		}
	}
}

func (r *Registry) Shutdown() {
	for i := len(r.mods) - 1; i >= 0; i-- {
		if r.mods[i].Shutdown != nil {
			r.mods[i].Shutdown()
		}
	}
}

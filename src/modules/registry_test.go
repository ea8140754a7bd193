package modules

import (
	"errors"
	"testing"
	"xbs/src/bus"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	var order []string
	r := NewRegistry(
		Module{
			Name:     "first",
			Init:     func() error { order = append(order, "init:first"); return nil },
			Shutdown: func() { order = append(order, "stop:first") },
		},
		Module{
			Name:     "second",
			Init:     func() error { order = append(order, "init:second"); return nil },
			Shutdown: func() { order = append(order, "stop:second") },
		},
	)

	require.NoError(t, r.Init())
	r.Shutdown()

	assert.Equal(t, []string{"init:first", "init:second", "stop:second", "stop:first"}, order)
}

func TestRegistryInitFailureNamesModule(t *testing.T) {
	r := NewRegistry(Module{
		Name: "broken",
		Init: func() error { return errors.New("no database") },
	})

	err := r.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRegistryRoutesAndEventHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1")

	routed := false
	subscribed := false
	r := NewRegistry(Module{
		Name:          "booths",
		Routes:        func(g *gin.RouterGroup) { routed = true },
		EventHandlers: func(b *bus.Bus) { subscribed = true },
	})
	r.Register(Module{Name: "bare"})

	r.Routes(group)
	b := bus.New(1)
	defer b.Close()
	r.EventHandlers(b)

	assert.True(t, routed)
	assert.True(t, subscribed)
}

package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepUpdatesActiveScenesInOrder(t *testing.T) {
	var order []string
	hook := func(name string) func(float32, float64) {
		return func(float32, float64) { order = append(order, name) }
	}

	front := scene.NewScene("front", scene.WithUpdateWorkers(1))
	front.OnUpdate(hook("front"))
	back := scene.NewScene("back", scene.WithUpdateWorkers(1))
	back.OnUpdate(hook("back"))
	hidden := scene.NewScene("hidden", scene.WithUpdateWorkers(1), scene.WithActive(false))
	hidden.OnUpdate(hook("hidden"))

	var ticked float32
	e := NewEngine(
		WithScene(2, front),
		WithScene(1, back),
		WithScene(0, hidden),
		WithScene(5, nil),
		WithTickCallback(func(dt float32) {
			ticked += dt
			order = append(order, "tick")
		}),
	)
	assert.Len(t, e.Scenes(), 3)
	assert.Nil(t, e.Window())

	e.Step(0.25)
	assert.Equal(t, []string{"back", "front", "tick"}, order)
	assert.Equal(t, float32(0.25), ticked)
	assert.InDelta(t, 0.25, front.Elapsed(), 1e-9)
	assert.Zero(t, hidden.Elapsed())

	e.RemoveScene(2)
	assert.Nil(t, e.Scene(2))
	assert.Same(t, back, e.Scene(1))
}

func TestTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(120))
	assert.Equal(t, time.Second/120, e.TickRate())

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.TickRate())

	assert.Equal(t, time.Second/60, NewEngine(WithTickRate(-1)).TickRate())
}

func TestRunTicksUntilCancelled(t *testing.T) {
	s := scene.NewScene("run", scene.WithUpdateWorkers(1))
	e := NewEngine(WithScene(0, s), WithTickRate(200), WithProfiling(true))

	var mu sync.Mutex
	ticks := 0
	e.SetTickCallback(func(float32) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 5
	}, 5*time.Second, 5*time.Millisecond)

	e.SetTickRate(400)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}

	select {
	case <-e.Done():
	default:
		t.Fatal("quit channel should be closed")
	}
	assert.Greater(t, s.Frame().Sequence, uint64(0))

	// a stopped engine cannot be restarted
	assert.Error(t, e.Run(context.Background()))
}

func TestQuitIsIdempotent(t *testing.T) {
	var e Engine
	e = NewEngine(WithTickRate(100), WithTickCallback(func(float32) {
		e.Quit()
		e.Quit()
	}))
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRecoversFromTickPanic(t *testing.T) {
	e := NewEngine(WithTickRate(200), WithTickCallback(func(float32) { panic("boom") }))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after a panic")
	}
}

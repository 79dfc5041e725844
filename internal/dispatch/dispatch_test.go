package dispatch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_FIFO(t *testing.T) {
	loop := NewLoop()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		loop.Post(func() { order = append(order, i) })
	}

	assert.Equal(t, 3, loop.Len())
	assert.Equal(t, 3, loop.Tick())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, loop.Len())
}

func TestLoop_TasksPostedDuringTickRunNextTick(t *testing.T) {
	loop := NewLoop()

	var order []string
	loop.Post(func() {
		order = append(order, "outer")
		loop.Post(func() { order = append(order, "inner") })
	})

	assert.Equal(t, 1, loop.Tick(), "inner task must not run in the same tick")
	assert.Equal(t, []string{"outer"}, order)

	assert.Equal(t, 1, loop.Tick())
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestLoop_RunUntilIdle(t *testing.T) {
	loop := NewLoop()

	count := 0
	loop.Post(func() {
		count++
		loop.Post(func() { count++ })
	})

	assert.Equal(t, 2, loop.RunUntilIdle())
	assert.Equal(t, 2, count)
}

func TestLoop_NilTaskIgnored(t *testing.T) {
	loop := NewLoop()
	loop.Post(nil)
	assert.Equal(t, 0, loop.Len())
}

func TestWrap_DefersExecution(t *testing.T) {
	loop := NewLoop()

	ran := false
	invoke := Wrap("Apps/Loader", func() { ran = true }, loop, nil)

	invoke()
	assert.False(t, ran, "callback must not run inline")

	loop.Tick()
	assert.True(t, ran)
}

func TestWrap_DiscardsArguments(t *testing.T) {
	loop := NewLoop()

	ran := false
	invoke := Wrap("toggle", func() { ran = true }, loop, nil)

	// UI layers pass incidental arguments such as a toggle state.
	invoke(true, "extra")
	loop.Tick()
	assert.True(t, ran)
}

func TestWrap_ContainsPanic(t *testing.T) {
	loop := NewLoop()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	invoke := Wrap("broken", func() { panic("boom") }, loop, logger)

	require.NotPanics(t, func() {
		invoke()
		loop.Tick()
	})

	out := buf.String()
	assert.Contains(t, out, "command failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "stack")
}

func TestWrap_PanicDoesNotStopLaterTasks(t *testing.T) {
	loop := NewLoop()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ran := false
	Wrap("broken", func() { panic("boom") }, loop, logger)()
	Wrap("fine", func() { ran = true }, loop, logger)()

	loop.Tick()
	assert.True(t, ran, "a failing command must not block the queue")
}

func TestWrap_NilCallback(t *testing.T) {
	loop := NewLoop()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	invoke := Wrap("empty", nil, loop, logger)
	require.NotPanics(t, func() {
		invoke()
		loop.Tick()
	})
}

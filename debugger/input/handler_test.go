package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Hackchain/hackchain-debugger/debugger/backend"
	"github.com/Hackchain/hackchain-debugger/debugger/input/action"
	"github.com/Hackchain/hackchain-debugger/debugger/input/event"
)

// fakeClock advances only when told to
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestHandler_Debouncing(t *testing.T) {
	tests := []struct {
		name           string
		action         action.Action
		eventType      event.Type
		timeBetween    time.Duration
		expectDebounce bool
	}{
		{
			name:           "restart rapid press - should debounce",
			action:         action.Restart,
			eventType:      event.Press,
			timeBetween:    100 * time.Millisecond,
			expectDebounce: true,
		},
		{
			name:           "restart slow press - should not debounce",
			action:         action.Restart,
			eventType:      event.Press,
			timeBetween:    400 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "step rapid press - should not debounce",
			action:         action.Step,
			eventType:      event.Press,
			timeBetween:    time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "quit rapid press - should not debounce",
			action:         action.Quit,
			eventType:      event.Press,
			timeBetween:    time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "restart hold event - should not debounce",
			action:         action.Restart,
			eventType:      event.Hold,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Unix(1000, 0)}
			handler := NewHandler()
			handler.now = clock.Now

			evt := backend.InputEvent{Action: tt.action, Type: tt.eventType}
			assert.True(t, handler.ProcessEvent(evt), "First event should always pass")

			clock.Advance(tt.timeBetween)

			if tt.expectDebounce {
				assert.False(t, handler.ProcessEvent(evt), "Second event should be debounced")
			} else {
				assert.True(t, handler.ProcessEvent(evt), "Second event should pass")
			}
		})
	}
}

func TestHandler_DebounceIsPerAction(t *testing.T) {
	handler := NewHandler()

	assert.True(t, handler.ProcessEvent(backend.InputEvent{Action: action.Restart, Type: event.Press}))
	assert.True(t, handler.ProcessEvent(backend.InputEvent{Action: action.Step, Type: event.Press}))
	assert.False(t, handler.ProcessEvent(backend.InputEvent{Action: action.Restart, Type: event.Press}))
}

func TestManager_Trigger(t *testing.T) {
	m := NewManager()
	calls := 0
	m.On(action.Step, event.Press, func() { calls++ })
	m.On(action.Step, event.Press, func() { calls += 10 })

	assert.True(t, m.Trigger(action.Step, event.Press))
	assert.Equal(t, 11, calls)

	assert.False(t, m.Trigger(action.Step, event.Release), "no callback for release")
	assert.False(t, m.Trigger(action.Restart, event.Press), "no callback for restart")
	assert.Equal(t, 11, calls)
}

func TestDefaultKeyMap(t *testing.T) {
	tests := []struct {
		key  string
		want action.Action
	}{
		{"n", action.Step},
		{"Space", action.Step},
		{"Enter", action.Step},
		{"r", action.Restart},
		{"q", action.Quit},
		{"Escape", action.Quit},
		{"+", action.LogLevelIncrease},
		{"-", action.LogLevelDecrease},
	}

	for _, tt := range tests {
		act, ok := GetDefaultMapping(tt.key)
		assert.True(t, ok, tt.key)
		assert.Equal(t, tt.want, act, tt.key)
	}

	_, ok := GetDefaultMapping("F13")
	assert.False(t, ok)
}

func TestActionInfo(t *testing.T) {
	assert.Equal(t, "Step", action.Step.String())
	assert.True(t, action.GetInfo(action.Restart).Debounce)
	assert.False(t, action.GetInfo(action.Step).Debounce)
	assert.Equal(t, "Unknown", action.Action(99).String())
}

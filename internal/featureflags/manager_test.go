package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0,always=100%,never=0%,over=150%")

	tests := []struct {
		flag string
		want bool
	}{
		{"a", true},
		{"b", false},
		{"c", true},
		{"d", false},
		{"e", true},
		{"f", false},
		{"always", true},
		{"never", false},
		{"over", true},
		{"missing", false},
		{" A ", true},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Enabled(tt.flag, 1))
		})
	}
}

func TestEnabled_PercentRolloutIsDeterministic(t *testing.T) {
	m := NewManager("canary=25%")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42))
	}
	assert.False(t, m.Enabled("canary", 0), "anonymous callers are never in a partial rollout")

	enabled := 0
	for uid := uint(1); uid <= 1000; uid++ {
		if m.Enabled("canary", uid) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestNewManager_SkipsMalformedEntries(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off,w=maybe,=on,v=")

	assert.Equal(t, []string{"x", "y", "z"}, m.Names())
	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, m.Raw())
	assert.Len(t, m.Snapshot(123), 3)
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(RealtimeNotifications, 1))
	assert.Empty(t, m.Snapshot(1))
	assert.Empty(t, m.Raw())
}

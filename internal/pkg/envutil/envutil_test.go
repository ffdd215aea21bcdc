package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

func TestString(t *testing.T) {
	log := logger.NewNop()
	t.Setenv("WS_TEST_STRING", "  value ")
	assert.Equal(t, "value", String("WS_TEST_STRING", "def", log))

	t.Setenv("WS_TEST_STRING", "   ")
	assert.Equal(t, "def", String("WS_TEST_STRING", "def", log))
	assert.Equal(t, "def", String("WS_TEST_STRING_UNSET", "def", nil))
}

func TestIntFallsBackOnGarbage(t *testing.T) {
	log := logger.NewNop()
	t.Setenv("WS_TEST_INT", "42")
	assert.Equal(t, 42, Int("WS_TEST_INT", 7, log))

	t.Setenv("WS_TEST_INT", "forty")
	assert.Equal(t, 7, Int("WS_TEST_INT", 7, log))
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"1": true, "TRUE": true, "on": true, "no": false, "0": false}
	for in, want := range cases {
		t.Setenv("WS_TEST_BOOL", in)
		assert.Equal(t, want, Bool("WS_TEST_BOOL", !want, nil), in)
	}
	t.Setenv("WS_TEST_BOOL", "maybe")
	assert.True(t, Bool("WS_TEST_BOOL", true, nil))
}

func TestFloat(t *testing.T) {
	t.Setenv("WS_TEST_FLOAT", "0.25")
	assert.InDelta(t, 0.25, Float("WS_TEST_FLOAT", 1, nil), 1e-9)
	t.Setenv("WS_TEST_FLOAT", "x")
	assert.InDelta(t, 1.0, Float("WS_TEST_FLOAT", 1, nil), 1e-9)
}

func TestDuration(t *testing.T) {
	t.Setenv("WS_TEST_DURATION", "150ms")
	assert.Equal(t, 150*time.Millisecond, Duration("WS_TEST_DURATION", time.Second, nil))

	t.Setenv("WS_TEST_DURATION", "3")
	assert.Equal(t, 3*time.Second, Duration("WS_TEST_DURATION", time.Second, nil))

	t.Setenv("WS_TEST_DURATION", "soon")
	assert.Equal(t, time.Second, Duration("WS_TEST_DURATION", time.Second, nil))
}

func TestList(t *testing.T) {
	t.Setenv("WS_TEST_LIST", "a, b,,c ")
	got := List("WS_TEST_LIST", nil, nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	assert.Equal(t, []string{"x"}, List("WS_TEST_LIST_UNSET", []string{"x"}, nil))
}

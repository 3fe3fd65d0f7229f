package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewReturnsLogger(t *testing.T) {
	l := New("test")
	assert.NotNil(t, l)
	l.Infof("hello %s", "world")
	l.Debugw("structured", map[string]any{"k": 1})
}

func TestSetLevel(t *testing.T) {
	SetLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	// Unknown names leave the level untouched.
	SetLevel("nope")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

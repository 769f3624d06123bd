package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestLogger_WithFieldCarriesThroughContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{ServiceName: "nexus", Output: &buf})

	ctx := l.WithUserID(context.Background(), "u-1")
	l.Error(ctx, "save failed", errors.New("disk full"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "nexus", entry["service"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "save failed", entry["message"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: zerolog.WarnLevel, Output: &buf})

	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())
}

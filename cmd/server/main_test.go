package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_BootFailuresReturnError(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr string
	}{
		{
			name:        "unknown backend",
			env:         map[string]string{"NEXUS_STORE_BACKEND": "floppy"},
			expectedErr: "config",
		},
		{
			name:        "unreachable redis",
			env:         map[string]string{"NEXUS_STORE_BACKEND": "redis", "NEXUS_REDIS_ADDR": "127.0.0.1:1", "NEXUS_REDIS_DIAL_TIMEOUT": "100ms"},
			expectedErr: "slot store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

package server_test

import (
	"testing"

	"messenger-core/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  server.Config
		addr string
		auth bool
	}{
		{"Default", server.Config{Port: "8080"}, ":8080", false},
		{"With Key", server.Config{Port: "9000", ApiKey: "secret"}, ":9000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.addr, tt.cfg.Addr())
			assert.Equal(t, tt.auth, tt.cfg.AuthEnabled())
		})
	}
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name     string
		args     []string
		expected *Config
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-n", "nats://127.0.0.1:4333", "-p", "authx", "-q", "workers",
				"-d", "db", "-s", "secret", "-k", "refresh-secret",
				"-t", "5", "-r", "120", "-e", "32",
			},
			expected: &Config{
				EndpointAddrNATS:             "nats://127.0.0.1:4333",
				SubjectPrefix:                "authx",
				QueueGroup:                   "workers",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				RefreshSecretKey:             "refresh-secret",
				AccessTokenValidityDuration:  5 * time.Minute,
				RefreshTokenValidityDuration: 120 * time.Minute,
				EventQueueSize:               32,
			},
		},
		{
			name: "unknown flags are filtered out",
			args: []string{"cmd", "-d", "db", "--verbose", "-x", "junk"},
			expected: &Config{
				DatabaseDSN: "db",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			parseFlags(config)

			assert.Equal(t, tt.expected, config)
		})
	}
}

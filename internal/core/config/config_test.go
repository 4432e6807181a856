package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/data")
	require.NoError(t, err)

	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.True(t, cfg.Alerts.SoundEnabled())
	assert.True(t, cfg.Reconnect.ReconnectEnabled())
	assert.Equal(t, 10, cfg.Reconnect.MaxAttempts)
}

func TestLoad_ParsesAndBackfills(t *testing.T) {
	path := writeConfig(t, `
server:
  socket_url: wss://notify.example.com/socket
identity:
  user_id: u-42
  email: dev@example.com
alerts:
  sound: false
mute:
  - "Job Alert: *"
reconnect:
  base_delay: 250ms
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "wss://notify.example.com/socket", cfg.Server.SocketURL)
	assert.Equal(t, "u-42", cfg.Identity.UserID)
	assert.Equal(t, "dev@example.com", cfg.Identity.Email)
	assert.False(t, cfg.Alerts.SoundEnabled())
	assert.Equal(t, []string{"Job Alert: *"}, cfg.Mute)
	assert.Equal(t, 250*time.Millisecond, cfg.Reconnect.BaseDelay)
	// Unset fields fall back to defaults.
	assert.NotEmpty(t, cfg.Server.APIURL)
	assert.Equal(t, 2*time.Minute, cfg.Reconnect.MaxDelay)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestLoad_RejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a map")

	_, err := Load(path, "/data")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "socket url must be ws or wss",
			mutate:  func(c *Config) { c.Server.SocketURL = "https://example.com" },
			wantErr: "socket_url",
		},
		{
			name:    "api url must be http or https",
			mutate:  func(c *Config) { c.Server.APIURL = "ftp://example.com" },
			wantErr: "api_url",
		},
		{
			name:    "bad email rejected",
			mutate:  func(c *Config) { c.Identity.Email = "not-an-email" },
			wantErr: "email",
		},
		{
			name:   "empty email allowed",
			mutate: func(c *Config) { c.Identity.Email = "" },
		},
		{
			name:    "unknown theme rejected",
			mutate:  func(c *Config) { c.TUI.Theme = "solarized-disco" },
			wantErr: "theme",
		},
		{
			name:    "invalid mute pattern rejected",
			mutate:  func(c *Config) { c.Mute = []string{"[unclosed"} },
			wantErr: "mute[0]",
		},
		{
			name:   "valid mute patterns pass",
			mutate: func(c *Config) { c.Mute = []string{"Job Alert: *", "Digest **"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

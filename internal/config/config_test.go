package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "nope.toml"))
	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.Endpoint = "https://cms.example.com/actions/palette/trigger"
	cfg.HTTP.Headers["X-CSRF-Token"] = "abc"
	cfg.Search.Debounce = Duration(250 * time.Millisecond)
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Endpoint, loaded.Endpoint)
	assert.Equal(t, "abc", loaded.HTTP.Headers["X-CSRF-Token"])
	assert.Equal(t, 250*time.Millisecond, loaded.Search.Debounce.Std())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "endpoint = \"http://cms.local/trigger\"\n\n[search]\ndebounce = \"1s\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://cms.local/trigger", cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.Search.Debounce.Std())
	assert.True(t, cfg.Search.ElementSearch)
	assert.Equal(t, 64, cfg.UI.Width)
	assert.Equal(t, "ctrl+p", cfg.UI.ToggleKey)
}

func TestInvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad duration", "[search]\ndebounce = \"soon\"\n"},
		{"narrow width", "[ui]\nwidth = 5\n"},
		{"bad modifier", "[ui]\nquick_select_modifier = \"shift\"\n"},
		{"not toml", "endpoint = = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := NewConfigServiceAt(path).Load()
			assert.Error(t, err)
		})
	}
}

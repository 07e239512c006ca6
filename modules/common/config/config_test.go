package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single key", "key-a", []string{"key-a"}},
		{"multiple keys", "key-a,key-b,key-c", []string{"key-a", "key-b", "key-c"}},
		{"whitespace trimmed", " key-a , key-b ", []string{"key-a", "key-b"}},
		{"empty segments dropped", "key-a,,key-b,", []string{"key-a", "key-b"}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAPIKeys(tt.raw))
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_IMAGE_MODEL", "")
	t.Setenv("PORT", "")
	t.Setenv("ARCHIVE_PATH", "")
	t.Setenv("ARCHIVE_MAX_BYTES", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"test-key"}, cfg.GeminiAPIKeys)
	assert.Equal(t, "test-key", cfg.PrimaryAPIKey())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "data/archive.json", cfg.ArchivePath)
	assert.Equal(t, int64(5*1024*1024), cfg.ArchiveMaxBytes)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k1,k2")
	t.Setenv("ARCHIVE_MAX_BYTES", "1024")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Len(t, cfg.GeminiAPIKeys, 2)
	assert.Equal(t, int64(1024), cfg.ArchiveMaxBytes)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs429Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status code", errors.New("googleapi: Error 429: Resource exhausted"), true},
		{"rate limit text", errors.New("Rate Limit exceeded"), true},
		{"quota text", errors.New("Quota exceeded for model"), true},
		{"unrelated", errors.New("invalid argument"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, is429Error(tt.err))
		})
	}
}

func TestGenerateContentWithRetryNoKeys(t *testing.T) {
	_, err := GenerateContentWithRetry(context.Background(), nil, "gemini-2.5-flash-image", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API keys")
}

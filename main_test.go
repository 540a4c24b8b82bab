package main

import (
	"fmt"
	"testing"

	"github.com/astera-dev/mcp-websearch/internal/tools/toolerr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapToolError_InvalidParams(t *testing.T) {
	result, err := wrapToolError(toolerr.InvalidParams("max_results must be between 1 and 19, got 25"))

	// Caller faults surface as a tool-level error result, not a protocol error
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "invalid_params")
	assert.Contains(t, text.Text, "max_results")
}

func TestWrapToolError_WrappedInvalidParams(t *testing.T) {
	inner := toolerr.InvalidParams("missing required parameter: query")
	result, err := wrapToolError(fmt.Errorf("search: %w", inner))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestWrapToolError_Internal(t *testing.T) {
	result, err := wrapToolError(toolerr.Internal(fmt.Errorf("401 unauthorised"), "search request failed"))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, toolerr.KindInternal, toolerr.KindOf(err))
}

func TestWrapToolError_PlainErrorIsInternal(t *testing.T) {
	result, err := wrapToolError(fmt.Errorf("something broke"))

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected logrus.Level
	}{
		{"", logrus.WarnLevel},
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{" warn ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.WarnLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			assert.Equal(t, tt.expected, parseLogLevel())
		})
	}
}

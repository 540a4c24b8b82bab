package calculator

import (
	"context"
	"io"
	"testing"

	"github.com/astera-dev/mcp-websearch/internal/tools/toolerr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestAdd(t *testing.T) {
	assert.Equal(t, int64(5), Add(2, 3))
	assert.Equal(t, int64(0), Add(0, 0))
	assert.Equal(t, int64(-1), Add(2, -3))
}

func TestSubtract(t *testing.T) {
	assert.Equal(t, int64(-1), Subtract(2, 3))
	assert.Equal(t, int64(5), Subtract(2, -3))
}

func TestSquareRoot(t *testing.T) {
	root, err := SquareRoot(9)
	require.NoError(t, err)
	assert.Equal(t, float64(3), root)

	root, err = SquareRoot(0)
	require.NoError(t, err)
	assert.Equal(t, float64(0), root)

	root, err = SquareRoot(2)
	require.NoError(t, err)
	assert.InDelta(t, 1.41421356, root, 1e-8)
}

func TestSquareRoot_Negative(t *testing.T) {
	_, err := SquareRoot(-1)
	require.Error(t, err)
	assert.Equal(t, toolerr.KindInvalidParams, toolerr.KindOf(err))
	assert.Contains(t, err.Error(), "square root of a negative number")
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
		wantErr  bool
	}{
		{name: "float64 truncated", input: float64(3.9), expected: 3},
		{name: "negative float64 truncated towards zero", input: float64(-3.9), expected: -3},
		{name: "int", input: 7, expected: 7},
		{name: "int64", input: int64(9), expected: 9},
		{name: "numeric string", input: "42", expected: 42},
		{name: "numeric string with whitespace", input: " 42 ", expected: 42},
		{name: "non-numeric string", input: "abc", wantErr: true},
		{name: "float string rejected", input: "3.5", wantErr: true},
		{name: "nil is missing", input: nil, wantErr: true},
		{name: "bool rejected", input: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := toInt("a", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, toolerr.KindInvalidParams, toolerr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		wantErr  bool
	}{
		{name: "float64", input: float64(2.5), expected: 2.5},
		{name: "int", input: 4, expected: 4},
		{name: "numeric string", input: "2.5", expected: 2.5},
		{name: "non-numeric string", input: "two", wantErr: true},
		{name: "nil is missing", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := toFloat("a", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestAddTool_Execute(t *testing.T) {
	tool := &AddTool{}

	result, err := tool.Execute(context.Background(), newTestLogger(), nil, map[string]any{
		"a": float64(2),
		"b": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "5", resultText(t, result))
}

func TestAddTool_Execute_StringCoercion(t *testing.T) {
	tool := &AddTool{}

	result, err := tool.Execute(context.Background(), newTestLogger(), nil, map[string]any{
		"a": "2",
		"b": "3",
	})
	require.NoError(t, err)
	assert.Equal(t, "5", resultText(t, result))
}

func TestAddTool_Execute_MissingParam(t *testing.T) {
	tool := &AddTool{}

	_, err := tool.Execute(context.Background(), newTestLogger(), nil, map[string]any{
		"a": float64(2),
	})
	require.Error(t, err)
	assert.Equal(t, toolerr.KindInvalidParams, toolerr.KindOf(err))
	assert.Contains(t, err.Error(), "missing required parameter: b")
}

func TestSubtractTool_Execute(t *testing.T) {
	tool := &SubtractTool{}

	result, err := tool.Execute(context.Background(), newTestLogger(), nil, map[string]any{
		"a": float64(2),
		"b": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "-1", resultText(t, result))
}

func TestSquareRootTool_Execute(t *testing.T) {
	tool := &SquareRootTool{}

	result, err := tool.Execute(context.Background(), newTestLogger(), nil, map[string]any{
		"a": float64(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "3", resultText(t, result))
}

func TestSquareRootTool_Execute_Negative(t *testing.T) {
	tool := &SquareRootTool{}

	_, err := tool.Execute(context.Background(), newTestLogger(), nil, map[string]any{
		"a": float64(-4),
	})
	require.Error(t, err)
	assert.Equal(t, toolerr.KindInvalidParams, toolerr.KindOf(err))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "3", formatFloat(3))
	assert.Equal(t, "2.5", formatFloat(2.5))
	assert.Equal(t, "-4", formatFloat(-4))
}

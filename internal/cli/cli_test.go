package cli

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/astera-dev/mcp-websearch/internal/registry"
	"github.com/astera-dev/mcp-websearch/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name     string
	lastArgs map[string]any
}

func (e *echoTool) Definition() mcp.Tool {
	return mcp.NewTool(e.name, mcp.WithDescription("echo tool\nsecond line"))
}

func (e *echoTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	e.lastArgs = args
	return mcp.NewToolResultText("echoed"), nil
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestResolveTool(t *testing.T) {
	registry.Init(newTestLogger())
	registry.Register(&echoTool{name: "echo_tool"})

	name, ok := resolveTool("echo_tool")
	assert.True(t, ok)
	assert.Equal(t, "echo_tool", name)

	// Kebab-case input resolves to the registered snake_case name
	name, ok = resolveTool("echo-tool")
	assert.True(t, ok)
	assert.Equal(t, "echo_tool", name)

	_, ok = resolveTool("missing-tool")
	assert.False(t, ok)
}

func TestRunTool_JSONArguments(t *testing.T) {
	registry.Init(newTestLogger())
	tool := &echoTool{name: "echo_args"}
	registry.Register(tool)

	runner := NewRunner(newTestLogger(), registry.GetCache(), OutputText)
	err := runner.RunTool(context.Background(), "echo_args", []string{`{"query": "hello", "max_results": 3}`})
	require.NoError(t, err)

	assert.Equal(t, "hello", tool.lastArgs["query"])
	assert.Equal(t, float64(3), tool.lastArgs["max_results"])
}

func TestRunTool_RejectsNonJSONArguments(t *testing.T) {
	registry.Init(newTestLogger())
	registry.Register(&echoTool{name: "echo_strict"})

	runner := NewRunner(newTestLogger(), registry.GetCache(), OutputText)

	err := runner.RunTool(context.Background(), "echo_strict", []string{"query=hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON object")

	err = runner.RunTool(context.Background(), "echo_strict", []string{"{not json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestRunTool_UnknownTool(t *testing.T) {
	registry.Init(newTestLogger())

	runner := NewRunner(newTestLogger(), registry.GetCache(), OutputText)
	err := runner.RunTool(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool: nope")
}

type helpfulTool struct {
	echoTool
}

func (h *helpfulTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse:      "when echoing",
		WhenNotToUse:   "when silence is needed",
		CommonPatterns: []string{`{"query": "hi"}`},
		ParameterDetails: map[string]string{
			"query": "the text to echo",
			"loud":  "whether to shout",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{Problem: "no output", Solution: "check the input"},
		},
	}
}

func TestFormatToolHelp(t *testing.T) {
	tool := &helpfulTool{echoTool{name: "echo_help"}}
	out := formatToolHelp(tool.Definition(), tool.ProvideExtendedInfo())

	assert.Contains(t, out, "echo_help")
	assert.Contains(t, out, "When to use:\n  when echoing")
	assert.Contains(t, out, "When not to use:\n  when silence is needed")
	assert.Contains(t, out, `{"query": "hi"}`)
	assert.Contains(t, out, "no output -> check the input")

	// Parameter details render sorted by name
	assert.Less(t, strings.Index(out, "loud:"), strings.Index(out, "query:"))
}

func TestFormatToolHelp_NoExtendedHelp(t *testing.T) {
	tool := &echoTool{name: "echo_plain"}
	out := formatToolHelp(tool.Definition(), nil)

	assert.Contains(t, out, "echo_plain")
	assert.Contains(t, out, "echo tool")
	assert.NotContains(t, out, "When to use:")
}

func TestDescribeTool(t *testing.T) {
	registry.Init(newTestLogger())
	registry.Register(&helpfulTool{echoTool{name: "echo_describe"}})

	runner := NewRunner(newTestLogger(), registry.GetCache(), OutputText)
	require.NoError(t, runner.DescribeTool("echo_describe"))

	// Kebab-case resolves the same way as call
	require.NoError(t, runner.DescribeTool("echo-describe"))

	err := runner.DescribeTool("missing-tool")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool: missing-tool")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "echo tool", firstLine("echo tool\nsecond line"))
	assert.Equal(t, "single", firstLine("single"))
	assert.Equal(t, "", firstLine(""))
}

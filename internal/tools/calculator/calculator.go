// Package calculator provides basic arithmetic tools: add, subtract and
// square_root. Inputs are coerced to numbers before computing, matching the
// lenient behaviour callers expect from tool servers (numeric strings are
// accepted alongside JSON numbers).
package calculator

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/astera-dev/mcp-websearch/internal/registry"
	"github.com/astera-dev/mcp-websearch/internal/tools/toolerr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// init registers the calculator tools with the registry
func init() {
	registry.Register(&AddTool{})
	registry.Register(&SubtractTool{})
	registry.Register(&SquareRootTool{})
}

// toInt coerces a raw argument to an integer. JSON numbers arrive as
// float64 and are truncated towards zero; numeric strings are parsed.
func toInt(name string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, toolerr.InvalidParams("parameter %q must be an integer, got %q", name, n)
		}
		return parsed, nil
	case nil:
		return 0, toolerr.InvalidParams("missing required parameter: %s", name)
	default:
		return 0, toolerr.InvalidParams("parameter %q must be a number, got %T", name, v)
	}
}

// toFloat coerces a raw argument to a float64
func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, toolerr.InvalidParams("parameter %q must be a number, got %q", name, n)
		}
		return parsed, nil
	case nil:
		return 0, toolerr.InvalidParams("missing required parameter: %s", name)
	default:
		return 0, toolerr.InvalidParams("parameter %q must be a number, got %T", name, v)
	}
}

// formatFloat renders a float without a trailing ".0" for whole values
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AddTool implements the tools.Tool interface for integer addition
type AddTool struct{}

// Definition returns the tool's definition for MCP registration
func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"add",
		mcp.WithDescription("Add two numbers. Both inputs are coerced to integers before computing."),
		mcp.WithNumber("a",
			mcp.Required(),
			mcp.Description("The first number"),
		),
		mcp.WithNumber("b",
			mcp.Required(),
			mcp.Description("The second number"),
		),
	)
}

// Execute executes the addition
func (t *AddTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	a, err := toInt("a", args["a"])
	if err != nil {
		return nil, err
	}
	b, err := toInt("b", args["b"])
	if err != nil {
		return nil, err
	}

	sum := Add(a, b)
	logger.WithFields(logrus.Fields{"a": a, "b": b, "result": sum}).Debug("Executed add")
	return mcp.NewToolResultText(strconv.FormatInt(sum, 10)), nil
}

// SubtractTool implements the tools.Tool interface for integer subtraction
type SubtractTool struct{}

// Definition returns the tool's definition for MCP registration
func (t *SubtractTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"subtract",
		mcp.WithDescription("Subtract two numbers. Both inputs are coerced to integers before computing."),
		mcp.WithNumber("a",
			mcp.Required(),
			mcp.Description("The first number"),
		),
		mcp.WithNumber("b",
			mcp.Required(),
			mcp.Description("The second number"),
		),
	)
}

// Execute executes the subtraction
func (t *SubtractTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	a, err := toInt("a", args["a"])
	if err != nil {
		return nil, err
	}
	b, err := toInt("b", args["b"])
	if err != nil {
		return nil, err
	}

	diff := Subtract(a, b)
	logger.WithFields(logrus.Fields{"a": a, "b": b, "result": diff}).Debug("Executed subtract")
	return mcp.NewToolResultText(strconv.FormatInt(diff, 10)), nil
}

// SquareRootTool implements the tools.Tool interface for square roots
type SquareRootTool struct{}

// Definition returns the tool's definition for MCP registration
func (t *SquareRootTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"square_root",
		mcp.WithDescription("Square root a number. The input is coerced to floating point; negative input is a domain error."),
		mcp.WithNumber("a",
			mcp.Required(),
			mcp.Description("The number to be square rooted"),
		),
	)
}

// Execute executes the square root
func (t *SquareRootTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	a, err := toFloat("a", args["a"])
	if err != nil {
		return nil, err
	}

	root, err := SquareRoot(a)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"a": a, "result": root}).Debug("Executed square_root")
	return mcp.NewToolResultText(formatFloat(root)), nil
}

// Add returns the sum of two integers
func Add(a, b int64) int64 {
	return a + b
}

// Subtract returns a minus b
func Subtract(a, b int64) int64 {
	return a - b
}

// SquareRoot returns the non-negative real square root of a.
// Negative input is rejected as a domain error.
func SquareRoot(a float64) (float64, error) {
	if a < 0 {
		return 0, toolerr.InvalidParams("cannot take the square root of a negative number: %s", formatFloat(a))
	}
	return math.Sqrt(a), nil
}

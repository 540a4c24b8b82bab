// Package cli provides a direct command-line interface to the registered
// tools, bypassing the MCP server entirely. Tools are invoked in-process
// via the registry, so no server or network round-trip is needed.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/astera-dev/mcp-websearch/internal/registry"
	"github.com/astera-dev/mcp-websearch/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// OutputFormat controls how tool results are rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Runner executes CLI commands against the tool registry.
type Runner struct {
	logger *logrus.Logger
	cache  *sync.Map
	output OutputFormat
}

// NewRunner creates a Runner that uses the given logger, cache, and output format.
func NewRunner(logger *logrus.Logger, cache *sync.Map, output OutputFormat) *Runner {
	return &Runner{logger: logger, cache: cache, output: output}
}

// ListTools prints all enabled tools with their descriptions.
func (r *Runner) ListTools() error {
	tools := registry.GetEnabledTools()

	type entry struct {
		name string
		desc string
	}
	entries := make([]entry, 0, len(tools))
	for _, t := range tools {
		def := t.Definition()
		entries = append(entries, entry{name: def.Name, desc: firstLine(def.Description)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	if r.output == OutputJSON {
		type jsonEntry struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		out := make([]jsonEntry, len(entries))
		for i, e := range entries {
			out[i] = jsonEntry{Name: e.name, Description: e.desc}
		}
		return writeJSON(os.Stdout, out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.name, e.desc)
	}
	return w.Flush()
}

// DescribeTool prints a tool's full description and, when the tool
// provides it, extended usage help (patterns, parameter details,
// troubleshooting tips).
func (r *Runner) DescribeTool(name string) error {
	resolved, found := resolveTool(name)
	if !found {
		return fmt.Errorf("unknown tool: %s (run 'mcp-websearch tools' to see available tools)", name)
	}
	tool, _ := registry.GetTool(resolved)
	def := tool.Definition()

	var help *tools.ExtendedHelp
	if provider, ok := tool.(tools.ExtendedHelpProvider); ok {
		help = provider.ProvideExtendedInfo()
	}

	if r.output == OutputJSON {
		out := struct {
			Name        string              `json:"name"`
			Description string              `json:"description"`
			Help        *tools.ExtendedHelp `json:"help,omitempty"`
		}{Name: def.Name, Description: def.Description, Help: help}
		return writeJSON(os.Stdout, out)
	}

	fmt.Fprint(os.Stdout, formatToolHelp(def, help))
	return nil
}

// formatToolHelp renders a tool definition and its optional extended help
// as terminal text
func formatToolHelp(def mcp.Tool, help *tools.ExtendedHelp) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n", def.Name, def.Description)

	if help == nil {
		return b.String()
	}

	if help.WhenToUse != "" {
		fmt.Fprintf(&b, "\nWhen to use:\n  %s\n", help.WhenToUse)
	}
	if help.WhenNotToUse != "" {
		fmt.Fprintf(&b, "\nWhen not to use:\n  %s\n", help.WhenNotToUse)
	}
	if len(help.CommonPatterns) > 0 {
		b.WriteString("\nCommon patterns:\n")
		for _, pattern := range help.CommonPatterns {
			fmt.Fprintf(&b, "  %s\n", pattern)
		}
	}
	if len(help.ParameterDetails) > 0 {
		b.WriteString("\nParameters:\n")
		names := make([]string, 0, len(help.ParameterDetails))
		for name := range help.ParameterDetails {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s\n", name, help.ParameterDetails[name])
		}
	}
	if len(help.Troubleshooting) > 0 {
		b.WriteString("\nTroubleshooting:\n")
		for _, tip := range help.Troubleshooting {
			fmt.Fprintf(&b, "  %s -> %s\n", tip.Problem, tip.Solution)
		}
	}

	return b.String()
}

// RunTool executes a tool by name. args is either empty or a single JSON
// object string, e.g. '{"query": "golang news", "max_results": 3}'.
func (r *Runner) RunTool(ctx context.Context, name string, args []string) error {
	resolved, found := resolveTool(name)
	if !found {
		return fmt.Errorf("unknown tool: %s (run 'mcp-websearch tools' to see available tools)", name)
	}
	tool, _ := registry.GetTool(resolved)

	params := make(map[string]any)
	for _, arg := range args {
		if !strings.HasPrefix(arg, "{") {
			return fmt.Errorf("unexpected argument: %s (pass tool parameters as a JSON object)", arg)
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(arg), &obj); err != nil {
			return fmt.Errorf("invalid JSON argument: %w", err)
		}
		for k, v := range obj {
			params[k] = v
		}
	}

	result, err := tool.Execute(ctx, r.logger, r.cache, params)
	if err != nil {
		return fmt.Errorf("tool error: %w", err)
	}

	return r.renderResult(result)
}

// renderResult formats a CallToolResult for terminal output.
func (r *Runner) renderResult(result *mcp.CallToolResult) error {
	if result == nil {
		return nil
	}

	if r.output == OutputJSON {
		return writeJSON(os.Stdout, result)
	}

	// Text mode: extract text content
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			fmt.Fprintln(os.Stdout, c.Text)
		default:
			// Non-text content: render as JSON
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stdout, "%+v\n", c)
			} else {
				fmt.Fprintln(os.Stdout, string(data))
			}
		}
	}

	if result.IsError {
		return fmt.Errorf("tool returned an error")
	}
	return nil
}

// resolveTool looks up a tool by name, trying the name as-is first,
// then with hyphens converted to underscores (since CLI users naturally
// type kebab-case but tools are registered with snake_case names).
func resolveTool(name string) (string, bool) {
	if _, ok := registry.GetTool(name); ok {
		return name, true
	}
	snakeName := strings.ReplaceAll(name, "-", "_")
	if snakeName != name {
		if _, ok := registry.GetTool(snakeName); ok {
			return snakeName, true
		}
	}
	return name, false
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstLine(s string) string {
	if before, _, found := strings.Cut(s, "\n"); found {
		return before
	}
	return s
}

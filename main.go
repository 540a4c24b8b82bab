package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	toolcli "github.com/astera-dev/mcp-websearch/internal/cli"
	"github.com/astera-dev/mcp-websearch/internal/config"
	"github.com/astera-dev/mcp-websearch/internal/registry"
	"github.com/astera-dev/mcp-websearch/internal/tools"
	"github.com/astera-dev/mcp-websearch/internal/tools/toolerr"

	// Import all tool packages to register them
	_ "github.com/astera-dev/mcp-websearch/internal/imports"
)

// Version information (set during build)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Global resources that need cleanup
// Using atomic operations to prevent race conditions between signal handlers and cleanup
var (
	debugLogFile atomic.Pointer[os.File]
	isStdioMode  atomic.Bool
)

// parseLogLevel parses the LOG_LEVEL environment variable and returns the appropriate logrus level.
// Defaults to WarnLevel if not set or invalid.
func parseLogLevel() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		return logrus.WarnLevel // Default to warn
	}

	// Normalise to lowercase for comparison
	logLevelStr = strings.ToLower(strings.TrimSpace(logLevelStr))

	switch logLevelStr {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		// Invalid value, default to warn
		return logrus.WarnLevel
	}
}

func main() {
	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create a logger with default configuration
	// Initially discard output - will be reconfigured in Action based on transport mode
	logger := logrus.New()
	logger.SetOutput(io.Discard) // Prevent any early logging before we know the transport mode
	logger.SetLevel(parseLogLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Initialise the registry
	registry.Init(logger)

	// Ensure cleanup runs on normal exit OR signal
	defer performCleanup(logger)

	app := &cli.Command{
		Name:    "mcp-websearch",
		Usage:   "MCP server for Tavily web search and calculator tools",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Value:   "stdio",
				Usage:   "Transport type (stdio, sse, or http)",
			},
			&cli.StringFlag{
				Name:  "port",
				Value: "18080",
				Usage: "Port to use for HTTP transports (SSE and Streamable HTTP)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Value: "http://localhost",
				Usage: "Base URL for HTTP transports",
			},
			&cli.StringFlag{
				Name:  "auth-token",
				Usage: "Authentication token for Streamable HTTP transport (optional)",
			},
			&cli.StringFlag{
				Name:  "endpoint-path",
				Value: "/http",
				Usage: "Endpoint path for Streamable HTTP transport",
			},
			&cli.DurationFlag{
				Name:  "session-timeout",
				Value: 30 * time.Minute,
				Usage: "Session timeout for Streamable HTTP transport",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("mcp-websearch version %s\n", Version)
					fmt.Printf("Commit: %s\n", Commit)
					fmt.Printf("Built: %s\n", BuildDate)
					return nil
				},
			},
			{
				Name:  "tools",
				Usage: "List the enabled tools",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					logger.SetOutput(os.Stderr)
					runner := toolcli.NewRunner(logger, registry.GetCache(), outputFormat(cmd.Bool("json")))
					return runner.ListTools()
				},
			},
			{
				Name:      "describe",
				Usage:     "Show a tool's description and extended usage help",
				ArgsUsage: "<tool>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					logger.SetOutput(os.Stderr)
					args := cmd.Args().Slice()
					if len(args) != 1 {
						return fmt.Errorf("usage: mcp-websearch describe <tool>")
					}
					runner := toolcli.NewRunner(logger, registry.GetCache(), outputFormat(cmd.Bool("json")))
					return runner.DescribeTool(args[0])
				},
			},
			{
				Name:      "call",
				Usage:     "Invoke a tool directly, without starting a server",
				ArgsUsage: "<tool> [json-arguments]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the full tool result as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					logger.SetOutput(os.Stderr)
					args := cmd.Args().Slice()
					if len(args) == 0 {
						return fmt.Errorf("usage: mcp-websearch call <tool> [json-arguments]")
					}
					runner := toolcli.NewRunner(logger, registry.GetCache(), outputFormat(cmd.Bool("json")))
					return runner.RunTool(ctx, args[0], args[1:])
				},
			},
		},
		Action: func(cliCtx context.Context, cmd *cli.Command) error {
			// Get transport settings
			transport := cmd.String("transport")
			port := cmd.String("port")
			baseURL := cmd.String("base-url")

			// Track stdio mode for error handling (atomic to prevent races with signal handlers)
			isStdioMode.Store(transport == "stdio")

			// Configure logger - ALWAYS use file logging to avoid breaking stdio protocol
			configureLogging(logger)

			// Initialise tool error logger after logging is configured
			if err := tools.InitGlobalErrorLogger(logger); err != nil {
				logger.WithError(err).Debug("Failed to initialise tool error logger")
				if transport != "stdio" {
					logger.WithError(err).Warn("Failed to initialise tool error logger")
				}
			}

			enabledTools := registry.GetEnabledTools()

			// The search tools cannot run without the provider API key.
			// Fail at startup rather than on first use, unless every search
			// tool has been disabled.
			if searchToolsEnabled(enabledTools) {
				if err := config.Get().ValidateForSearch(); err != nil {
					return err
				}
			}

			// Only log startup info for non-stdio transports
			if transport != "stdio" {
				logger.Infof("Starting mcp-websearch version %s (commit: %s, built: %s)",
					Version, Commit, BuildDate)
			}

			// Create MCP server
			logger.Debug("Creating MCP server")
			mcpSrv := mcpserver.NewMCPServer("mcp-websearch", "Tavily Search & Calculator Server")

			logger.WithField("tool_count", len(enabledTools)).Debug("MCP server created, registering tools")

			for toolName := range enabledTools {
				// Capture for the closure
				name := toolName

				if transport != "stdio" {
					logger.Infof("Registering tool: %s", name)
				}

				mcpSrv.AddTool(enabledTools[name].Definition(), func(toolCtx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					// Get fresh reference from registry to ensure consistency
					currentTool, ok := registry.GetTool(name)
					if !ok {
						return nil, fmt.Errorf("tool not found: %s", name)
					}

					args, ok := request.Params.Arguments.(map[string]any)
					if !ok {
						return nil, fmt.Errorf("invalid arguments type: expected map[string]interface{}, got %T", request.Params.Arguments)
					}

					result, err := currentTool.Execute(toolCtx, registry.GetLogger(), registry.GetCache(), args)
					if err != nil {
						if transport != "stdio" {
							logger.WithError(err).Errorf("Tool execution failed: %s", name)
						}

						// Log tool error to file if enabled
						if errorLogger := tools.GetGlobalErrorLogger(); errorLogger != nil && errorLogger.IsEnabled() {
							errorLogger.LogToolError(name, args, string(toolerr.KindOf(err)), err, transport)
						}

						return wrapToolError(err)
					}

					return result, nil
				})
			}

			// Start the server
			logger.WithField("transport", transport).Debug("Starting server")
			switch transport {
			case "stdio":
				logger.Debug("Starting stdio server")
				return mcpserver.ServeStdio(mcpSrv)
			case "sse":
				logger.WithField("port", port).Debug("Starting SSE server")
				sseServer := mcpserver.NewSSEServer(mcpSrv, mcpserver.WithBaseURL(baseURL+"/sse"))
				return sseServer.Start(":" + port)
			case "http":
				logger.WithField("port", port).Debug("Starting HTTP server")
				return startStreamableHTTPServer(cliCtx, cmd, mcpSrv, logger)
			default:
				return fmt.Errorf("unsupported transport: %s", transport)
			}
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		// CRITICAL: In stdio mode, we must NOT log to stdout or stderr as it breaks the MCP protocol
		if !isStdioMode.Load() {
			logger.Fatalf("Error: %v", err)
		}
		os.Exit(1)
	}
}

// configureLogging routes all log output to a file so the stdio transport
// stays protocol-clean, falling back to stderr (or discard, in stdio mode)
// when the file cannot be opened
func configureLogging(logger *logrus.Logger) {
	logLevel := parseLogLevel()
	if isStdioMode.Load() && logLevel < logrus.WarnLevel {
		logLevel = logrus.WarnLevel // Minimum warn level for stdio mode
	}

	fallback := func() {
		if isStdioMode.Load() {
			logger.SetOutput(io.Discard)
			logrus.SetOutput(io.Discard)
		} else {
			logger.SetOutput(os.Stderr)
			logrus.SetOutput(os.Stderr)
		}
		logger.SetLevel(logLevel)
		logrus.SetLevel(logLevel)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fallback()
		return
	}

	logDir := filepath.Join(homeDir, ".mcp-websearch", "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fallback()
		return
	}

	logFile := filepath.Join(logDir, "mcp-websearch.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fallback()
		return
	}

	// Store file handle for cleanup
	debugLogFile.Store(file)
	logger.SetOutput(file)
	logrus.SetOutput(file)
	logger.SetLevel(logLevel)
	logrus.SetLevel(logLevel)
	logger.WithField("level", logLevel.String()).Debug("Logging configured")
}

// wrapToolError converts a tool failure into its wire form: caller faults
// become tool-level error results so the caller sees the invalid_params
// kind rather than a protocol failure; everything else stays a protocol
// error for the transport to report
func wrapToolError(err error) (*mcp.CallToolResult, error) {
	if toolerr.KindOf(err) == toolerr.KindInvalidParams {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, fmt.Errorf("tool execution failed: %w", err)
}

// searchToolsEnabled reports whether any Tavily search tool survived the
// DISABLED_TOOLS filter
func searchToolsEnabled(enabled map[string]tools.Tool) bool {
	for name := range enabled {
		if strings.HasPrefix(name, "tavily_") {
			return true
		}
	}
	return false
}

// outputFormat maps the --json flag to a CLI output format
func outputFormat(asJSON bool) toolcli.OutputFormat {
	if asJSON {
		return toolcli.OutputJSON
	}
	return toolcli.OutputText
}

// performCleanup handles cleanup of resources on shutdown
func performCleanup(logger *logrus.Logger) {
	// Close the debug log file if it was opened (atomic load to prevent races)
	if file := debugLogFile.Load(); file != nil {
		// Silently close - we're in cleanup and can't safely log errors
		_ = file.Close()
	}

	// Close the tool error logger if it was initialised
	if errorLogger := tools.GetGlobalErrorLogger(); errorLogger != nil {
		if err := errorLogger.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close tool error logger")
		}
	}
}

// startStreamableHTTPServer configures and starts the Streamable HTTP server with graceful shutdown
func startStreamableHTTPServer(ctx context.Context, cmd *cli.Command, mcpServer *mcpserver.MCPServer, logger *logrus.Logger) error {
	port := cmd.String("port")
	authToken := cmd.String("auth-token")
	endpointPath := cmd.String("endpoint-path")
	sessionTimeout := cmd.Duration("session-timeout")

	logger.Infof("Starting Streamable HTTP server on port %s with endpoint %s", port, endpointPath)

	// Configure server options
	var opts []mcpserver.StreamableHTTPOption
	opts = append(opts, mcpserver.WithEndpointPath(endpointPath))

	if sessionTimeout > 0 {
		opts = append(opts, mcpserver.WithSessionIdManager(&TimeoutSessionManager{
			timeout: sessionTimeout,
			logger:  logger,
		}))
	}

	if authToken != "" {
		opts = append(opts, mcpserver.WithHTTPContextFunc(createAuthMiddleware(authToken, logger)))
		logger.Info("Token authentication enabled")
	}

	// Heartbeat keeps idle connections alive; 1/4 of the session timeout
	heartbeatInterval := 30 * time.Second
	if sessionTimeout > 0 {
		heartbeatInterval = sessionTimeout / 4
	}
	opts = append(opts, mcpserver.WithHeartbeatInterval(heartbeatInterval))
	opts = append(opts, mcpserver.WithLogger(&logrusAdapter{logger: logger}))

	httpServer := mcpserver.NewStreamableHTTPServer(mcpServer, opts...)

	mux := http.NewServeMux()
	mux.Handle(endpointPath, httpServer)

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        mux,
		ReadTimeout:    30 * time.Second,  // Prevent slow loris attacks
		WriteTimeout:   30 * time.Second,  // Prevent slow writes
		IdleTimeout:    120 * time.Second, // Close idle connections
		MaxHeaderBytes: 1 << 20,           // 1MB max header size
	}

	logger.Infof("Heartbeat interval: %v", heartbeatInterval)
	logger.Info("Server supports multiple simultaneous connections")

	// Start server in goroutine to allow graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case serverErr <- err:
			case <-ctx.Done():
				// Context cancelled, error no longer relevant
			}
		}
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping HTTP server")
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
		return err
	}

	logger.Info("HTTP server stopped gracefully")
	return nil
}

// createAuthMiddleware creates an HTTP context function for token authentication
func createAuthMiddleware(expectedToken string, logger *logrus.Logger) mcpserver.HTTPContextFunc {
	return func(ctx context.Context, req *http.Request) context.Context {
		// Validate MCP Protocol Version header
		protocolVersion := req.Header.Get("MCP-Protocol-Version")
		if protocolVersion != "" && !isValidProtocolVersion(protocolVersion) {
			logger.Warnf("Unsupported MCP Protocol Version: %s", protocolVersion)
		}

		if expectedToken != "" {
			authHeader := req.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Request missing Authorization header")
				return ctx
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				logger.Warn("Invalid authorization format, expected Bearer token")
				return ctx
			}

			token := strings.TrimPrefix(authHeader, bearerPrefix)
			if token != expectedToken {
				logger.Warn("Invalid authentication token")
				return ctx
			}

			logger.Debug("Request authenticated successfully")
		}

		return ctx
	}
}

// isValidProtocolVersion checks if the MCP protocol version is supported
func isValidProtocolVersion(version string) bool {
	supportedVersions := []string{
		"2025-06-18", // Current version
		"2024-11-05", // Backwards compatibility
	}

	return slices.Contains(supportedVersions, version)
}

// TimeoutSessionManager implements SessionIdManager with timeout support
type TimeoutSessionManager struct {
	timeout time.Duration
	logger  *logrus.Logger
}

func (t *TimeoutSessionManager) Generate() string {
	return fmt.Sprintf("session-%d", time.Now().UnixNano())
}

func (t *TimeoutSessionManager) Validate(sessionID string) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("empty session ID")
	}
	return false, nil // Session is not terminated
}

func (t *TimeoutSessionManager) Terminate(sessionID string) (bool, error) {
	t.logger.Debugf("Session terminated: %s", sessionID)
	return true, nil // Session was terminated successfully
}

// logrusAdapter adapts logrus.Logger to the mcp-go util.Logger interface
type logrusAdapter struct {
	logger *logrus.Logger
}

func (l *logrusAdapter) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *logrusAdapter) Infof(format string, args ...any) {
	l.logger.Infof(format, args...)
}

func (l *logrusAdapter) Warnf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

func (l *logrusAdapter) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}

package imports

import (
	// Import all tool packages so their init functions register them
	_ "github.com/astera-dev/mcp-websearch/internal/tools/calculator"
	_ "github.com/astera-dev/mcp-websearch/internal/tools/tavily"
)

package internal

import (
	"fmt"

	"github.com/hearthhq/hearth/internal/mcpserver"
	"github.com/hearthhq/hearth/internal/store"
)

// RunMCP serves the MCP stdio transport against the configured store.
// Logging stays off stdout here; the MCP protocol owns it.
func RunMCP(cfg *Config) error {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	return mcpserver.New(db).ServeStdio()
}

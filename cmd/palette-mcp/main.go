package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/ironsheep/paint-palette-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("paint-palette-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("paint-palette-mcp - MCP server for palette extraction and paint matching")
			fmt.Println()
			fmt.Println("Usage: paint-palette-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug           Log level (debug, info, warn, error)\n", server.EnvLogLevel)
			fmt.Printf("  %s=6              Decoded images kept in memory\n", server.EnvCacheSize)
			fmt.Printf("  %s=40        Latest-wins window for targeted sampling\n", server.EnvPickDelayMS)
			fmt.Printf("  %s=42        Default paint match distance\n", server.EnvMatchThreshold)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := server.LoadConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paint-palette-mcp: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   cfg.LogLevel,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	logger.Debug("starting server", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.NewWithConfig(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"elevenlabs-mcp/internal/config"
	"elevenlabs-mcp/internal/logging"
	"elevenlabs-mcp/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ElevenLabs tools over MCP stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{
		ConfigPath: globalFlags.ConfigPath,
		Overrides:  overridesFrom(cmd),
	})
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}

	// stdout belongs to the MCP stream, so everything human goes to stderr.
	logger := logging.New(os.Stderr, cfg.LogLevel)
	if IsTTY() {
		st := newStyles(os.Stderr)
		fmt.Fprintln(os.Stderr, st.banner(), st.dim("v"+versionString()))
		fmt.Fprintln(os.Stderr, st.warnPrefix(), "stdin is a terminal. This server speaks MCP over stdio and is meant to be launched by an MCP client.")
		fmt.Fprintln(os.Stderr, st.kv("Output mode", string(cfg.OutputMode)))
		fmt.Fprintln(os.Stderr, st.kv("Base path", displayBasePath(cfg.BasePath)))
		fmt.Fprintln(os.Stderr, st.kv("API", cfg.BaseURL))
	}

	server, err := mcp.NewServer(mcp.ServerOptions{Config: cfg, Logger: logger})
	if err != nil {
		exitWith(ExitServeFailure, "ERROR: MCP server init: "+err.Error())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", "err", err)
		exitWith(ExitServeFailure, "ERROR: "+err.Error())
	}
	logger.Debug("server stopped")
	return nil
}

// displayBasePath describes where relative paths land. Without a base path
// inputs must be absolute and output falls back to the desktop.
func displayBasePath(basePath string) string {
	if basePath == "" {
		return "(unset, output falls back to ~/Desktop; input paths must be absolute)"
	}
	return basePath
}

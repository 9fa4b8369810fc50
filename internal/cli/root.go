package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"elevenlabs-mcp/internal/config"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGenericError  = 1
	ExitConfigInvalid = 2
	ExitServeFailure  = 3
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	ConfigPath string
	BasePath   string
	OutputMode string
	LogLevel   string
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "elevenlabs-mcp",
	Short: "MCP server for the ElevenLabs voice and audio API",
	Long: "elevenlabs-mcp exposes ElevenLabs text to speech, transcription, sound effects and voice design as MCP tools over stdio.\n" +
		"Run without a subcommand to serve.",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "config file path (.yaml or .toml, default "+config.DefaultConfigPath+" if present)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.BasePath, "base-path", "", "base directory for relative paths (overrides "+config.EnvBasePath+")")
	rootCmd.PersistentFlags().StringVar(&globalFlags.OutputMode, "output-mode", "", "files|resources|both (overrides "+config.EnvOutputMode+")")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "debug|info|warn|error (overrides "+config.EnvLogLevel+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command; exit codes for known failures are set by the commands.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// overridesFrom turns explicitly set global flags into config overrides.
func overridesFrom(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	flags := cmd.Flags()
	if flags.Changed("base-path") {
		o.BasePath = &globalFlags.BasePath
	}
	if flags.Changed("output-mode") {
		o.OutputMode = &globalFlags.OutputMode
	}
	if flags.Changed("log-level") {
		o.LogLevel = &globalFlags.LogLevel
	}
	return o
}

// exitWith prints message to stderr and exits with code.
func exitWith(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

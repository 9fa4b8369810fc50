package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"elevenlabs-mcp/internal/protocol"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	RunE:  runVersion,
}

func versionString() string {
	return protocol.Version
}

func runVersion(cmd *cobra.Command, _ []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), "elevenlabs-mcp", versionString())
	return nil
}

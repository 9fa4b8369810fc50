package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"elevenlabs-mcp/internal/config"
	"elevenlabs-mcp/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create " + config.DefaultConfigPath + " with defaults",
	RunE:  runConfigInit,
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print effective config as YAML (secrets redacted)",
	RunE:  runConfigPrint,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings interactively (API key is stored in " + config.SecretsFile + ")",
	RunE:  runConfigEdit,
}

var configHostCmd = &cobra.Command{
	Use:   "host",
	Short: "Register this server in the desktop host's " + hostConfigFile,
	RunE:  runConfigHost,
}

var (
	initForce      bool
	hostPrint      bool
	hostAPIKey     string
	hostConfigDest string
)

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")

	configHostCmd.Flags().BoolVar(&hostPrint, "print", false, "print the config instead of writing it")
	configHostCmd.Flags().StringVar(&hostAPIKey, "api-key", "", "ElevenLabs API key (default "+config.EnvAPIKey+")")
	configHostCmd.Flags().StringVar(&hostConfigDest, "config-path", "", "host config directory or "+hostConfigFile+" path")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPrintCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configHostCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := globalFlags.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	if _, err := os.Stat(configPath); err == nil && !initForce {
		exitWith(ExitGenericError, "ERROR: "+configPath+" already exists (use --force to overwrite)")
	}
	if err := os.WriteFile(configPath, []byte(config.DefaultYAML), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	st := newStyles(os.Stdout)
	fmt.Fprintln(cmd.OutOrStdout(), st.success("Wrote"), configPath)

	if IsTTY() {
		fmt.Fprintln(os.Stderr, "Optional: enter your ElevenLabs API key now (input is hidden). Press Enter to skip and set "+config.EnvAPIKey+" later.")
		key, err := ReadSecret("ElevenLabs API key: ")
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if key != "" {
			if err := config.SaveSecret(config.EnvAPIKey, key); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Key saved to "+config.SecretsFile+". Keep that file out of version control.")
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Edit the file or set "+config.EnvAPIKey+" in your environment or .env.")
	}
	return nil
}

func runConfigPrint(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{
		ConfigPath:   globalFlags.ConfigPath,
		SkipValidate: true, // print even when the API key is not set
		Overrides:    overridesFrom(cmd),
	})
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	data, err := config.MarshalSnapshot(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	if !IsTTY() {
		exitWith(ExitGenericError, "ERROR: config edit needs an interactive terminal; use 'config init' and edit the file instead.")
	}
	cfg, err := config.Load(config.Options{
		ConfigPath:   globalFlags.ConfigPath,
		SkipValidate: true,
		Overrides:    overridesFrom(cmd),
	})
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	configPath := globalFlags.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	return settings.Run(*cfg, configPath)
}

func runConfigHost(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{
		ConfigPath:   globalFlags.ConfigPath,
		SkipValidate: true,
		Overrides:    overridesFrom(cmd),
	})
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}

	apiKey := hostAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		exitWith(ExitConfigInvalid, "ERROR: ElevenLabs API key is required. Pass --api-key, set "+
			config.EnvAPIKey+" in your environment, or add it to your .env file.")
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	home, _ := os.UserHomeDir()
	entry := hostEntry(executable, apiKey, suggestedBasePath(cfg.BasePath, home), cfg.OutputMode)

	if hostPrint {
		data, err := renderHostConfig(entry)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	dest := hostConfigDest
	if dest == "" {
		dir := defaultHostDir(runtime.GOOS, home, os.Getenv)
		if dir == "" {
			exitWith(ExitGenericError, "ERROR: could not find the host config path automatically. Pass --config-path.")
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			exitWith(ExitGenericError, "ERROR: host config directory "+dir+" not found. Pass --config-path.")
		}
		dest = dir
	}
	path := hostConfigPath(dest)
	if err := writeHostConfig(path, entry); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	st := newStyles(os.Stdout)
	fmt.Fprintln(cmd.OutOrStdout(), st.success("Wrote config to"), path)
	return nil
}

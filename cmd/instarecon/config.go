package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"instarecon/pkg/config"
	"instarecon/pkg/ui"
)

// defaultConfigPath is used by 'config init' when --config is not given
const defaultConfigPath = ".instarecon.yaml"

// exampleConfig documents every option with its default value
const exampleConfig = `# instarecon configuration
#
# Every value can also be set through INSTARECON_* environment variables
# (INSTARECON_OUTPUT_DIR, INSTARECON_BATCH_DELAY, INSTARECON_LOG_LEVEL, ...)
# and command line flags, which take precedence over this file.

instagram:
  # Browser user agent sent with every request
  user_agent: "` + config.DefaultUserAgent + `"
  # Web app id sent as X-IG-App-ID
  app_id: "` + config.DefaultAppID + `"
  timeout: 30s
  # Optional session cookies. Prefer 'instarecon auth login' over storing
  # them here.
  session_id: ""
  csrf_token: ""

output:
  # Reports go to <base_directory>/<username>_recon/
  base_directory: "."
  no_html: false

batch:
  # Pause between targets in batch mode
  delay: 2s

report:
  # Recent posts listed on the console
  max_posts: 12
  # Console caption width in characters
  caption_length: 80

logging:
  # debug, info, warn, error or disabled
  level: warn
  # Empty logs to stderr
  file: ""
`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage instarecon configuration files.

Configuration is layered, highest priority first:
  - Command line flags
  - Environment variables (INSTARECON_*), including .env files
  - Configuration file
  - Default values`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.instarecon.yaml' in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the configuration file and
environment variables. Session values are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	term := ui.NewTerminal(cmd.OutOrStdout(), noColor)

	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if err := writeExampleConfig(path); err != nil {
		term.PrintError("Failed to create configuration file", err)
		return errReported
	}

	term.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Edit the file to adjust output, delay and report options")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'instarecon config validate' to check it")
	fmt.Fprintln(cmd.OutOrStdout(), "3. Run 'instarecon -u <username>'")
	return nil
}

// writeExampleConfig refuses to overwrite an existing file
func writeExampleConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(exampleConfig), 0600)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	term := ui.NewTerminal(cmd.OutOrStdout(), noColor)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		term.PrintError("Failed to load configuration", err)
		return errReported
	}

	out, err := renderConfig(cfg)
	if err != nil {
		return err
	}

	source := configFile
	if source == "" {
		source = config.FindConfigFile()
	}
	if source == "" {
		source = "defaults and environment"
	}
	term.PrintInfo("Source", source)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// renderConfig marshals cfg to YAML with the session masked
func renderConfig(cfg *config.Config) (string, error) {
	shown := *cfg
	if shown.Instagram.SessionID != "" {
		shown.Instagram.SessionID = "********"
	}
	if shown.Instagram.CSRFToken != "" {
		shown.Instagram.CSRFToken = "********"
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	term := ui.NewTerminal(cmd.OutOrStdout(), noColor)

	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		term.PrintWarning("No configuration file found, checking defaults and environment")
	} else {
		term.PrintInfo("Validating", path)
	}

	if _, err := config.Load(path, nil); err != nil {
		term.PrintError("Configuration is invalid", err)
		return errReported
	}

	term.PrintSuccess("Configuration is valid")
	return nil
}

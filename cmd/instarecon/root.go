package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"instarecon/pkg/auth"
	"instarecon/pkg/config"
	"instarecon/pkg/instagram"
	"instarecon/pkg/logger"
	"instarecon/pkg/recon"
	"instarecon/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
	verbose    bool

	// Recon flags
	username    string
	targetsFile string
	outputDir   string
	noHTML      bool
	delay       time.Duration
	maxPosts    int
	timeout     time.Duration
	accountName string
)

// errReported is returned once the failure has already been printed
var errReported = stderrors.New("instarecon: failed")

// rootCmd runs the recon pipeline for one username or a file of usernames
var rootCmd = &cobra.Command{
	Use:   "instarecon",
	Short: "Public Instagram profile reconnaissance",
	Long: `instarecon fetches the public profile of an Instagram account and writes
a console summary, a JSON snapshot of the raw record, the profile picture and a
self-contained HTML report into <output>/<username>_recon/.

Batch mode reads one username per line from a file (blank lines and lines
starting with # are skipped) and waits --delay between targets.

A session cookie is optional. Store one with 'instarecon auth login' or set
INSTARECON_SESSION_ID and INSTARECON_CSRF_TOKEN.`,
	Example: `  # Single target
  instarecon -u natgeo

  # Batch with a longer delay and no HTML
  instarecon -f targets.txt --delay 5s --no-html

  # Write reports somewhere else using a stored session
  instarecon -u natgeo -o ./recon --account work`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if username == "" && targetsFile == "" {
			return cmd.Help()
		}
		return runRecon(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.instarecon.yaml or ~/.config/instarecon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().StringVarP(&username, "username", "u", "", "single target username")
	rootCmd.Flags().StringVarP(&targetsFile, "file", "f", "", "file with one username per line")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base directory for recon output (default: current directory)")
	rootCmd.Flags().BoolVar(&noHTML, "no-html", false, "skip the HTML report")
	rootCmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "pause between batch targets")
	rootCmd.Flags().IntVar(&maxPosts, "posts", 12, "recent posts shown on the console")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored session")
	rootCmd.MarkFlagsMutuallyExclusive("username", "file")

	// Version template
	rootCmd.SetVersionTemplate(`instarecon {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runRecon(cmd *cobra.Command) error {
	term := ui.Stdout(noColor)
	term.PrintLogo()
	term.PrintNotice()

	cfg, err := config.Load(configFile, flagOverrides(cmd.Flags()))
	if err != nil {
		term.PrintError("Failed to load configuration", err)
		return errReported
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		term.PrintError("Failed to initialize logger", err)
		return errReported
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("instarecon starting")

	if err := applySession(cfg, accountName, newCredentialManager, log); err != nil {
		term.PrintError("Failed to load session", err)
		return errReported
	}
	if cfg.Instagram.HasSession() {
		term.PrintInfo("Session", "authenticated")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := instagram.NewClient(&cfg.Instagram, log)
	opts := []recon.Option{recon.WithTerminal(term), recon.WithLogger(log)}
	if noColor {
		opts = append(opts, recon.WithNoColor())
	}
	r := recon.New(cfg, client, opts...)

	if targetsFile != "" {
		targets, err := recon.LoadTargets(targetsFile)
		if err != nil {
			log.WithError(err).Error("Failed to load targets")
			term.PrintError(err.Error())
			return errReported
		}
		if len(targets) == 0 {
			term.PrintWarning("No usernames found in " + targetsFile)
			return nil
		}
		term.PrintInfo("Targets loaded", strconv.Itoa(len(targets)))
		r.RunBatch(ctx, targets)
		return nil
	}

	term.PrintInfo("Target", username)
	if _, err := r.Run(ctx, username); err != nil {
		return errReported
	}
	return nil
}

// flagOverrides collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func flagOverrides(fs *pflag.FlagSet) map[string]interface{} {
	flags := make(map[string]interface{})
	if fs.Changed("output") {
		flags["output"] = outputDir
	}
	if fs.Changed("no-html") {
		flags["no-html"] = noHTML
	}
	if fs.Changed("delay") {
		flags["delay"] = delay
	}
	if fs.Changed("posts") {
		flags["posts"] = maxPosts
	}
	if fs.Changed("timeout") {
		flags["timeout"] = timeout
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if verbose {
		flags["log-level"] = "debug"
	}
	if logFile != "" {
		flags["log-file"] = logFile
	}
	return flags
}

func newCredentialManager() (*auth.Manager, error) {
	return auth.NewManager("")
}

// applySession fills cfg with a stored session. A session already present in
// the configuration wins unless an account is named explicitly. Without a
// named account a missing session is not an error.
func applySession(cfg *config.Config, account string, newManager func() (*auth.Manager, error), log logger.Logger) error {
	if account == "" && cfg.Instagram.HasSession() {
		log.Debug("Using session from configuration")
		return nil
	}

	manager, err := newManager()
	if err != nil {
		if account != "" {
			return err
		}
		log.WithError(err).Debug("Credential stores unavailable, continuing without a session")
		return nil
	}

	acct, err := manager.Resolve(account)
	if err != nil {
		if account != "" {
			return err
		}
		log.Debug("No stored session, continuing without one")
		return nil
	}

	acct.ApplyTo(&cfg.Instagram)
	log.WithField("account", acct.Name).Info("Using stored session")
	return nil
}

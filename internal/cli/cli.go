package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dnaconvert/dnaconvert/pkg/buildinfo"
	"github.com/dnaconvert/dnaconvert/pkg/config"
	"github.com/dnaconvert/dnaconvert/pkg/convert"
	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "dnaconvert"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string

	stdin  io.Reader
	stdout io.Writer
	ui     *printer

	// interactive reports whether a format picker may be shown.
	interactive func() bool
}

// New creates a CLI that logs and reports status to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		Config:      config.Default(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		ui:          &printer{w: w},
		interactive: terminalAttached,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dnaconvert converts DNA sequence files between formats",
		Long: `dnaconvert converts DNA sequence data between FASTA, FastQ, NEXUS, Phylip,
Genbank and tab-separated formats, preparing sequences for phylogenetic
analysis software and GenBank submission.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/dnaconvert/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.formatsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default location when unset.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		return nil
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return err
	}
	c.Config, c.configPath = cfg, path
	c.Logger.Debug("loaded configuration", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a conversion runner for CLI use.
func (c *CLI) newRunner() *convert.Runner {
	return convert.NewRunner(c.Logger)
}

// conversionFlags holds the flags shared by convert and batch.
type conversionFlags struct {
	from                     string
	to                       string
	allowEmptySequences      bool
	disableAutomaticRenaming bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.from, "from", "f", "", "input format (see 'dnaconvert formats')")
	cmd.Flags().StringVarP(&f.to, "to", "t", "", "output format")
	cmd.Flags().BoolVar(&f.allowEmptySequences, "allow-empty-sequences", false, "keep records with an empty sequence")
	cmd.Flags().BoolVar(&f.disableAutomaticRenaming, "disable-automatic-renaming", false, "truncate long names without making them unique")

	complete := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats.Names(), cobra.ShellCompDirectiveNoFileComp
	}
	_ = cmd.RegisterFlagCompletionFunc("from", complete)
	_ = cmd.RegisterFlagCompletionFunc("to", complete)
}

// resolve fills unset formats from the configuration.
func (f *conversionFlags) resolve(cfg *config.Config) {
	if f.from == "" {
		f.from = cfg.DefaultInputFormat
	}
	if f.to == "" {
		f.to = cfg.DefaultOutputFormat
	}
}

// options merges the flags with the configuration. Flags can only switch a
// behavior on.
func (c *CLI) options(f *conversionFlags) convert.Options {
	return convert.Options{
		AllowEmptySequences:      f.allowEmptySequences || c.Config.AllowEmptySequences,
		DisableAutomaticRenaming: f.disableAutomaticRenaming || c.Config.DisableAutomaticRenaming,
		Logger:                   c.Logger,
	}
}

// terminalAttached reports whether both stdin and stderr are terminals.
func terminalAttached() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

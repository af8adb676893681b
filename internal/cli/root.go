// Package cli implements the cobra-based commands exposed by the ctrsnap
// binary. Each subcommand lives in its own file, following the same
// RunE/flags-struct/logic-function split for every command.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/model"
)

// Global flag variables shared across every subcommand, bound as
// persistent flags on the root command.
var (
	outputFormat string
	verbose      bool
	configFile   string
)

// Version, Commit, and Date are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand builds the ctrsnap root command and registers every
// subcommand. The root command itself performs no action.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ctrsnap",
		Short: "Snapshot running containers into reusable configuration",
		Long: `ctrsnap inspects the running container engine and turns live state into
reusable artifacts: docker-compose files, Traefik-derived nginx/apache
configuration, Dockerfiles that reproduce a container's filesystem delta,
and volume archives.`,

		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "output format: yaml, json, toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional JSONC scratch file supplying defaults for --format/--verbose")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			return nil
		}
		scratch, err := LoadScratchConfig(configFile)
		if err != nil {
			return err
		}
		if scratch.Format != "" && !cmd.Flags().Changed("format") {
			outputFormat = scratch.Format
		}
		if scratch.Verbose && !cmd.Flags().Changed("verbose") {
			verbose = true
		}
		return nil
	}

	rootCmd.AddCommand(NewLabelsCommand())
	rootCmd.AddCommand(NewAttrsCommand())
	rootCmd.AddCommand(NewComposeCommand())
	rootCmd.AddCommand(NewTraefikDumpCommand())
	rootCmd.AddCommand(NewTraefik2NginxCommand())
	rootCmd.AddCommand(NewTraefik2ApacheCommand())
	rootCmd.AddCommand(NewTraefikLoadCommand())
	rootCmd.AddCommand(NewListVolumeCommand())
	rootCmd.AddCommand(NewTarVolumeCommand())
	rootCmd.AddCommand(NewMakeDockerfileCommand())
	rootCmd.AddCommand(NewDiffSBOMCommand())
	rootCmd.AddCommand(NewTraefikNginxMonitorCommand())
	rootCmd.AddCommand(NewTraefikApacheMonitorCommand())
	rootCmd.AddCommand(NewServerCommand())

	return rootCmd
}

// Execute runs the root command and translates returned errors into
// process exit codes. model.CLIError carries its own code explicitly;
// a handful of domain error types map to a specific code even when a
// command returns them unwrapped; anything else exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}
		printError(err.Error(), nil)
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps domain error types that aren't already wrapped in a
// model.CLIError to their documented exit code.
func exitCodeFor(err error) model.ExitCode {
	switch err.(type) {
	case *model.InventoryError:
		return model.ExitInventoryError
	case *model.SchemaError:
		return model.ExitSchemaError
	case *model.NotFound:
		return model.ExitNotFound
	case *model.SupervisorTestFailure:
		return model.ExitSupervisorTestFailure
	default:
		return model.ExitGeneralError
	}
}

func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when --verbose is set.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// OutputFormat returns the --format flag's value.
func OutputFormat() string {
	return outputFormat
}

// newLogger returns a logrus logger whose level tracks --verbose, matching
// the source's verbose_option (DEBUG when verbose, WARNING by default,
// distinct from verbose=None's INFO since this CLI always passes an
// explicit bool).
func newLogger() *logrus.Logger {
	l := logrus.New()
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

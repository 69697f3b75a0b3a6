package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nstehr/tackle/config"
	"github.com/nstehr/tackle/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what the subcommands share once the root command has run its
// pre-run hook: the merged viper instance and the validated config.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logSink io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:           "tackle",
		Short:         "Rule-driven battle intelligence for Showdown clients.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initializeConfig(); err != nil {
				return err
			}
			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, sink, err := newLogger(cfg.Logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			a.logSink = sink
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logSink != nil {
				return a.logSink.Close()
			}
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "tackle %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./tackle.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("ruleset", "", "preset ruleset for new sessions: "+strings.Join(rules.PresetNames(), ", "))
	flags.String("ruleset-file", "", "YAML ruleset file, overrides --ruleset")
	_ = a.v.BindPFlag("logger.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("engine.ruleset", flags.Lookup("ruleset"))
	_ = a.v.BindPFlag("engine.ruleset_file", flags.Lookup("ruleset-file"))

	root.AddCommand(newServeCmd(a), newDecideCmd(a), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// initializeConfig reads the config file and TACKLE_* environment variables.
// A missing default config file is not an error.
func (a *app) initializeConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("tackle")
		a.v.SetConfigType("yaml")
	}
	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

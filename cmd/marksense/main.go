package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/marksense/completion"
	"github.com/dhamidi/marksense/config"
	"github.com/dhamidi/marksense/registry"
)

const version = "0.1.0"

var log = commonlog.GetLogger("marksense")

type globalOptions struct {
	configPath string
	verbosity  int
	logFile    string

	cfg *config.Config
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "marksense",
		Short:         "Completion for Android style layout markup",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Logging.Verbosity = opts.verbosity
			}
			if cmd.Flags().Changed("log") {
				cfg.Logging.File = opts.logFile
			}
			cfg.Logging.Configure()
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "log verbosity, repeat for debug")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log", "", "log file (default stderr)")

	rootCmd.AddCommand(newLSPCmd(opts))
	rootCmd.AddCommand(newCompleteCmd(opts))
	rootCmd.AddCommand(newContextCmd(opts))
	rootCmd.AddCommand(newRegistryCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// loadStore loads the configured registry. Files that fail to load are
// logged and skipped.
func (o *globalOptions) loadStore() *registry.Store {
	reg, err := registry.Load(o.cfg.Registry.Source())
	if err != nil {
		log.Errorf("registry: %s", err.Error())
	}
	return registry.NewStore(reg)
}

func (o *globalOptions) newEngine(store *registry.Store) *completion.Engine {
	return completion.NewEngine(store, completion.Options{
		Thresholds:     o.cfg.Ranking.Thresholds(),
		ImplicitOwners: o.cfg.Registry.ImplicitOwners,
	})
}

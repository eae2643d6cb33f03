package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"profharvest/lib/configutil"
	"profharvest/lib/telemetry"
	"profharvest/services/harvest"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "profharvest",
	Short: "profharvest finds a university's faculty on CS Open Rankings and harvests their recent publications.",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and HTTP exchange dumps")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

// setup loads the config and telemetry and builds the pipeline. Both the
// config file and telemetry.json5 are optional.
func setup(ctx context.Context) harvest.Pipeline {
	telemetry.InitSlog(verbose)

	tel, err := telemetry.SetupFromEnv(ctx, "profharvest")
	if err != nil {
		Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		tel.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[harvest.Config]("config.json5")
	if err != nil && !configutil.IsNotExist(err) {
		Fatal("read config", err)
	}

	pipeline := harvest.New(cfg)
	if verbose {
		pipeline.DumpExchanges(".dev/resty/profharvest")
	}
	return pipeline
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campuspark/parkd/config"
	"github.com/campuspark/parkd/simulator"
)

var (
	simInterval time.Duration
	simSeed     int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Publish synthetic sensor readings for the configured lots",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 10*time.Second, "time between readings per lot")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Campus.Lots) == 0 {
		return fmt.Errorf("no lots configured")
	}

	simCfg := simulator.Config{
		Broker:      cfg.MQTT.Broker,
		TopicPrefix: cfg.MQTT.LotTopicPrefix,
		Interval:    simInterval,
		Seed:        simSeed,
	}
	if err := simCfg.Validate(); err != nil {
		return err
	}
	return simulator.NewFleet(simCfg, cfg.Campus.Lots).Run(ctx)
}

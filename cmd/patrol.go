package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campuspark/parkd/config"
	"github.com/campuspark/parkd/core/patrol"
)

var patrolCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Patrol related commands",
}

var patrolRouteCmd = &cobra.Command{
	Use:   "route",
	Short: "Print a patrol route over the configured lots",
	RunE:  runPatrolRoute,
}

func init() {
	patrolCmd.AddCommand(patrolRouteCmd)
	rootCmd.AddCommand(patrolCmd)
}

// runPatrolRoute builds a route from the configured lots alone. With no
// violation history every lot comes out low priority; the command is a
// quick way to eyeball the stop ordering and time estimates.
func runPatrolRoute(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	planner := patrol.NewPlanner()
	planner.MaxStops = cfg.Patrol.MaxStops
	route := planner.BuildRoute(cfg.Campus.Lots, nil, time.Now())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(route)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbochard/freightyard/config"
	"github.com/tbochard/freightyard/infra/logger"
	"github.com/tbochard/freightyard/sim"
)

var stepCount int

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Run a fixed number of simulation steps and print the end state",
	RunE:  runSteps,
}

func init() {
	rootCmd.AddCommand(stepCmd)
	stepCmd.Flags().IntVarP(&stepCount, "count", "n", 100, "number of ticks to run")
}

func runSteps(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	world, err := sim.NewWorld(cfg.World, logger.New("world"))
	if err != nil {
		return err
	}
	defer world.Close()

	dt := cfg.World.TickInterval()
	for i := 0; i < stepCount; i++ {
		world.Step(dt)
	}

	fmt.Printf("after %d steps (%v):\n", stepCount, world.Clock())
	for _, d := range world.Depots() {
		fmt.Printf("  %s: %d %s on hand, %d reserved, %d/%d haulers idle\n",
			d.Name(), d.Storage().ProductStock(), d.Product().Ware.Name,
			d.ProductOrders().Reserved(), d.Workers().IdleWorkers(), d.Workers().TotalWorkers())
		for i := 0; i < d.Product().ResourceCount(); i++ {
			r := d.Product().Resource(i)
			fmt.Printf("    %s: %d in storage, %d inbound\n",
				r.Name, d.Storage().ResourceStock(i), d.ResourceOrders().Inbound(i))
		}
	}
	return nil
}

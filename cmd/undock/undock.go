package undock

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/cmd/slots"
	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/workflow"
)

var UndockCmd = &cobra.Command{
	Use:   "undock <pillar-id> <slot>",
	Short: "Take a battery out of a slot back to the warehouse",
	Long: `Remove the battery of an occupied slot and return it to the warehouse.
Locked slots can be undocked.`,
	Example: `  # Undock the battery in slot 7 of pillar PI-1
  swapctl undock PI-1 7`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pillarID := args[0]

		number, err := station.ParseSlot(args[1])
		if err != nil {
			return err
		}

		console, err := root.NewConsole(ctx)
		if err != nil {
			return err
		}
		if _, err := console.OpenPillar(ctx, pillarID); err != nil {
			return fmt.Errorf("failed to get slots of pillar %s: %w", pillarID, err)
		}
		slot, err := console.SelectSlot(number)
		if err != nil {
			return err
		}

		log := root.GetLogger()
		res, err := workflow.NewDocker(root.GetClient(), console.Session()).Undock(ctx, slot)
		if err != nil {
			log.Debugf("undock failed: %v", err)
			return errors.New(workflow.Describe(err))
		}
		fmt.Printf("✅ %s\n", res.Message)

		grid, err := console.Refresh(ctx)
		if err != nil {
			log.Warnf("Unable to refresh pillar %s: %v", pillarID, err)
			return nil
		}
		if refreshed, ok := grid.Selected(); ok {
			slots.PrintSlot(refreshed)
		}
		return nil
	},
}

func init() {
	root.RootCmd.AddCommand(UndockCmd)
}

package dock

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/cmd/slots"
	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/workflow"
)

var DockCmd = &cobra.Command{
	Use:   "dock <pillar-id> <slot> <battery-id>",
	Short: "Dock a warehouse battery into an empty slot",
	Long: `Insert a warehouse battery into an empty, unlocked slot of a pillar.
The slot is given by number (7) or position (B3). The battery must be listed by
"swapctl warehouse".`,
	Example: `  # Dock BT-42 into slot B3 of pillar PI-1
  swapctl dock PI-1 B3 BT-42`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pillarID, batteryID := args[0], args[2]

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
		warehouse, err := console.Warehouse(ctx)
		if err != nil {
			return fmt.Errorf("failed to get warehouse: %w", err)
		}

		log := root.GetLogger()
		log.Debugf("Docking %s into %s/%s", batteryID, pillarID, slot.Label())

		res, err := workflow.NewDocker(root.GetClient(), console.Session()).Dock(ctx, slot, batteryID, warehouse)
		if err != nil {
			log.Debugf("dock failed: %v", err)
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
	root.RootCmd.AddCommand(DockCmd)
}

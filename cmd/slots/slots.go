package slots

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/station"
)

var slotArg string

var SlotsCmd = &cobra.Command{
	Use:   "slots <pillar-id>",
	Short: "Show the slot grid of a pillar",
	Long: `Show the 20 slots of a pillar as a 5x4 grid (rows A-E, columns 1-4).

Use --slot to show the details of one slot, by number (7) or position (B3).`,
	Example: `  # Show the grid of pillar PI-1
  swapctl slots PI-1

  # Show slot B3 of pillar PI-1
  swapctl slots PI-1 --slot B3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		console, err := root.NewConsole(ctx)
		if err != nil {
			return err
		}

		grid, err := console.OpenPillar(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get slots of pillar %s: %w", args[0], err)
		}

		PrintGrid(grid)

		if slotArg == "" {
			return nil
		}
		number, err := station.ParseSlot(slotArg)
		if err != nil {
			return err
		}
		slot, err := grid.Select(number)
		if err != nil {
			return err
		}
		fmt.Println()
		PrintSlot(slot)
		return nil
	},
}

func init() {
	SlotsCmd.Flags().StringVar(&slotArg, "slot", "", "slot to show in detail (number or position, e.g. 7 or B3)")

	root.RootCmd.AddCommand(SlotsCmd)
}

var (
	fullStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	chargingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func cellStyle(s station.Slot) lipgloss.Style {
	switch {
	case s.IsEmpty:
		return emptyStyle
	case s.StateOfCharge == nil || *s.StateOfCharge < station.LowThreshold:
		return lowStyle
	case *s.StateOfCharge >= station.FullThreshold:
		return fullStyle
	default:
		return chargingStyle
	}
}

func cell(s station.Slot) string {
	text := s.Label() + " "
	if s.IsEmpty {
		text += "empty"
	} else {
		text += fmt.Sprintf("%s %s", s.BatteryCode, percent(s.StateOfCharge))
	}
	if s.IsLocked {
		text += " 🔒"
	}
	if s.InMaintenance() {
		text += " 🔧"
	}
	return text
}

func percent(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *p)
}

// PrintGrid renders the pillar as rows A-E.
func PrintGrid(grid *station.Grid) {
	rows := grid.Rows()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		for _, s := range r {
			cells[i] = append(cells[i], cell(s))
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row < 0 || row >= len(rows) || col >= len(rows[row]) {
				return base
			}
			return base.Inherit(cellStyle(rows[row][col]))
		}).
		Rows(cells...)

	s := grid.Summary()
	fmt.Printf("Pillar %s\n", grid.PillarID())
	fmt.Println(t)
	fmt.Printf("Full: %d  Charging: %d  Low: %d  Empty: %d\n", s.Full, s.Charging, s.Low, s.Empty)
}

func PrintSlot(s station.Slot) {
	fmt.Printf("Slot:     %s (#%d)\n", s.Label(), s.Number)
	fmt.Printf("Slot ID:  %s\n", orDash(s.SlotID))
	if s.IsEmpty {
		fmt.Println("Battery:  -")
	} else {
		fmt.Printf("Battery:  %s\n", s.BatteryCode)
		fmt.Printf("Charge:   %s\n", percent(s.StateOfCharge))
		fmt.Printf("Health:   %s\n", percent(s.StateOfHealth))
		fmt.Printf("Status:   %s\n", orDash(s.BatteryStatus))
	}
	fmt.Printf("Lock:     %s\n", orDash(s.LockStatus))
	fmt.Printf("Dock:     %v\n", s.CanDock())
	fmt.Printf("Undock:   %v\n", s.CanUndock())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

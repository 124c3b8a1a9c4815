package pillars

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/station"
)

var overview bool

var PillarsCmd = &cobra.Command{
	Use:   "pillars",
	Short: "List the pillars of your station",
	Long: `List the pillars visible to your account with their slot summary.

With --overview every pillar's slots are fetched and the summary is computed from them.`,
	Example: `  # List pillars
  swapctl pillars

  # Fetch every pillar's slots and recompute the summary
  swapctl pillars --overview`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		console, err := root.NewConsole(ctx)
		if err != nil {
			return err
		}

		if overview {
			entries, err := console.Overview(ctx, false)
			if err != nil {
				return fmt.Errorf("failed to load overview: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No pillars found.")
				return nil
			}
			printOverview(entries)
			return nil
		}

		pillars, err := console.Pillars(ctx, false)
		if err != nil {
			return fmt.Errorf("failed to get pillars: %w", err)
		}
		if len(pillars) == 0 {
			fmt.Println("No pillars found.")
			return nil
		}
		printPillars(pillars)
		return nil
	},
}

func init() {
	PillarsCmd.Flags().BoolVar(&overview, "overview", false, "fetch every pillar's slots")

	root.RootCmd.AddCommand(PillarsCmd)
}

// summaryCells shows dashes when the backend sent no summary; --overview computes one.
func summaryCells(s station.Summary) []string {
	if s.IsZero() {
		return []string{"-", "-", "-", "-"}
	}
	return []string{
		fmt.Sprintf("%d", s.Full),
		fmt.Sprintf("%d", s.Charging),
		fmt.Sprintf("%d", s.Low),
		fmt.Sprintf("%d", s.Empty),
	}
}

func printPillars(pillars []station.Pillar) {
	var rows [][]string
	for _, p := range pillars {
		row := []string{p.ID, p.DisplayName, fmt.Sprintf("%d", p.TotalSlots)}
		rows = append(rows, append(row, summaryCells(p.Summary)...))
	}
	fmt.Println(newTable("PILLAR ID", "NAME", "SLOTS", "FULL", "CHARGING", "LOW", "EMPTY").Rows(rows...))
}

func printOverview(entries []station.PillarOverview) {
	var rows [][]string
	for _, e := range entries {
		row := []string{e.Pillar.ID, e.Pillar.DisplayName}
		if e.Err != nil {
			rows = append(rows, append(row, "-", "-", "-", "-", "❌ "+e.Err.Error()))
			continue
		}
		rows = append(rows, append(append(row, summaryCells(e.Summary)...), "✅"))
	}
	fmt.Println(newTable("PILLAR ID", "NAME", "FULL", "CHARGING", "LOW", "EMPTY", "FETCH").Rows(rows...))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1)
			}
			baseStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if col >= 2 {
				return baseStyle.AlignHorizontal(lipgloss.Center)
			}
			return baseStyle
		})
}

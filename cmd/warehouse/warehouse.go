package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/workflow"
)

var (
	stationFilter string
	search        string
	page          int
	pageSize      int

	destination string
	batteryIDs  []string
	allFiltered bool
)

var WarehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Browse the warehouse batteries",
	Long: `List the warehouse batteries of your station, best state of health first.

The list can be narrowed to one station and searched by battery id, status or station.`,
	Example: `  # First page of the warehouse
  swapctl warehouse

  # Second page of batteries at station S-2 matching "BT-1"
  swapctl warehouse --station S-2 --search BT-1 --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		catalog.GoTo(page)
		printPage(catalog)
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer batteries to another station",
	Long: `Move warehouse batteries from one station to another.

All batteries must come from the same station. Without --station the source is
taken from the selected batteries.`,
	Example: `  # Move two batteries to station S-9
  swapctl warehouse transfer --to S-9 --battery BT-1 --battery BT-2

  # Move every battery of station S-2 matching "BT-1" to S-9
  swapctl warehouse transfer --to S-9 --station S-2 --search BT-1 --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		catalog, err := loadCatalog(ctx)
		if err != nil {
			return err
		}

		if allFiltered {
			catalog.SelectFiltered()
		}
		for _, id := range batteryIDs {
			if !inCatalog(catalog, id) {
				return fmt.Errorf("battery %s is not in the warehouse", id)
			}
		}
		catalog.Select(batteryIDs...)

		s, err := root.GetSession(ctx)
		if err != nil {
			return err
		}
		selected := catalog.Selected()
		res, err := workflow.NewTransfer(root.GetClient(), s).Execute(ctx, catalog, destination)
		if err != nil {
			root.GetLogger().Debugf("transfer failed: %v", err)
			return errors.New(workflow.Describe(err))
		}

		fmt.Printf("✅ %s\n", orDefault(res.Message, fmt.Sprintf("%d batteries transferred to %s", len(selected), destination)))
		return nil
	},
}

func init() {
	WarehouseCmd.PersistentFlags().StringVar(&stationFilter, "station", "", "only batteries of this station")
	WarehouseCmd.PersistentFlags().StringVar(&search, "search", "", "case-insensitive search on id, status and station")
	WarehouseCmd.Flags().IntVar(&page, "page", 1, "page to show")
	WarehouseCmd.PersistentFlags().IntVar(&pageSize, "page-size", 0, "batteries per page (default from config)")

	transferCmd.Flags().StringVar(&destination, "to", "", "destination station id")
	transferCmd.Flags().StringSliceVar(&batteryIDs, "battery", nil, "battery id to move (repeatable)")
	transferCmd.Flags().BoolVar(&allFiltered, "all", false, "move every battery matching --station and --search")
	transferCmd.MarkFlagRequired("to")

	WarehouseCmd.AddCommand(transferCmd)
	root.RootCmd.AddCommand(WarehouseCmd)
}

func loadCatalog(ctx context.Context) (*station.Catalog, error) {
	console, err := root.NewConsole(ctx)
	if err != nil {
		return nil, err
	}
	batteries, err := console.Warehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}

	size := pageSize
	if size <= 0 {
		size = root.GetConfig().Warehouse.PageSize
	}
	catalog := station.NewCatalog(batteries, size)
	catalog.SetFilter(station.Filter{StationID: stationFilter, SearchText: search})
	return catalog, nil
}

func inCatalog(catalog *station.Catalog, id string) bool {
	for _, b := range catalog.All() {
		if b.BatteryID == id {
			return true
		}
	}
	return false
}

func printPage(catalog *station.Catalog) {
	items := catalog.CurrentPage()
	if len(items) == 0 {
		fmt.Println("No batteries found.")
		return
	}

	var rows [][]string
	for _, b := range items {
		rows = append(rows, []string{
			b.BatteryID,
			percent(b.StateOfHealth),
			percent(b.StateOfCharge),
			capacity(b.Capacity),
			b.Status,
			orDefault(b.StationName, b.StationID),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("BATTERY ID", "SOH", "SOC", "CAPACITY", "STATUS", "STATION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1)
			}
			baseStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if col >= 1 && col <= 3 {
				return baseStyle.AlignHorizontal(lipgloss.Right)
			}
			return baseStyle
		}).
		Rows(rows...)

	fmt.Println(t)
	fmt.Printf("Page %d of %d (%d batteries)\n", catalog.Page(), catalog.TotalPages(), len(catalog.Filtered()))
}

func percent(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *p)
}

func capacity(kwh float64) string {
	if kwh <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f kWh", kwh)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package assist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/swapctl/cmd/root"
	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/workflow"
)

var (
	errorType  string
	inBattery  string
	outBattery string
	minSoC     int
)

var AssistCmd = &cobra.Command{
	Use:   "assist <subscription-id>",
	Short: "Resolve a failed swap for a subscription",
	Long: `Manual assist corrects a swap the machine could not complete.

The subscription is checked first. If it holds batteries the case defaults to pinIn
(the customer returned a faulty battery) with the first held battery; otherwise pinOut
(the machine did not dispense one). Without --out the charged warehouse batteries
are listed so one can be picked.`,
	Example: `  # Check SUB-1 and list batteries that can be handed out
  swapctl assist SUB-1

  # Customer returned BT-6, hand out BT-9
  swapctl assist SUB-1 --type pinIn --in BT-6 --out BT-9

  # Machine did not dispense, hand out BT-9
  swapctl assist SUB-2 --type pinOut --out BT-9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := root.GetLogger()

		s, err := root.GetSession(ctx)
		if err != nil {
			return err
		}
		ma := workflow.NewManualAssist(root.GetClient(), s)

		if err := ma.Check(ctx, args[0]); err != nil {
			log.Debugf("check failed: %v", err)
			return errors.New(workflow.Describe(err))
		}
		printCase(ma)

		if errorType != "" {
			t, err := workflow.ParseErrorType(errorType)
			if err != nil {
				return err
			}
			if err := ma.SetErrorType(t); err != nil {
				return errors.New(workflow.Describe(err))
			}
		}
		if inBattery != "" {
			if err := ma.SetInBattery(inBattery); err != nil {
				return err
			}
		}
		if outBattery != "" {
			if err := ma.SetOutBattery(outBattery); err != nil {
				return err
			}
		}

		if ma.OutBatteryID() == "" {
			threshold := minSoC
			if threshold <= 0 {
				threshold = root.GetConfig().Warehouse.MinPickerSoC
			}
			candidates, err := ma.OutCandidates(ctx, threshold)
			if err != nil {
				return errors.New(workflow.Describe(err))
			}
			printCandidates(candidates, threshold)
			fmt.Println("Rerun with --out <battery-id> to submit.")
			return nil
		}

		if !ma.CanConfirm() {
			return fmt.Errorf("cannot submit, missing %s", strings.Join(ma.Missing(), ", "))
		}

		raw, err := ma.Confirm(ctx)
		if err != nil {
			log.Debugf("submit failed: %v", err)
			return errors.New(workflow.Describe(err))
		}
		fmt.Printf("✅ Manual assist submitted (%s)\n", ma.ErrorType())
		printResponse(raw)
		return nil
	},
}

func init() {
	AssistCmd.Flags().StringVar(&errorType, "type", "", "error type: pinIn or pinOut (default from the subscription check)")
	AssistCmd.Flags().StringVar(&inBattery, "in", "", "battery returned by the customer (pinIn only)")
	AssistCmd.Flags().StringVar(&outBattery, "out", "", "battery handed out to the customer")
	AssistCmd.Flags().IntVar(&minSoC, "min-soc", 0, "minimum charge of listed batteries (default from config)")

	root.RootCmd.AddCommand(AssistCmd)
}

func printCase(ma *workflow.ManualAssist) {
	held := "-"
	if ids := ma.HeldBatteries(); len(ids) > 0 {
		held = strings.Join(ids, ", ")
	}
	fmt.Printf("Case:         %s\n", ma.CaseID())
	fmt.Printf("Subscription: %s\n", ma.SubscriptionID())
	fmt.Printf("Station:      %s\n", orDash(ma.StationID()))
	fmt.Printf("Held:         %s\n", held)
	fmt.Printf("Error type:   %s\n", ma.ErrorType())
	if ma.ErrorType() == workflow.PinIn {
		fmt.Printf("Returned:     %s\n", orDash(ma.InBatteryID()))
	}
	fmt.Println()
}

func printCandidates(candidates []station.WarehouseBattery, threshold int) {
	if len(candidates) == 0 {
		fmt.Printf("No warehouse battery charged to at least %d%%.\n", threshold)
		return
	}

	var rows [][]string
	for _, b := range candidates {
		rows = append(rows, []string{b.BatteryID, fmt.Sprintf("%d%%", *b.StateOfCharge), b.StationID})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("BATTERY ID", "SOC", "STATION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
		}).
		Rows(rows...)
	fmt.Println(t)
}

func printResponse(raw json.RawMessage) {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(out.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package workflow

import (
	"context"
	"fmt"

	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/swap"
)

// Transfer moves the catalog selection from one station's warehouse to another's.
type Transfer struct {
	ledger  Ledger
	session station.Session
}

func NewTransfer(ledger Ledger, session station.Session) *Transfer {
	return &Transfer{ledger: ledger, session: session}
}

// Execute validates the selection of catalog against destination, sends it, and clears
// the selection on success.
func (t *Transfer) Execute(ctx context.Context, catalog *station.Catalog, destination string) (Result, error) {
	plan, err := catalog.PlanTransfer(destination)
	if err != nil {
		return Result{}, &ValidationError{Msg: err.Error(), Err: err}
	}
	if t.session.StaffID == "" {
		return Result{}, invalid("staff id is not set for this session")
	}

	log.Debugf("transferring %d batteries %s -> %s", len(plan.BatteryIDs), plan.FromStationID, plan.ToStationID)
	res, err := t.ledger.TransferBatteries(ctx, swap.TransferRequest{
		StaffID:       t.session.StaffID,
		FromStationID: plan.FromStationID,
		ToStationID:   plan.ToStationID,
		BatteryIDs:    plan.BatteryIDs,
	})
	if err != nil {
		return Result{}, fmt.Errorf("transfer to %s: %w", plan.ToStationID, err)
	}
	catalog.ClearSelection()
	log.Infof("transferred %d batteries %s -> %s", len(plan.BatteryIDs), plan.FromStationID, plan.ToStationID)
	return Result{Message: res.Message}, nil
}

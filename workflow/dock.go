package workflow

import (
	"context"
	"fmt"

	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/swap"
)

// Docker moves single batteries between the warehouse and pillar slots.
// It never refreshes the grid; callers re-open the pillar afterwards.
type Docker struct {
	ledger  Ledger
	session station.Session
}

func NewDocker(ledger Ledger, session station.Session) *Docker {
	return &Docker{ledger: ledger, session: session}
}

// Dock inserts batteryID into slot. The battery must be one of the warehouse batteries
// in warehouse. Preconditions are checked before anything is sent.
func (d *Docker) Dock(ctx context.Context, slot station.Slot, batteryID string, warehouse []station.WarehouseBattery) (Result, error) {
	_, inWarehouse := station.FindDockable(warehouse, batteryID)
	switch {
	case !slot.IsEmpty:
		return Result{}, invalid("slot %s already holds battery %s", slot.Label(), slot.BatteryCode)
	case slot.IsLocked:
		return Result{}, invalid("slot %s is locked", slot.Label())
	case batteryID == "":
		return Result{}, invalid("choose a battery from the warehouse first")
	case !inWarehouse:
		return Result{}, invalid("battery %s is not in the warehouse", batteryID)
	case slot.SlotID == "":
		return Result{}, invalid("slot %s has no slot id, reopen the pillar and try again", slot.Label())
	case d.session.StaffID == "":
		return Result{}, invalid("staff id is not set for this session")
	}

	log.Debugf("docking %s into %s/%s", batteryID, slot.PillarID, slot.Label())
	res, err := d.ledger.DockBattery(ctx, swap.DockRequest{
		StaffID:            d.session.StaffID,
		PillarSlotID:       slot.SlotID,
		BatteryWarehouseID: batteryID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("dock %s into %s: %w", batteryID, slot.Label(), err)
	}
	log.Infof("docked %s into %s/%s", batteryID, slot.PillarID, slot.Label())
	return Result{Message: res.Message}, nil
}

// Undock takes the battery out of slot back to the warehouse. Locked slots may be emptied.
func (d *Docker) Undock(ctx context.Context, slot station.Slot) (Result, error) {
	switch {
	case !slot.CanUndock():
		return Result{}, invalid("slot %s is empty", slot.Label())
	case slot.SlotID == "":
		return Result{}, invalid("slot %s has no slot id, reopen the pillar and try again", slot.Label())
	case d.session.StaffID == "":
		return Result{}, invalid("staff id is not set for this session")
	}

	log.Debugf("undocking %s from %s/%s", slot.BatteryCode, slot.PillarID, slot.Label())
	res, err := d.ledger.UndockBattery(ctx, swap.UndockRequest{
		StaffID:      d.session.StaffID,
		PillarSlotID: slot.SlotID,
		BatteryID:    slot.BatteryCode,
	})
	if err != nil {
		return Result{}, fmt.Errorf("undock %s from %s: %w", slot.BatteryCode, slot.Label(), err)
	}
	log.Infof("undocked %s from %s/%s", slot.BatteryCode, slot.PillarID, slot.Label())
	return Result{Message: res.Message}, nil
}

package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/swap"
)

func slotAt(number int) station.Slot {
	return station.Slot{
		PillarID: "PI-1",
		Number:   number,
		Position: station.PositionOf(number),
		SlotID:   "SL-1",
		IsEmpty:  true,
	}
}

var dockable = []station.WarehouseBattery{
	{BatteryID: "BT-9", Status: station.StatusWarehouse, StationID: "S-1"},
	{BatteryID: "BT-7", Status: "maintenance", StationID: "S-1"},
}

func TestDock_Preconditions(t *testing.T) {
	occupied := slotAt(1)
	occupied.IsEmpty = false
	occupied.BatteryCode = "BT-1"

	locked := slotAt(2)
	locked.IsLocked = true

	noID := slotAt(3)
	noID.SlotID = ""

	tests := []struct {
		name      string
		slot      station.Slot
		batteryID string
		session   station.Session
		wantMsg   string
	}{
		{"occupied", occupied, "BT-9", testSession, "slot A1 already holds battery BT-1"},
		{"locked", locked, "BT-9", testSession, "slot A2 is locked"},
		{"no battery", slotAt(4), "", testSession, "choose a battery from the warehouse first"},
		{"not in warehouse", slotAt(6), "NOT-IN-WAREHOUSE", testSession, "battery NOT-IN-WAREHOUSE is not in the warehouse"},
		{"not warehouse status", slotAt(6), "BT-7", testSession, "battery BT-7 is not in the warehouse"},
		{"no slot id", noID, "BT-9", testSession, "slot A3 has no slot id, reopen the pillar and try again"},
		{"no staff", slotAt(5), "BT-9", station.Session{}, "staff id is not set for this session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			_, err := NewDocker(ledger, tt.session).Dock(context.Background(), tt.slot, tt.batteryID, dockable)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.wantMsg, Describe(err))
			assert.Zero(t, ledger.calls)
		})
	}
}

func TestDock_Success(t *testing.T) {
	ledger := &fakeLedger{
		DockFunc: func(ctx context.Context, req swap.DockRequest) (*swap.MovementResult, error) {
			assert.Equal(t, swap.DockRequest{StaffID: "ST-1", PillarSlotID: "SL-1", BatteryWarehouseID: "BT-9"}, req)
			return &swap.MovementResult{Message: "Battery docked successfully"}, nil
		},
	}

	res, err := NewDocker(ledger, testSession).Dock(context.Background(), slotAt(7), "BT-9", dockable)
	require.NoError(t, err)
	assert.Equal(t, "Battery docked successfully", res.Message)
	assert.Equal(t, 1, ledger.calls)
}

func TestDock_BackendMessageIsSurfaced(t *testing.T) {
	ledger := &fakeLedger{
		DockFunc: func(ctx context.Context, req swap.DockRequest) (*swap.MovementResult, error) {
			return nil, &swap.APIError{StatusCode: 409, Status: "409 Conflict", Message: "slot is reserved"}
		},
	}

	_, err := NewDocker(ledger, testSession).Dock(context.Background(), slotAt(7), "BT-9", dockable)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "slot is reserved", Describe(err))
}

func TestDock_GenericFailure(t *testing.T) {
	ledger := &fakeLedger{
		DockFunc: func(ctx context.Context, req swap.DockRequest) (*swap.MovementResult, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}

	_, err := NewDocker(ledger, testSession).Dock(context.Background(), slotAt(7), "BT-9", dockable)
	require.Error(t, err)
	assert.Equal(t, GenericFailureMessage, Describe(err))
}

func TestUndock_LockedSlotIsAllowed(t *testing.T) {
	slot := slotAt(8)
	slot.IsEmpty = false
	slot.IsLocked = true
	slot.BatteryCode = "BT-3"

	ledger := &fakeLedger{
		UndockFunc: func(ctx context.Context, req swap.UndockRequest) (*swap.MovementResult, error) {
			assert.Equal(t, swap.UndockRequest{StaffID: "ST-1", PillarSlotID: "SL-1", BatteryID: "BT-3"}, req)
			return &swap.MovementResult{Message: "Battery undocked"}, nil
		},
	}

	res, err := NewDocker(ledger, testSession).Undock(context.Background(), slot)
	require.NoError(t, err)
	assert.Equal(t, "Battery undocked", res.Message)
}

func TestUndock_EmptySlot(t *testing.T) {
	ledger := &fakeLedger{}
	_, err := NewDocker(ledger, testSession).Undock(context.Background(), slotAt(9))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "slot C1 is empty", Describe(err))
	assert.Zero(t, ledger.calls)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, GenericFailureMessage, Describe(&swap.APIError{StatusCode: 500, Status: "500 Internal Server Error"}))
	assert.Contains(t, Describe(swap.ErrInvalidRequest), "invalid request")
}

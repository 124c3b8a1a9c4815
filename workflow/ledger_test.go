package workflow

import (
	"context"
	"encoding/json"

	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/swap"
)

type fakeLedger struct {
	DockFunc      func(ctx context.Context, req swap.DockRequest) (*swap.MovementResult, error)
	UndockFunc    func(ctx context.Context, req swap.UndockRequest) (*swap.MovementResult, error)
	TransferFunc  func(ctx context.Context, req swap.TransferRequest) (*swap.MovementResult, error)
	CheckFunc     func(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error)
	SubmitFunc    func(ctx context.Context, req swap.ManualAssistRequest) (json.RawMessage, error)
	WarehouseFunc func(ctx context.Context, staffID string) (any, error)

	calls int
}

func (f *fakeLedger) DockBattery(ctx context.Context, req swap.DockRequest) (*swap.MovementResult, error) {
	f.calls++
	return f.DockFunc(ctx, req)
}

func (f *fakeLedger) UndockBattery(ctx context.Context, req swap.UndockRequest) (*swap.MovementResult, error) {
	f.calls++
	return f.UndockFunc(ctx, req)
}

func (f *fakeLedger) TransferBatteries(ctx context.Context, req swap.TransferRequest) (*swap.MovementResult, error) {
	f.calls++
	return f.TransferFunc(ctx, req)
}

func (f *fakeLedger) CheckSubscriptionBatteries(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error) {
	f.calls++
	return f.CheckFunc(ctx, req)
}

func (f *fakeLedger) SubmitManualAssist(ctx context.Context, req swap.ManualAssistRequest) (json.RawMessage, error) {
	f.calls++
	return f.SubmitFunc(ctx, req)
}

func (f *fakeLedger) GetWarehouseInventory(ctx context.Context, staffID string) (any, error) {
	f.calls++
	return f.WarehouseFunc(ctx, staffID)
}

var testSession = station.Session{UserID: "U-1", StaffID: "ST-1", StationID: "S-1"}

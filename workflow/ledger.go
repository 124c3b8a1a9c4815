package workflow

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/swapctl/swap"
)

var log = logrus.StandardLogger()

// Ledger is the mutating side of the battery-ledger backend.
type Ledger interface {
	DockBattery(ctx context.Context, req swap.DockRequest) (*swap.MovementResult, error)
	UndockBattery(ctx context.Context, req swap.UndockRequest) (*swap.MovementResult, error)
	TransferBatteries(ctx context.Context, req swap.TransferRequest) (*swap.MovementResult, error)
	CheckSubscriptionBatteries(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error)
	SubmitManualAssist(ctx context.Context, req swap.ManualAssistRequest) (json.RawMessage, error)
	GetWarehouseInventory(ctx context.Context, staffID string) (any, error)
}

var _ Ledger = (*swap.Client)(nil)

// Result is what a completed movement tells the operator. Message is the backend's, verbatim.
type Result struct {
	Message string
}

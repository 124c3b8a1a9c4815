package workflow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/swapctl/swap"
)

func checkReturning(payload any) func(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error) {
	return func(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error) {
		return payload, nil
	}
}

func TestManualAssist_HeldBatteriesDefaultToPinIn(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: func(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error) {
			assert.Equal(t, swap.SubscriptionCheckRequest{StaffID: "ST-1", SubscriptionID: "SUB-1"}, req)
			return map[string]any{
				"stationId":  "S-1",
				"batteryIds": []any{"BT-5", "BT-6"},
			}, nil
		},
	}
	m := NewManualAssist(ledger, testSession)

	require.NoError(t, m.Check(context.Background(), "SUB-1"))
	assert.Equal(t, Validated, m.State())
	assert.NotEmpty(t, m.CaseID())
	assert.Equal(t, "S-1", m.StationID())
	assert.Equal(t, []string{"BT-5", "BT-6"}, m.HeldBatteries())
	assert.Equal(t, PinIn, m.ErrorType())
	assert.Equal(t, "BT-5", m.InBatteryID())
	assert.True(t, m.CanPinIn())

	assert.False(t, m.CanConfirm())
	assert.Equal(t, []string{"dispensed battery"}, m.Missing())

	require.NoError(t, m.SetOutBattery("BT-9"))
	assert.True(t, m.CanConfirm())
}

func TestManualAssist_NoBatteriesDefaultToPinOut(t *testing.T) {
	ledger := &fakeLedger{CheckFunc: checkReturning(map[string]any{
		"data": map[string]any{"stationId": "S-2", "batteryIds": []any{}},
	})}
	m := NewManualAssist(ledger, testSession)

	require.NoError(t, m.Check(context.Background(), "SUB-2"))
	assert.Equal(t, PinOut, m.ErrorType())
	assert.Empty(t, m.InBatteryID())
	assert.False(t, m.CanPinIn())

	err := m.SetErrorType(PinIn)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, PinOut, m.ErrorType())
}

func TestManualAssist_ConfirmPinIn(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: checkReturning(map[string]any{"stationId": "S-1", "batteryIds": []any{"BT-5", "BT-6"}}),
		SubmitFunc: func(ctx context.Context, req swap.ManualAssistRequest) (json.RawMessage, error) {
			require.NotNil(t, req.BatteryInID)
			assert.Equal(t, "BT-6", *req.BatteryInID)
			assert.Equal(t, "BT-9", req.BatteryOutID)
			assert.Equal(t, "SUB-1", req.SubID)
			assert.Equal(t, "ST-1", req.StaffID)
			return json.RawMessage(`{"status":"ok","swapId":"SW-1"}`), nil
		},
	}
	m := NewManualAssist(ledger, testSession)
	require.NoError(t, m.Check(context.Background(), "SUB-1"))
	require.NoError(t, m.SetInBattery("BT-6"))
	require.NoError(t, m.SetOutBattery("BT-9"))

	raw, err := m.Confirm(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","swapId":"SW-1"}`, string(raw))
	assert.Equal(t, raw, m.LastResponse())
	assert.Equal(t, Validated, m.State())
}

func TestManualAssist_ConfirmPinOutSendsNullIn(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: checkReturning(map[string]any{"stationId": "S-1", "batteryIds": []any{"BT-5"}}),
		SubmitFunc: func(ctx context.Context, req swap.ManualAssistRequest) (json.RawMessage, error) {
			assert.Nil(t, req.BatteryInID)
			return json.RawMessage(`"done"`), nil
		},
	}
	m := NewManualAssist(ledger, testSession)
	require.NoError(t, m.Check(context.Background(), "SUB-1"))
	require.NoError(t, m.SetErrorType(PinOut))
	require.NoError(t, m.SetOutBattery("BT-9"))

	_, err := m.Confirm(context.Background())
	require.NoError(t, err)
}

func TestManualAssist_ConfirmGating(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: checkReturning(map[string]any{"stationId": "S-1", "batteryIds": []any{"BT-5"}}),
	}
	m := NewManualAssist(ledger, testSession)

	_, err := m.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNotValidated)
	assert.ErrorIs(t, m.SetOutBattery("BT-9"), ErrNotValidated)

	require.NoError(t, m.Check(context.Background(), "SUB-1"))
	require.NoError(t, m.SetInBattery(""))
	require.NoError(t, m.SetOutBattery("BT-9"))
	assert.False(t, m.CanConfirm())

	_, err = m.Confirm(context.Background())
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "missing returned battery", Describe(err))
	assert.Equal(t, 1, ledger.calls)
}

func TestManualAssist_CheckFailureStaysUnchecked(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: func(ctx context.Context, req swap.SubscriptionCheckRequest) (any, error) {
			return nil, &swap.APIError{StatusCode: 404, Status: "404 Not Found", Message: "subscription not found"}
		},
	}
	m := NewManualAssist(ledger, testSession)

	err := m.Check(context.Background(), "  SUB-404 ")
	require.Error(t, err)
	assert.Equal(t, "subscription not found", Describe(err))
	assert.Equal(t, Unchecked, m.State())
	assert.Equal(t, "SUB-404", m.SubscriptionID())
}

func TestManualAssist_SubmitFailureKeepsInput(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: checkReturning(map[string]any{"stationId": "S-1", "batteryIds": []any{"BT-5"}}),
		SubmitFunc: func(ctx context.Context, req swap.ManualAssistRequest) (json.RawMessage, error) {
			return nil, &swap.APIError{StatusCode: 400, Status: "400 Bad Request", Message: "battery BT-9 is not in the warehouse"}
		},
	}
	m := NewManualAssist(ledger, testSession)
	require.NoError(t, m.Check(context.Background(), "SUB-1"))
	require.NoError(t, m.SetOutBattery("BT-9"))

	_, err := m.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, "battery BT-9 is not in the warehouse", Describe(err))
	assert.Equal(t, "BT-5", m.InBatteryID())
	assert.Equal(t, "BT-9", m.OutBatteryID())
	assert.Nil(t, m.LastResponse())
}

func TestManualAssist_RecheckNeedsReset(t *testing.T) {
	ledger := &fakeLedger{
		CheckFunc: checkReturning(map[string]any{"stationId": "S-1", "batteryIds": []any{"BT-5"}}),
	}
	m := NewManualAssist(ledger, testSession)
	require.NoError(t, m.Check(context.Background(), "SUB-1"))
	caseID := m.CaseID()

	assert.ErrorIs(t, m.Check(context.Background(), "SUB-2"), ErrAlreadyValidated)

	m.Reset()
	assert.Equal(t, Unchecked, m.State())
	assert.Empty(t, m.HeldBatteries())
	require.NoError(t, m.Check(context.Background(), "SUB-2"))
	assert.NotEqual(t, caseID, m.CaseID())
}

func TestManualAssist_OutCandidates(t *testing.T) {
	ledger := &fakeLedger{
		WarehouseFunc: func(ctx context.Context, staffID string) (any, error) {
			assert.Equal(t, "ST-1", staffID)
			return []any{
				map[string]any{"batteryId": "BT-1", "stateOfCharge": 60},
				map[string]any{"batteryId": "BT-2", "stateOfCharge": 95},
				map[string]any{"batteryId": "BT-3", "stateOfCharge": 85},
				map[string]any{"batteryId": "BT-4", "stateOfCharge": 100, "status": "charging"},
			}, nil
		},
	}
	m := NewManualAssist(ledger, testSession)

	got, err := m.OutCandidates(context.Background(), 80)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BT-2", got[0].BatteryID)
	assert.Equal(t, "BT-3", got[1].BatteryID)
}

func TestParseErrorType(t *testing.T) {
	got, err := ParseErrorType("pinIn")
	require.NoError(t, err)
	assert.Equal(t, PinIn, got)

	got, err = ParseErrorType("OUT")
	require.NoError(t, err)
	assert.Equal(t, PinOut, got)

	_, err = ParseErrorType("sideways")
	assert.ErrorIs(t, err, ErrValidation)
}

package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/swap"
)

// ErrorType classifies a failed automated swap.
type ErrorType string

const (
	// PinIn: the customer returned a faulty battery.
	PinIn ErrorType = "pinIn"
	// PinOut: the machine failed to dispense one.
	PinOut ErrorType = "pinOut"
)

func ParseErrorType(s string) (ErrorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pinin", "pin-in", "in":
		return PinIn, nil
	case "pinout", "pin-out", "out":
		return PinOut, nil
	}
	return "", invalid("unknown error type %q, expected pinIn or pinOut", s)
}

type AssistState int

const (
	Unchecked AssistState = iota
	Validated
)

func (s AssistState) String() string {
	if s == Validated {
		return "validated"
	}
	return "unchecked"
}

var (
	ErrNotValidated     = errors.New("check the subscription first")
	ErrAlreadyValidated = errors.New("subscription already checked, reset to start a new case")
)

// ManualAssist walks one operator through correcting a failed swap for one subscription.
// It only moves forward: Unchecked -> Validated. Reset starts over.
type ManualAssist struct {
	ledger  Ledger
	session station.Session

	caseID         string
	state          AssistState
	subscriptionID string
	stationID      string
	held           []string
	errorType      ErrorType
	inBatteryID    string
	outBatteryID   string
	lastResponse   json.RawMessage
}

func NewManualAssist(ledger Ledger, session station.Session) *ManualAssist {
	return &ManualAssist{ledger: ledger, session: session}
}

func (m *ManualAssist) CaseID() string                { return m.caseID }
func (m *ManualAssist) State() AssistState            { return m.state }
func (m *ManualAssist) SubscriptionID() string        { return m.subscriptionID }
func (m *ManualAssist) StationID() string             { return m.stationID }
func (m *ManualAssist) ErrorType() ErrorType          { return m.errorType }
func (m *ManualAssist) InBatteryID() string           { return m.inBatteryID }
func (m *ManualAssist) OutBatteryID() string          { return m.outBatteryID }
func (m *ManualAssist) LastResponse() json.RawMessage { return m.lastResponse }

// HeldBatteries returns the batteries the subscription holds according to the check.
func (m *ManualAssist) HeldBatteries() []string {
	out := make([]string, len(m.held))
	copy(out, m.held)
	return out
}

// CanPinIn reports whether pinIn is selectable: only when the subscription holds batteries.
func (m *ManualAssist) CanPinIn() bool {
	return m.state == Validated && len(m.held) > 0
}

// Check looks the subscription up. On success the case is Validated with defaults filled in;
// on failure it stays Unchecked and keeps the entered id.
func (m *ManualAssist) Check(ctx context.Context, subscriptionID string) error {
	if m.state != Unchecked {
		return ErrAlreadyValidated
	}
	m.subscriptionID = strings.TrimSpace(subscriptionID)
	if m.subscriptionID == "" {
		return invalid("enter a subscription id")
	}
	if m.session.StaffID == "" {
		return invalid("staff id is not set for this session")
	}

	m.caseID = uuid.NewString()
	log.Debugf("case %s: checking subscription %s", m.caseID, m.subscriptionID)
	payload, err := m.ledger.CheckSubscriptionBatteries(ctx, swap.SubscriptionCheckRequest{
		StaffID:        m.session.StaffID,
		SubscriptionID: m.subscriptionID,
	})
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", m.subscriptionID, err)
	}

	found := station.NormalizeSubscriptionBatteries(payload)
	m.stationID = found.StationID
	m.held = found.BatteryIDs
	m.state = Validated
	if len(m.held) > 0 {
		m.errorType = PinIn
		m.inBatteryID = m.held[0]
	} else {
		m.errorType = PinOut
		m.inBatteryID = ""
	}
	log.Debugf("case %s: station=%s held=%v default=%s", m.caseID, m.stationID, m.held, m.errorType)
	return nil
}

func (m *ManualAssist) SetErrorType(t ErrorType) error {
	if m.state != Validated {
		return ErrNotValidated
	}
	switch t {
	case PinIn:
		if !m.CanPinIn() {
			return invalid("subscription %s holds no battery, pinIn is not possible", m.subscriptionID)
		}
	case PinOut:
	default:
		return invalid("unknown error type %q", t)
	}
	m.errorType = t
	return nil
}

func (m *ManualAssist) SetInBattery(batteryID string) error {
	if m.state != Validated {
		return ErrNotValidated
	}
	m.inBatteryID = strings.TrimSpace(batteryID)
	return nil
}

func (m *ManualAssist) SetOutBattery(batteryID string) error {
	if m.state != Validated {
		return ErrNotValidated
	}
	m.outBatteryID = strings.TrimSpace(batteryID)
	return nil
}

// OutCandidates lists warehouse batteries eligible to hand out: at least minSoC charged,
// highest charge first.
func (m *ManualAssist) OutCandidates(ctx context.Context, minSoC int) ([]station.WarehouseBattery, error) {
	if m.session.StaffID == "" {
		return nil, invalid("staff id is not set for this session")
	}
	payload, err := m.ledger.GetWarehouseInventory(ctx, m.session.StaffID)
	if err != nil {
		return nil, fmt.Errorf("load warehouse: %w", err)
	}
	return station.PickerCandidates(station.NormalizeWarehouse(payload), minSoC), nil
}

// Missing names the fields still required before Confirm is possible.
func (m *ManualAssist) Missing() []string {
	var missing []string
	if m.state != Validated {
		missing = append(missing, "checked subscription")
	}
	if m.subscriptionID == "" {
		missing = append(missing, "subscription id")
	}
	if m.errorType == PinIn && m.inBatteryID == "" {
		missing = append(missing, "returned battery")
	}
	if m.outBatteryID == "" {
		missing = append(missing, "dispensed battery")
	}
	return missing
}

func (m *ManualAssist) CanConfirm() bool {
	return len(m.Missing()) == 0
}

// Confirm submits the correction and returns the backend response as-is.
// The case stays as it is afterwards; call Reset for the next one.
func (m *ManualAssist) Confirm(ctx context.Context) (json.RawMessage, error) {
	if m.state != Validated {
		return nil, ErrNotValidated
	}
	if missing := m.Missing(); len(missing) > 0 {
		return nil, invalid("missing %s", strings.Join(missing, ", "))
	}
	if m.session.StaffID == "" {
		return nil, invalid("staff id is not set for this session")
	}

	req := swap.ManualAssistRequest{
		StaffID:      m.session.StaffID,
		SubID:        m.subscriptionID,
		BatteryOutID: m.outBatteryID,
	}
	if m.errorType == PinIn {
		in := m.inBatteryID
		req.BatteryInID = &in
	}

	log.Debugf("case %s: submitting %s out=%s in=%s", m.caseID, m.errorType, m.outBatteryID, m.inBatteryID)
	raw, err := m.ledger.SubmitManualAssist(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit manual assist for %s: %w", m.subscriptionID, err)
	}
	m.lastResponse = raw
	log.Infof("case %s: manual assist submitted for subscription %s", m.caseID, m.subscriptionID)
	return raw, nil
}

// Reset discards the case.
func (m *ManualAssist) Reset() {
	*m = ManualAssist{ledger: m.ledger, session: m.session}
}

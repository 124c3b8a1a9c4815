package swap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type SubscriptionCheckRequest struct {
	StaffID        string `json:"staffId" validate:"required"`
	SubscriptionID string `json:"subscriptionId" validate:"required"`
}

type ManualAssistRequest struct {
	StaffID      string  `json:"staffId" validate:"required"`
	SubID        string  `json:"subId" validate:"required"`
	BatteryOutID string  `json:"batteryOutId" validate:"required"`
	BatteryInID  *string `json:"batteryInId"`
}

// CheckSubscriptionBatteries looks up the station and held batteries of a subscription.
func (c *Client) CheckSubscriptionBatteries(ctx context.Context, req SubscriptionCheckRequest) (any, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/manual-assist/check", nil, req)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(c.httpClient, httpReq)
	if err != nil {
		return nil, err
	}
	return decodePayload(raw)
}

// SubmitManualAssist sends the corrective movement and returns the backend answer untouched.
func (c *Client) SubmitManualAssist(ctx context.Context, req ManualAssistRequest) (json.RawMessage, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/manual-assist", nil, req)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(c.httpClient, httpReq)
	if err != nil {
		return nil, err
	}
	log.Debugf("manual assist response: %s", raw)
	return json.RawMessage(raw), nil
}

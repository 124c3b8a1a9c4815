package swap

import (
	"context"
	"fmt"
	"net/http"
)

type DockRequest struct {
	StaffID            string `json:"staffId" validate:"required"`
	PillarSlotID       string `json:"pillarSlotId" validate:"required"`
	BatteryWarehouseID string `json:"batteryWareHouseId" validate:"required"`
}

type UndockRequest struct {
	StaffID      string `json:"staffId" validate:"required"`
	PillarSlotID string `json:"pillarSlotId" validate:"required"`
	BatteryID    string `json:"batteryId" validate:"required"`
}

type TransferRequest struct {
	StaffID       string   `json:"staffId" validate:"required"`
	FromStationID string   `json:"fromStationId" validate:"required"`
	ToStationID   string   `json:"toStationId" validate:"required,nefield=FromStationID"`
	BatteryIDs    []string `json:"batteryIds" validate:"required,min=1,dive,required"`
}

// MovementResult is the answer to any battery movement. Message is meant for the operator as-is.
type MovementResult struct {
	Message string `json:"message"`
}

func (c *Client) DockBattery(ctx context.Context, req DockRequest) (*MovementResult, error) {
	return c.movement(ctx, "/api/pillar-slots/dock", req)
}

func (c *Client) UndockBattery(ctx context.Context, req UndockRequest) (*MovementResult, error) {
	return c.movement(ctx, "/api/pillar-slots/undock", req)
}

func (c *Client) TransferBatteries(ctx context.Context, req TransferRequest) (*MovementResult, error) {
	return c.movement(ctx, "/api/warehouse/transfer", req)
}

func (c *Client) movement(ctx context.Context, path string, req any) (*MovementResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	log.Debugf("movement %s: %+v", path, req)

	var result MovementResult
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	log.Debugf("movement %s response: %+v", path, result)
	return &result, nil
}

package swap

import (
	"context"
	"fmt"
	"net/url"
)

// GetWarehouseInventory returns the warehouse batteries of the station staffID works at.
func (c *Client) GetWarehouseInventory(ctx context.Context, staffID string) (any, error) {
	if staffID == "" {
		return nil, fmt.Errorf("%w: staff id is required", ErrInvalidRequest)
	}
	payload, err := c.getPayload(ctx, "/api/warehouse/batteries", url.Values{"staffId": {staffID}})
	if err != nil {
		return nil, fmt.Errorf("get warehouse inventory: %w", err)
	}
	return payload, nil
}

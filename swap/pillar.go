package swap

import (
	"context"
	"fmt"
	"net/url"
)

// GetPillars returns the pillars visible to userID as the backend shaped them.
func (c *Client) GetPillars(ctx context.Context, userID string) (any, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	payload, err := c.getPayload(ctx, "/api/pillars", url.Values{"userId": {userID}})
	if err != nil {
		return nil, fmt.Errorf("get pillars: %w", err)
	}
	return payload, nil
}

// GetPillarSlots returns the occupied-or-known slots of a pillar. Missing slot numbers are empty.
func (c *Client) GetPillarSlots(ctx context.Context, pillarID string) (any, error) {
	if pillarID == "" {
		return nil, fmt.Errorf("%w: pillar id is required", ErrInvalidRequest)
	}
	payload, err := c.getPayload(ctx, "/api/pillars/"+url.PathEscape(pillarID)+"/slots", nil)
	if err != nil {
		return nil, fmt.Errorf("get slots of pillar %s: %w", pillarID, err)
	}
	return payload, nil
}

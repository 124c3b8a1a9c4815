package swap

import (
	"context"
	"net/http"
)

type StaffProfile struct {
	StaffID   string `json:"staffId"`
	UserID    string `json:"userId"`
	StationID string `json:"stationId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (c *Client) GetProfile(ctx context.Context) (*StaffProfile, error) {
	var response Response[StaffProfile]
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/staff/profile", nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

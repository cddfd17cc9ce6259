package api

import (
	"context"
	"fmt"
	"net/url"
)

const VehiclesPath = "/api/vehicles"

// ListVehicles returns the catalogue. A non-empty search is sent as ?search=.
func (c *Client) ListVehicles(ctx context.Context, search string) (*Response, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	return c.Get(ctx, VehiclesPath, q)
}

func (c *Client) GetVehicle(ctx context.Context, id int) (*Response, error) {
	return c.Get(ctx, fmt.Sprintf("%s/%d", VehiclesPath, id), nil)
}

func (c *Client) AvailableVehicles(ctx context.Context) (*Response, error) {
	return c.Get(ctx, VehiclesPath+"/available", nil)
}

func (c *Client) VehiclesByCategory(ctx context.Context, categoryID int) (*Response, error) {
	return c.Get(ctx, fmt.Sprintf("%s/category/%d", VehiclesPath, categoryID), nil)
}

// VehiclesByStatus filters the catalogue by status name, e.g. "Available".
func (c *Client) VehiclesByStatus(ctx context.Context, status VehicleStatus) (*Response, error) {
	return c.Get(ctx, fmt.Sprintf("%s/status/%s", VehiclesPath, url.PathEscape(status.String())), nil)
}

// VehicleHistory is admin-only on the backend.
func (c *Client) VehicleHistory(ctx context.Context, id int) (*Response, error) {
	return c.Get(ctx, fmt.Sprintf("%s/%d/history", VehiclesPath, id), nil)
}

package lazada

import (
	"context"
	"encoding/json"
	"strconv"
)

// Seller-facing API paths used by the dashboard endpoints.
const (
	pathOrdersGet          = "/orders/get"
	pathOrderItemsGet      = "/order/items/get"
	pathMultiOrderItemsGet = "/orders/items/get"
	pathSellerPolicyGet    = "/seller/policy/get"
	pathReportOverviewGet  = "/sponsor/solutions/report/getReportOverview"
)

// GetOrders fetches a page of the seller's orders, newest first.
func (c *Client) GetOrders(ctx context.Context, accessToken string, limit, offset int) (*Response, error) {
	return c.Call(ctx, pathOrdersGet, accessToken, map[string]string{
		"limit":          strconv.Itoa(limit),
		"offset":         strconv.Itoa(offset),
		"sort_by":        "created_at",
		"sort_direction": "DESC",
	})
}

// GetOrderItems fetches the line items of one order.
func (c *Client) GetOrderItems(ctx context.Context, accessToken, orderID string) (*Response, error) {
	return c.Call(ctx, pathOrderItemsGet, accessToken, map[string]string{
		"order_id": orderID,
	})
}

// GetMultipleOrderItems fetches line items for several orders at once. The id
// list is serialized to JSON text before signing since the signed parameter
// set only supports flat string values.
func (c *Client) GetMultipleOrderItems(ctx context.Context, accessToken string, orderIDs []string) (*Response, error) {
	ids, err := json.Marshal(orderIDs)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, pathMultiOrderItemsGet, accessToken, map[string]string{
		"order_ids": string(ids),
	})
}

// GetSellerPolicy fetches the seller policy tree, which nests the fast
// fulfilment rate under the logistic policy's children.
func (c *Client) GetSellerPolicy(ctx context.Context, accessToken string) (*Response, error) {
	return c.Call(ctx, pathSellerPolicyGet, accessToken, nil)
}

// GetReportOverview fetches sponsored-solutions report metrics for a date
// range (YYYY-MM-DD).
func (c *Client) GetReportOverview(ctx context.Context, accessToken, startDate, endDate string) (*Response, error) {
	return c.Call(ctx, pathReportOverviewGet, accessToken, map[string]string{
		"startDate": startDate,
		"endDate":   endDate,
	})
}

package parkingclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// GetAlerts lists alerts
func (c *Client) GetAlerts(ctx context.Context) ([]model.Alert, error) {
	alerts, err := getList[model.Alert](ctx, c, "/alerts", "alerts")
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	return alerts, nil
}

// MarkAlertRead dismisses an alert
func (c *Client) MarkAlertRead(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodPost, "/alerts/"+url.PathEscape(id)+"/read", nil, nil)
}

// GetLogs lists change-history entries
func (c *Client) GetLogs(ctx context.Context) ([]model.LogEntry, error) {
	logs, err := getList[model.LogEntry](ctx, c, "/logs", "logs")
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	return logs, nil
}

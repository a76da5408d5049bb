package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// AlertList is the alerts page's local copy of the alerts
type AlertList struct {
	mu     sync.Mutex
	alerts []model.Alert
}

// Alerts returns a copy of the alerts shown
func (l *AlertList) Alerts() []model.Alert {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Alert(nil), l.alerts...)
}

func (l *AlertList) replace(alerts []model.Alert) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alerts = alerts
}

// remove drops the alert with id and returns it with its position
func (l *AlertList) remove(id string) (model.Alert, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.alerts, func(a model.Alert) bool { return a.ID == id })
	if i < 0 {
		return model.Alert{}, -1, false
	}
	removed := l.alerts[i]
	l.alerts = slices.Delete(l.alerts, i, i+1)
	return removed, i, true
}

func (l *AlertList) restore(a model.Alert, at int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at = min(at, len(l.alerts))
	l.alerts = slices.Insert(l.alerts, at, a)
}

// AlertCounts summarises alerts by severity
type AlertCounts struct {
	Total    int
	Unread   int
	Critical int
	Warning  int
	Info     int
}

// CountAlerts tallies alerts
func CountAlerts(alerts []model.Alert) AlertCounts {
	c := AlertCounts{Total: len(alerts)}
	for _, a := range alerts {
		if !a.Read {
			c.Unread++
		}
		switch a.Severity {
		case model.SeverityCritical:
			c.Critical++
		case model.SeverityWarning:
			c.Warning++
		default:
			c.Info++
		}
	}
	return c
}

// LoadAlerts fetches the alerts into list
func LoadAlerts(ctx context.Context, client AlertsClient, n Notifier, logger *zap.Logger, list *AlertList) error {
	alerts, err := client.GetAlerts(ctx)
	if err != nil {
		list.replace([]model.Alert{})
		return fail(n, "Failed to load alerts", err)
	}

	list.replace(alerts)
	logger.Debug("Alerts loaded", zap.Int("count", len(alerts)))
	return nil
}

// DismissAlert removes an alert from the list and marks it read, restoring it on failure
func DismissAlert(ctx context.Context, client AlertsClient, n Notifier, logger *zap.Logger, list *AlertList, id string) error {
	removed, at, ok := list.remove(id)
	if !ok {
		return fmt.Errorf("alert %s not found", id)
	}

	logger.Info("Dismissing alert", zap.String("alert_id", id))

	if err := client.MarkAlertRead(ctx, id); err != nil {
		list.restore(removed, at)
		return fail(n, "Failed to dismiss alert", err)
	}

	n.Notify(LevelSuccess, "Alert dismissed")
	return nil
}

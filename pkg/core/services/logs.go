package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// LogType groups change-history entries by what they changed
type LogType string

const (
	LogPrice           LogType = "price"
	LogCapacity        LogType = "capacity"
	LogAvailability    LogType = "availability"
	LogLogin           LogType = "login"
	LogCreateStaff     LogType = "create_staff"
	LogUpdateStaffRole LogType = "update_staff_role"
	LogOther           LogType = "other"
)

// LogTypes lists every log type in display order
var LogTypes = []LogType{LogPrice, LogCapacity, LogAvailability, LogLogin, LogCreateStaff, LogUpdateStaffRole, LogOther}

// ClassifyLog derives an entry's type from its action. First match wins.
func ClassifyLog(entry model.LogEntry) LogType {
	action := strings.ToLower(entry.Action)
	switch {
	case strings.Contains(action, "price"):
		return LogPrice
	case strings.Contains(action, "capacity"):
		return LogCapacity
	case strings.Contains(action, "availability"), strings.Contains(action, "status"):
		return LogAvailability
	case strings.Contains(action, "login"):
		return LogLogin
	case strings.Contains(action, "create_staff"):
		return LogCreateStaff
	case strings.Contains(action, "update_staff_role"):
		return LogUpdateStaffRole
	default:
		return LogOther
	}
}

// FilterLogs keeps entries of the given type; an empty type keeps everything
func FilterLogs(entries []model.LogEntry, logType LogType) []model.LogEntry {
	if logType == "" {
		return entries
	}
	filtered := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if ClassifyLog(e) == logType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// LoadLogs fetches the change history
func LoadLogs(ctx context.Context, client LogsClient, n Notifier, logger *zap.Logger) ([]model.LogEntry, error) {
	entries, err := client.GetLogs(ctx)
	if err != nil {
		return []model.LogEntry{}, fail(n, "Failed to load logs", err)
	}

	logger.Debug("Logs loaded", zap.Int("count", len(entries)))
	return entries, nil
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// GmailClient sends plain-text email
type GmailClient interface {
	SendEmail(to, subject, body string) error
}

var digestSeverityOrder = []model.AlertSeverity{model.SeverityCritical, model.SeverityWarning, model.SeverityInfo}

// BuildAlertDigest renders the unread alerts grouped by severity, most severe first.
// It returns false when there is nothing unread.
func BuildAlertDigest(alerts []model.Alert) (subject, body string, ok bool) {
	groups := make(map[model.AlertSeverity][]model.Alert)
	unread := 0
	for _, a := range alerts {
		if a.Read {
			continue
		}
		sev := a.Severity
		if sev != model.SeverityCritical && sev != model.SeverityWarning {
			sev = model.SeverityInfo
		}
		groups[sev] = append(groups[sev], a)
		unread++
	}
	if unread == 0 {
		return "", "", false
	}

	subject = fmt.Sprintf("Parking alerts: %d unread", unread)
	if c := len(groups[model.SeverityCritical]); c > 0 {
		subject += fmt.Sprintf(" (%d critical)", c)
	}

	var sb strings.Builder
	for _, sev := range digestSeverityOrder {
		group := groups[sev]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s (%d)\n", strings.ToUpper(string(sev)), len(group))
		for _, a := range group {
			if a.Date != "" {
				fmt.Fprintf(&sb, "  - [%s] %s\n", a.Date, a.Message)
			} else {
				fmt.Fprintf(&sb, "  - %s\n", a.Message)
			}
		}
		sb.WriteString("\n")
	}

	return subject, strings.TrimRight(sb.String(), "\n") + "\n", true
}

// SendAlertDigest emails the unread alerts in list to recipient.
// It returns whether an email was sent.
func SendAlertDigest(gmail GmailClient, n Notifier, logger *zap.Logger, list *AlertList, recipient string) (bool, error) {
	if recipient == "" {
		return false, errors.New("digest.recipient is not configured")
	}

	subject, body, ok := BuildAlertDigest(list.Alerts())
	if !ok {
		n.Notify(LevelInfo, "No unread alerts, digest not sent")
		return false, nil
	}

	logger.Info("Sending alert digest", zap.String("to", recipient), zap.String("subject", subject))

	if err := gmail.SendEmail(recipient, subject, body); err != nil {
		return false, fail(n, "Failed to send alert digest", err)
	}

	n.Notify(LevelSuccess, fmt.Sprintf("Alert digest sent to %s", recipient))
	return true, nil
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

func sampleAlerts() []model.Alert {
	return []model.Alert{
		{ID: "a1", Type: "low_space", Severity: model.SeverityWarning, Message: "Only 40 spaces left", Date: "2025-06-05"},
		{ID: "a2", Type: "fully_booked", Severity: model.SeverityCritical, Message: "Fully booked", Date: "2025-06-07"},
		{ID: "a3", Type: "manual_change", Severity: model.SeverityInfo, Message: "Price changed by admin", Read: true},
		{ID: "a4", Type: "high_demand", Severity: "", Message: "Demand is high"},
	}
}

func TestCountAlerts(t *testing.T) {
	assert.Equal(t, AlertCounts{Total: 4, Unread: 3, Critical: 1, Warning: 1, Info: 2}, CountAlerts(sampleAlerts()))
	assert.Equal(t, AlertCounts{}, CountAlerts(nil))
}

func TestLoadAlerts(t *testing.T) {
	list := &AlertList{}
	require.NoError(t, LoadAlerts(context.Background(), &mockAlertsClient{alerts: sampleAlerts()}, &recordingNotifier{}, zap.NewNop(), list))
	assert.Len(t, list.Alerts(), 4)

	n := &recordingNotifier{}
	err := LoadAlerts(context.Background(), &mockAlertsClient{getErr: errBackend}, n, zap.NewNop(), list)
	require.Error(t, err)
	assert.Empty(t, list.Alerts())
	assert.Equal(t, []string{"Failed to load alerts: Internal server error"}, n.errors())
}

func TestDismissAlert_Success(t *testing.T) {
	client := &mockAlertsClient{}
	n := &recordingNotifier{}
	list := &AlertList{}
	list.replace(sampleAlerts())

	require.NoError(t, DismissAlert(context.Background(), client, n, zap.NewNop(), list, "a2"))

	assert.Equal(t, []string{"a2"}, client.marked)
	for _, a := range list.Alerts() {
		assert.NotEqual(t, "a2", a.ID)
	}
	assert.Equal(t, []notification{{LevelSuccess, "Alert dismissed"}}, n.all())
}

func TestDismissAlert_FailureRestoresPosition(t *testing.T) {
	client := &mockAlertsClient{markErr: errBackend}
	n := &recordingNotifier{}
	list := &AlertList{}
	list.replace(sampleAlerts())

	err := DismissAlert(context.Background(), client, n, zap.NewNop(), list, "a2")
	require.Error(t, err)

	assert.Equal(t, sampleAlerts(), list.Alerts())
	assert.Equal(t, []string{"Failed to dismiss alert: Internal server error"}, n.errors())
}

func TestDismissAlert_Unknown(t *testing.T) {
	client := &mockAlertsClient{}
	require.Error(t, DismissAlert(context.Background(), client, &recordingNotifier{}, zap.NewNop(), &AlertList{}, "zz"))
	assert.Empty(t, client.marked)
}

func TestBuildAlertDigest(t *testing.T) {
	subject, body, ok := BuildAlertDigest(sampleAlerts())
	require.True(t, ok)

	assert.Equal(t, "Parking alerts: 3 unread (1 critical)", subject)
	assert.Equal(t, `CRITICAL (1)
  - [2025-06-07] Fully booked

WARNING (1)
  - [2025-06-05] Only 40 spaces left

INFO (1)
  - Demand is high
`, body)
	assert.NotContains(t, body, "Price changed by admin")

	_, _, ok = BuildAlertDigest([]model.Alert{{ID: "r", Read: true}})
	assert.False(t, ok)
}

func TestSendAlertDigest(t *testing.T) {
	t.Run("sends unread alerts", func(t *testing.T) {
		gmail := &mockGmailClient{}
		n := &recordingNotifier{}
		list := &AlertList{}
		list.replace(sampleAlerts())

		sent, err := SendAlertDigest(gmail, n, zap.NewNop(), list, "ops@example.com")
		require.NoError(t, err)
		assert.True(t, sent)

		require.Len(t, gmail.sent, 1)
		assert.Equal(t, "ops@example.com", gmail.sent[0].to)
		assert.True(t, strings.HasPrefix(gmail.sent[0].body, "CRITICAL"))
		assert.Equal(t, []notification{{LevelSuccess, "Alert digest sent to ops@example.com"}}, n.all())
	})

	t.Run("nothing unread", func(t *testing.T) {
		gmail := &mockGmailClient{}
		n := &recordingNotifier{}

		sent, err := SendAlertDigest(gmail, n, zap.NewNop(), &AlertList{}, "ops@example.com")
		require.NoError(t, err)
		assert.False(t, sent)
		assert.Empty(t, gmail.sent)
		assert.Equal(t, LevelInfo, n.all()[0].level)
	})

	t.Run("no recipient", func(t *testing.T) {
		_, err := SendAlertDigest(&mockGmailClient{}, &recordingNotifier{}, zap.NewNop(), &AlertList{}, "")
		require.Error(t, err)
	})

	t.Run("send failure", func(t *testing.T) {
		n := &recordingNotifier{}
		list := &AlertList{}
		list.replace(sampleAlerts())

		_, err := SendAlertDigest(&mockGmailClient{err: errStore}, n, zap.NewNop(), list, "ops@example.com")
		require.Error(t, err)
		assert.Equal(t, []string{"Failed to send alert digest: connection refused"}, n.errors())
	})
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

func TestSummarizeAvailability(t *testing.T) {
	dates := []model.CalendarDate{
		{StatusColor: "green", Capacity: model.Capacity{Remaining: 150}},
		{StatusColor: "green", Capacity: model.Capacity{Remaining: 100}},
		{StatusColor: "green", Capacity: model.Capacity{Remaining: 1}},
		{StatusColor: "green", Capacity: model.Capacity{Remaining: 0}},
		{StatusColor: "red", Capacity: model.Capacity{Remaining: 200}},
		{Availability: model.Available, Capacity: model.Capacity{Remaining: 300}},
	}

	s := SummarizeAvailability(dates, 100)
	assert.Equal(t, AvailabilitySummary{Plenty: 2, Limited: 2, Full: 2}, s)
}

func TestToggleAvailability(t *testing.T) {
	api := &mockCalendarAPI{}
	n := &recordingNotifier{}
	view := loadedView(june2025())

	next, err := ToggleAvailability(context.Background(), api, n, zap.NewNop(), view, "2025-6-7")
	require.NoError(t, err)
	assert.Equal(t, model.Unavailable, next)

	d, _ := view.Find("2025-06-07")
	assert.Equal(t, model.Unavailable, d.Availability)
	assert.Equal(t, "red", d.StatusColor)
	assert.True(t, d.ManualOverride)
	assert.Equal(t, []updateCall{{kind: "availability", date: "2025-06-07", value: model.Unavailable}}, api.writes())
	assert.Equal(t, []notification{{LevelSuccess, "2025-06-07 marked unavailable"}}, n.all())

	next, err = ToggleAvailability(context.Background(), api, n, zap.NewNop(), view, "2025-06-07")
	require.NoError(t, err)
	assert.Equal(t, model.Available, next)
}

func TestToggleAvailability_FullButOpenDateCloses(t *testing.T) {
	api := &mockCalendarAPI{}
	view := loadedView([]model.CalendarDate{
		{Date: "2025-06-07", Price: 30, Availability: model.Available, StatusColor: "red", Capacity: model.Capacity{Total: 300, Remaining: 0}, BookingsCount: 300},
	})

	next, err := ToggleAvailability(context.Background(), api, &recordingNotifier{}, zap.NewNop(), view, "2025-06-07")
	require.NoError(t, err)
	assert.Equal(t, model.Unavailable, next)
	assert.Equal(t, []updateCall{{kind: "availability", date: "2025-06-07", value: model.Unavailable}}, api.writes())
}

func TestSetAvailability_FailureReverts(t *testing.T) {
	api := &mockCalendarAPI{failKinds: map[string]bool{"availability": true}}
	n := &recordingNotifier{}
	view := loadedView(june2025())
	before, _ := view.Find("2025-06-01")

	err := SetAvailability(context.Background(), api, n, zap.NewNop(), view, "2025-06-01", model.Unavailable)
	require.Error(t, err)

	after, _ := view.Find("2025-06-01")
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"Failed to update availability: Internal server error"}, n.errors())
}

func TestSetAvailability_RejectsUnknownState(t *testing.T) {
	api := &mockCalendarAPI{}
	err := SetAvailability(context.Background(), api, &recordingNotifier{}, zap.NewNop(), loadedView(june2025()), "2025-06-01", "maybe")
	require.Error(t, err)
	assert.Empty(t, api.writes())
}

func TestSetCapacity(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := &mockCalendarAPI{}
		view := loadedView(june2025())

		require.NoError(t, SetCapacity(context.Background(), api, &recordingNotifier{}, zap.NewNop(), view, "2025-06-05", 350))

		d, _ := view.Find("2025-06-05")
		assert.Equal(t, 350, d.Capacity.Total)
		assert.Equal(t, []updateCall{{kind: "capacity", date: "2025-06-05", value: 350}}, api.writes())
	})

	t.Run("failure reverts", func(t *testing.T) {
		api := &mockCalendarAPI{failKinds: map[string]bool{"capacity": true}}
		view := loadedView(june2025())

		require.Error(t, SetCapacity(context.Background(), api, &recordingNotifier{}, zap.NewNop(), view, "2025-06-05", 350))

		d, _ := view.Find("2025-06-05")
		assert.Equal(t, 300, d.Capacity.Total)
	})

	t.Run("unknown date", func(t *testing.T) {
		api := &mockCalendarAPI{}
		require.Error(t, SetCapacity(context.Background(), api, &recordingNotifier{}, zap.NewNop(), loadedView(june2025()), "2025-07-01", 350))
		assert.Empty(t, api.writes())
	})
}

func TestApplyCapacityToAll_PartialFailure(t *testing.T) {
	api := &mockCalendarAPI{failDates: map[string]bool{"2025-06-01": true, "2025-06-07": true}}
	n := &recordingNotifier{}
	view := loadedView(june2025())

	result, err := ApplyCapacityToAll(context.Background(), api, n, zap.NewNop(), view, 400)
	require.Error(t, err)

	assert.Len(t, api.writes(), 3)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	assert.Len(t, result.Failures, 2)

	totals := make(map[string]int)
	for _, d := range view.Dates() {
		totals[d.Date] = d.Capacity.Total
	}
	assert.Equal(t, map[string]int{"2025-06-01": 300, "2025-06-05": 400, "2025-06-07": 300}, totals)
	assert.Equal(t, []string{"Failed to update capacity for 2 of 3 dates"}, n.errors())
}

func TestApplyCapacityToAll_NothingLoaded(t *testing.T) {
	api := &mockCalendarAPI{}
	_, err := ApplyCapacityToAll(context.Background(), api, &recordingNotifier{}, zap.NewNop(), NewCalendarView(2025, 6), 400)
	require.Error(t, err)
	assert.Empty(t, api.writes())
}

package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	events "my-calendar/internal/events/service"
	"my-calendar/internal/models"
	"my-calendar/internal/utils"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestFindNeighbors(t *testing.T) {
	target := sampleEvent(3, "Target", "10-03-2024", "12:00", "13:00")
	all := []models.Event{
		sampleEvent(1, "Far before", "01-01-2024", "09:00", "10:00"),
		sampleEvent(2, "Day before", "09-03-2024", "18:00", "19:00"),
		target,
		sampleEvent(4, "Day after", "11-03-2024", "08:00", "09:00"),
		sampleEvent(5, "Far after", "01-12-2024", "09:00", "10:00"),
		sampleEvent(6, "Broken", "not-a-date", "09:00", "10:00"),
	}

	previous, next := events.FindNeighbors(all, target, mustDate(t, target.Date))

	require.NotNil(t, previous)
	require.NotNil(t, next)
	assert.Equal(t, int64(2), previous.ID)
	assert.Equal(t, int64(4), next.ID)
}

func TestFindNeighborsSameDay(t *testing.T) {
	target := sampleEvent(2, "Lunch", "10-03-2024", "12:00", "13:00")
	all := []models.Event{
		sampleEvent(1, "Breakfast", "10-03-2024", "08:00", "09:00"),
		target,
		sampleEvent(3, "Dinner", "10-03-2024", "18:00", "19:00"),
	}

	previous, next := events.FindNeighbors(all, target, mustDate(t, target.Date))

	require.NotNil(t, previous)
	require.NotNil(t, next)
	assert.Equal(t, "Breakfast", previous.Name)
	assert.Equal(t, "Dinner", next.Name)
}

func TestFindNeighborsSameDayLastScannedWins(t *testing.T) {
	target := sampleEvent(1, "Target", "10-03-2024", "15:00", "15:30")
	all := []models.Event{
		target,
		sampleEvent(2, "Early afternoon", "10-03-2024", "14:00", "14:30"),
		sampleEvent(3, "Morning", "10-03-2024", "10:00", "10:30"),
		sampleEvent(4, "Late afternoon", "10-03-2024", "16:00", "16:30"),
		sampleEvent(5, "Evening", "10-03-2024", "18:00", "18:30"),
		sampleEvent(6, "Day before", "09-03-2024", "20:00", "21:00"),
	}

	previous, next := events.FindNeighbors(all, target, mustDate(t, target.Date))

	require.NotNil(t, previous)
	require.NotNil(t, next)
	// Same-day events replace the candidate in scan order, not by distance.
	assert.Equal(t, int64(3), previous.ID)
	assert.Equal(t, int64(5), next.ID)
}

func TestFindNeighborsAlone(t *testing.T) {
	target := sampleEvent(1, "Only", "10-03-2024", "12:00", "13:00")

	previous, next := events.FindNeighbors([]models.Event{target}, target, mustDate(t, target.Date))

	assert.Nil(t, previous)
	assert.Nil(t, next)
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, events.IsWeekend(mustDate(t, "23-12-2023")))
	assert.True(t, events.IsWeekend(mustDate(t, "24-12-2023")))
	assert.False(t, events.IsWeekend(mustDate(t, "25-12-2023")))
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func timePtr(t time.Time) *time.Time {
	return &t
}

func TestHasData(t *testing.T) {
	var nilFlight *Flight
	assert.False(t, nilFlight.HasData())
	assert.False(t, (&Flight{FlightNumber: "BA117", CurrentLat: floatPtr(1)}).HasData())
	assert.True(t, (&Flight{Status: strPtr("active")}).HasData())
	assert.True(t, (&Flight{ScheduledArrival: timePtr(time.Now())}).HasData())
}

func TestMergeFromKeepsMissingTimestamps(t *testing.T) {
	sched := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	actual := time.Date(2024, 5, 1, 18, 42, 0, 0, time.UTC)
	stored := &Flight{
		FlightNumber:       "BA117",
		Airline:            strPtr("British Airways"),
		ScheduledDeparture: timePtr(sched),
		ActualDeparture:    timePtr(actual),
		Status:             strPtr("active"),
		CurrentLat:         floatPtr(50),
	}
	fresh := &Flight{
		FlightNumber:     "BA117",
		Status:           strPtr("landed"),
		ActualArrival:    timePtr(actual.Add(7 * time.Hour)),
		ScheduledArrival: nil,
	}

	stored.MergeFrom(fresh)

	assert.Equal(t, "landed", *stored.Status)
	assert.Nil(t, stored.Airline)
	assert.Nil(t, stored.CurrentLat)
	assert.Equal(t, sched, *stored.ScheduledDeparture)
	assert.Equal(t, actual, *stored.ActualDeparture)
	assert.Equal(t, actual.Add(7*time.Hour), *stored.ActualArrival)
	assert.Nil(t, stored.ScheduledArrival)
}

func TestCloneIsDeep(t *testing.T) {
	orig := &Flight{
		FlightNumber: "BA117",
		Airline:      strPtr("British Airways"),
		CurrentLat:   floatPtr(50),
		LastUpdated:  timePtr(time.Now()),
	}
	c := orig.Clone()
	require.Equal(t, orig, c)

	*c.Airline = "Other"
	*c.CurrentLat = 1
	assert.Equal(t, "British Airways", *orig.Airline)
	assert.Equal(t, 50.0, *orig.CurrentLat)

	var nilFlight *Flight
	assert.Nil(t, nilFlight.Clone())
}

func TestFlightJSONUsesSnakeCaseAndNulls(t *testing.T) {
	f := Flight{FlightNumber: "BA117", Status: strPtr("active")}
	payload, err := json.Marshal(f)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "BA117", decoded["flight_number"])
	assert.Equal(t, "active", decoded["status"])
	assert.Contains(t, decoded, "current_lat")
	assert.Nil(t, decoded["current_lat"])
	assert.NotContains(t, decoded, "last_updated")
	assert.NotContains(t, decoded, "id")
}

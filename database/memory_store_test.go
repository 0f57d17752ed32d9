package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/flighttracker/models"
)

func newTestMemoryStore() *MemoryStore {
	m := NewMemoryStore()
	clock := fixedNow
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m
}

func TestMemoryStoreAddAndList(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore()

	first, err := m.AddTracked(ctx, sampleFlight())
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, fixedNow.Add(time.Second), first.DateAdded)

	_, err = m.AddTracked(ctx, &models.Flight{FlightNumber: "AF22", Status: ptr("scheduled")})
	require.NoError(t, err)

	n, err := m.CountTracked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := m.ListTracked(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BA117", list[0].FlightNumber)
	assert.Equal(t, "AF22", list[1].FlightNumber)
	require.NotNil(t, list[1].Details)
	assert.Equal(t, "scheduled", *list[1].Details.Status)
}

func TestMemoryStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore()

	_, err := m.AddTracked(ctx, sampleFlight())
	require.NoError(t, err)
	_, err = m.AddTracked(ctx, sampleFlight())
	assert.ErrorIs(t, err, ErrDuplicate)

	n, _ := m.CountTracked(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore()

	f := sampleFlight()
	_, err := m.AddTracked(ctx, f)
	require.NoError(t, err)
	*f.Airline = "Changed"

	stored, err := m.GetFlight(ctx, "BA117")
	require.NoError(t, err)
	assert.Equal(t, "British Airways", *stored.Airline)

	*stored.Status = "landed"
	again, _ := m.GetFlight(ctx, "BA117")
	assert.Equal(t, "active", *again.Status)
}

func TestMemoryStoreSaveFlightKeepsID(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore()

	_, err := m.AddTracked(ctx, sampleFlight())
	require.NoError(t, err)
	before, _ := m.GetFlight(ctx, "BA117")

	updated := sampleFlight()
	updated.Status = ptr("landed")
	require.NoError(t, m.SaveFlight(ctx, updated))
	require.NotNil(t, updated.LastUpdated)

	after, _ := m.GetFlight(ctx, "BA117")
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "landed", *after.Status)
	assert.True(t, after.LastUpdated.After(*before.LastUpdated))
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore()

	_, err := m.AddTracked(ctx, sampleFlight())
	require.NoError(t, err)

	removed, err := m.RemoveTracked(ctx, "BA117")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.RemoveTracked(ctx, "BA117")
	require.NoError(t, err)
	assert.False(t, removed)

	tracked, err := m.GetTracked(ctx, "BA117")
	require.NoError(t, err)
	assert.Nil(t, tracked)

	f, err := m.GetFlight(ctx, "BA117")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestMemoryStorePing(t *testing.T) {
	m := NewMemoryStore()
	assert.NoError(t, m.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Ping(ctx), context.Canceled)
	assert.NoError(t, m.Close())
}

package airports

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("iata,name,latitude,longitude\nKXYZ,Remote Field,10.25,20.5\n"))
	}))
	defer srv.Close()

	table, err := Load(srv.URL + "/airports.csv")
	require.NoError(t, err)

	xyz, ok := table.Lookup("XYZ")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Lat: 10.25, Lon: 20.5}, xyz)

	_, ok = table.Lookup("LHR")
	assert.True(t, ok)
}

func TestLoadFromURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := Load(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 410")
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.test/a.csv"))
	assert.True(t, isURL("HTTP://example.test/a.csv"))
	assert.False(t, isURL("data/airports.csv"))
}

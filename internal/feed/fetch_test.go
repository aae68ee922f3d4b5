package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mealsPayload = `[
	{
		"title": "Lunch",
		"startdate": "2026-01-05T11:00:00-05:00",
		"enddate": "2026-01-05T13:30:00-05:00",
		"description": "<span>Classics:</span>Taco Salad"
	},
	{
		"title": "Dinner",
		"startdate": "2026-01-05T16:30:00-05:00",
		"enddate": "2026-01-05T20:00:00-05:00",
		"description": "<span>Classics:</span>Pot Roast"
	}
]`

func TestFetchRange(t *testing.T) {
	var sawStart, sawEnd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawStart = r.URL.Query().Get("start")
		sawEnd = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mealsPayload))
	}))
	defer srv.Close()

	c := NewClient(t.TempDir())
	from := time.Unix(1000, 0)
	to := time.Unix(2000, 0)

	raws, err := c.FetchRange(context.Background(), srv.URL, from, to)

	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "Lunch", raws[0].Title)
	assert.Equal(t, "<span>Classics:</span>Pot Roast", raws[1].Description)
	assert.Equal(t, "1000", sawStart)
	assert.Equal(t, "2000", sawEnd)
}

func TestFetchRange_ConditionalRequestUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		switch {
		case n == 1:
			w.Header().Set("ETag", `"v1"`)
			_, _ = w.Write([]byte(mealsPayload))
		case r.Header.Get("If-None-Match") == `"v1"`:
			w.WriteHeader(http.StatusNotModified)
		default:
			t.Errorf("expected conditional request, got none")
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(t.TempDir())
	from, to := time.Unix(1000, 0), time.Unix(2000, 0)

	first, err := c.FetchRange(context.Background(), srv.URL, from, to)
	require.NoError(t, err)

	second, err := c.FetchRange(context.Background(), srv.URL, from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchRange_ServerErrorFallsBackToCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(mealsPayload))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(t.TempDir())
	from, to := time.Unix(1000, 0), time.Unix(2000, 0)

	_, err := c.FetchRange(context.Background(), srv.URL, from, to)
	require.NoError(t, err)

	raws, err := c.FetchRange(context.Background(), srv.URL, from, to)
	require.NoError(t, err)
	assert.Len(t, raws, 2)
}

func TestFetchRange_ServerErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(t.TempDir())

	_, err := c.FetchRange(context.Background(), srv.URL, time.Unix(0, 0), time.Unix(1, 0))

	assert.Error(t, err)
}

func TestFetchRange_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	c := NewClient(t.TempDir())

	_, err := c.FetchRange(context.Background(), srv.URL, time.Unix(0, 0), time.Unix(1, 0))

	assert.Error(t, err)
}

func TestFetchRange_EmptyURL(t *testing.T) {
	c := NewClient(t.TempDir())

	_, err := c.FetchRange(context.Background(), "", time.Unix(0, 0), time.Unix(1, 0))

	assert.Error(t, err)
}

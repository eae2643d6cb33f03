package fetchutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func testFetcher(retries int) Fetcher {
	return Fetcher{
		Client:  resty.New(),
		Retries: retries,
		Backoff: time.Millisecond,
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer server.Close()

	body, err := testFetcher(2).Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "finally", body)
	require.EqualValues(t, 3, calls.Load())
}

func TestGetExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testFetcher(2).Get(context.Background(), server.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.EqualValues(t, 3, calls.Load())
}

func TestGetHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := Fetcher{Client: resty.New(), Retries: 5, Backoff: time.Minute}
	_, err := fetcher.Get(ctx, server.URL)
	require.Error(t, err)
}

func TestNewFetcherDefaults(t *testing.T) {
	fetcher := NewFetcher(Options{})
	require.NotNil(t, fetcher.Client)
	require.Equal(t, time.Second, fetcher.Backoff)
	require.Zero(t, fetcher.Retries)
}

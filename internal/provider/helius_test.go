package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "86xCnPeV69n6t3DnyGvkKobf9FdN2H9oiVDdaMpo2MMY"

func txPayload(sig string) string {
	return fmt.Sprintf(`{"signature":%q,"slot":1,"timestamp":1}`, sig)
}

func TestFetchTransactionsSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/addresses/"+testWallet+"/transactions", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		assert.Empty(t, r.URL.Query().Get("before"))
		fmt.Fprintf(w, "[%s,%s]", txPayload("sig-1"), txPayload("sig-2"))
	}))
	defer srv.Close()

	c := NewHeliusClient("test-key", WithBaseURL(srv.URL))
	payloads, err := c.FetchTransactions(context.Background(), testWallet)

	require.NoError(t, err)
	require.Len(t, payloads, 2)
}

func TestFetchTransactionsPaginates(t *testing.T) {
	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("before") {
		case "":
			pages.Add(1)
			fmt.Fprintf(w, "[%s,%s]", txPayload("sig-1"), txPayload("sig-2"))
		case "sig-2":
			pages.Add(1)
			fmt.Fprintf(w, "[%s]", txPayload("sig-3"))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("before"))
			fmt.Fprint(w, "[]")
		}
	}))
	defer srv.Close()

	c := NewHeliusClient("test-key", WithBaseURL(srv.URL), WithPageLimit(2))
	payloads, err := c.FetchTransactions(context.Background(), testWallet)

	require.NoError(t, err)
	assert.Len(t, payloads, 3)
	assert.Equal(t, int32(2), pages.Load())
}

func TestFetchTransactionsRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, "[%s]", txPayload("sig-1"))
	}))
	defer srv.Close()

	c := NewHeliusClient("test-key",
		WithBaseURL(srv.URL),
		WithRetryDelay(time.Millisecond))
	payloads, err := c.FetchTransactions(context.Background(), testWallet)

	require.NoError(t, err)
	assert.Len(t, payloads, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchTransactionsClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHeliusClient("bogus",
		WithBaseURL(srv.URL),
		WithRetryDelay(time.Millisecond))
	_, err := c.FetchTransactions(context.Background(), testWallet)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchTransactionsRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHeliusClient("test-key",
		WithBaseURL(srv.URL),
		WithMaxRetries(1),
		WithRetryDelay(time.Millisecond))
	_, err := c.FetchTransactions(context.Background(), testWallet)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestFetchTransactionsMaxPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "[%s]", txPayload("sig-"+r.URL.Query().Get("before")))
	}))
	defer srv.Close()

	c := NewHeliusClient("test-key",
		WithBaseURL(srv.URL),
		WithPageLimit(1),
		WithMaxPages(3))
	payloads, err := c.FetchTransactions(context.Background(), testWallet)

	require.NoError(t, err)
	assert.Len(t, payloads, 3)
}

func TestFetchTransactionsContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewHeliusClient("test-key",
		WithBaseURL(srv.URL),
		WithRetryDelay(time.Second))
	_, err := c.FetchTransactions(ctx, testWallet)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLastSignature(t *testing.T) {
	batch := []json.RawMessage{
		json.RawMessage(txPayload("sig-1")),
		json.RawMessage(txPayload("sig-2")),
	}

	sig, err := lastSignature(batch)
	require.NoError(t, err)
	assert.Equal(t, "sig-2", sig)

	_, err = lastSignature([]json.RawMessage{json.RawMessage(`{}`)})
	assert.Error(t, err)
}

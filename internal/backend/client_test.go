package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

func TestClient_SearchByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ord_id/417", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "ordlens-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"result": [{"id": "417", "tx_id": "aa", "similarity": 256}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL + "/", UserAgent: "ordlens-test"})
	resp, err := client.SearchByID(context.Background(), "417")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "417", resp.Items[0].ID)
}

func TestClient_SearchByIDRandomSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ord_id/random", r.URL.Path)
		w.Write([]byte(`{"result": [], "ord_id": "999"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{BaseURL: srv.URL}).SearchByID(context.Background(), domain.RandomSentinel)
	require.NoError(t, err)
	assert.Equal(t, "999", resp.ResolvedID)
}

func TestClient_SearchByTxID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tx_id/abcdef", r.URL.Path)
		w.Write([]byte(`{"result": [], "mempool": true, "chosen_content_link": "L", "ord_content_hash": "H"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{BaseURL: srv.URL}).SearchByTxID(context.Background(), "abcdef")
	require.NoError(t, err)
	assert.True(t, resp.Mempool)
	assert.Equal(t, "L", resp.ChosenContentLink)
	assert.Equal(t, "H", resp.ChosenContentHash)
}

func TestClient_SearchByFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/file", r.URL.Path)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, []byte("png-bytes"), data)

		w.Write([]byte(`{"result": [{"id": "1"}], "ord_content_hash": "h1"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{BaseURL: srv.URL}).SearchByFile(context.Background(), "cat.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "h1", resp.ChosenContentHash)
	assert.Len(t, resp.Items, 1)
}

func TestClient_Non2xxIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).SearchByID(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequestFailed)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "internal error", statusErr.Message)
}

func TestClient_MalformedBodyIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).SearchByID(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
}

func TestClient_TransportErrorIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}).SearchByID(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).SearchByID(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_TransportRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"result": []}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{BaseURL: srv.URL, Retries: 1}).SearchByID(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, resp.HasItems)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

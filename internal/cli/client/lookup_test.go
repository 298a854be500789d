package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

const byIDBody = `{
	"result": [
		{"id": 417, "tx_id": "t417", "content_hash": "h1", "hiro_content_link": "https://hiro.example/417", "similarity": 256},
		{"id": 5, "tx_id": "t5", "content_hash": "h1", "hiro_content_link": "https://hiro.example/5", "similarity": 256},
		{"id": 6, "tx_id": "t6", "content_hash": "h2", "hiro_content_link": "https://hiro.example/6", "similarity": 128}
	]
}`

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ordlens",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	AddPersistentFlags(root)
	root.AddCommand(LookupCmd(), RandomCmd(), UploadCmd(), OpenCmd(), ConfigCmd())
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errw bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errw)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errw.String(), err
}

func fakeBackend(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	useConfigPath(t)
	clearEnv(t)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestLookupCmd_Terminal(t *testing.T) {
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ord_id/417", r.URL.Path)
		w.Write([]byte(byIDBody))
	})

	out, _, err := execute(t, "lookup", "417", "--api-url", apiURL, "--loglevel", "error", "--share-base", "https://ordlens.example/")
	require.NoError(t, err)

	assert.Contains(t, out, "Your ordinal: 417")
	assert.Contains(t, out, "2 similar pictures:")
	assert.Contains(t, out, "DUPLICATE")
	assert.Contains(t, out, "Similarity: 50.00 %")
	assert.Contains(t, out, "Share: https://ordlens.example/?id=417")
}

func TestLookupCmd_JSON(t *testing.T) {
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(byIDBody))
	})

	out, _, err := execute(t, "lookup", "417", "--api-url", apiURL, "--loglevel", "error", "--output")
	require.NoError(t, err)

	var payload struct {
		View  domain.ReconciledView `json:"view"`
		Query string                `json:"query"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "id=417", payload.Query)
	assert.Equal(t, domain.ByID("417"), payload.View.Key)
	require.Len(t, payload.View.Comparisons, 2)
	assert.True(t, payload.View.Comparisons[0].IsExactDuplicate)
}

func TestLookupCmd_InvalidInputSpendsNoRequest(t *testing.T) {
	var calls atomic.Int32
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	out, errOut, err := execute(t, "lookup", "12x", "--api-url", apiURL, "--loglevel", "error")
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrNotANumber)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Given ID is not a number.")
	assert.Equal(t, int32(0), calls.Load())
}

func TestLookupCmd_NoMatch(t *testing.T) {
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": []}`))
	})

	_, errOut, err := execute(t, "lookup", "417", "--api-url", apiURL, "--loglevel", "error")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.Contains(t, errOut, "Given item is not a recognized picture.")
}

func TestRandomCmd_ResolvesSelection(t *testing.T) {
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ord_id/random", r.URL.Path)
		w.Write([]byte(`{"ord_id": 9, "result": [
			{"id": 9, "tx_id": "t9", "content_hash": "h9", "similarity": 256},
			{"id": 10, "tx_id": "t10", "content_hash": "h10", "similarity": 64}
		]}`))
	})

	out, _, err := execute(t, "random", "--api-url", apiURL, "--loglevel", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Your ordinal: 9")
	assert.Contains(t, out, "Share: ?id=9")
}

func TestUploadCmd_Placeholder(t *testing.T) {
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, "\x89PNG\r\n\x1a\nfake", string(data))
		w.Write([]byte(`{"result": [{"id": 5, "tx_id": "t5", "content_hash": "h5", "similarity": 200}]}`))
	})

	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0644))

	out, _, err := execute(t, "upload", path, "--api-url", apiURL, "--loglevel", "error", "--mint-url", "https://mint.example")
	require.NoError(t, err)

	assert.Contains(t, out, "Your potential ordinal")
	assert.Contains(t, out, "Mint it at https://mint.example")
	assert.Contains(t, out, "Preview: image/png")
	assert.Contains(t, out, "1. Ordinal ID: 5")
	assert.NotContains(t, out, "Share:")
}

func TestUploadCmd_RejectsBadFiles(t *testing.T) {
	useConfigPath(t)
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	_, _, err := execute(t, "upload", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file is empty")

	_, _, err = execute(t, "upload", filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	_, _, err = execute(t, "upload", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestOpenCmd_ResumesSharedLink(t *testing.T) {
	tx := strings.Repeat("ef", 32)
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tx_id/"+tx, r.URL.Path)
		w.Write([]byte(`{"result": [{"id": 12, "tx_id": "` + tx + `", "content_hash": "h12", "similarity": 256}]}`))
	})

	out, _, err := execute(t, "open", "https://ordlens.example/?tx="+tx+"&lang=en", "--api-url", apiURL, "--loglevel", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Your ordinal: 12")
	assert.Contains(t, out, "lang=en")
	assert.Contains(t, out, "tx="+tx)
}

func TestOpenCmd_NothingToResume(t *testing.T) {
	var calls atomic.Int32
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, _, err := execute(t, "open", "?lang=en", "--api-url", apiURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no lookup found")
	assert.Equal(t, int32(0), calls.Load())
}

func TestLookupCmd_CopyShareLink(t *testing.T) {
	apiURL := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(byIDBody))
	})

	var copied string
	oldCopy := copyToClipboard
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}
	defer func() { copyToClipboard = oldCopy }()

	_, errOut, err := execute(t, "lookup", "417", "--api-url", apiURL, "--loglevel", "error", "--copy", "--share-base", "https://ordlens.example/")
	require.NoError(t, err)

	assert.Equal(t, "https://ordlens.example/?id=417", copied)
	assert.Contains(t, errOut, "Copied share link to clipboard.")
}

//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// E2ETestEnv holds a fake search backend, the built binaries and a running
// ordlensd process.
type E2ETestEnv struct {
	T          *testing.T
	Backend    *FakeBackend
	BinaryDir  string
	ServerURL  string
	ConfigHome string
	HTTPClient *http.Client

	daemon *exec.Cmd
}

// FakeBackend answers the three search endpoints from canned bodies and
// records every path it was called with.
type FakeBackend struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []string
	bodies map[string]string
	// Hold, when set, blocks every request until it is closed.
	Hold chan struct{}
}

func NewFakeBackend(bodies map[string]string) *FakeBackend {
	fb := &FakeBackend{bodies: bodies}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	return fb
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.calls = append(fb.calls, r.URL.Path)
	hold := fb.Hold
	body, ok := fb.bodies[r.URL.Path]
	fb.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if !ok {
		http.Error(w, "unknown path", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// Calls returns the paths requested so far.
func (fb *FakeBackend) Calls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.calls...)
}

// SetupE2EEnv builds the binaries and starts ordlensd against a fake backend.
func SetupE2EEnv(t *testing.T, bodies map[string]string) *E2ETestEnv {
	env := &E2ETestEnv{
		T:          t,
		Backend:    NewFakeBackend(bodies),
		ConfigHome: t.TempDir(),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	env.BuildBinaries()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	env.startDaemon(port)
	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.daemon != nil && e.daemon.Process != nil {
		e.daemon.Process.Signal(os.Interrupt)
		done := make(chan struct{})
		go func() {
			e.daemon.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			e.daemon.Process.Kill()
		}
	}
	if e.Backend != nil {
		e.Backend.Close()
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the ordlens and ordlensd binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "ordlens-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	for _, name := range []string{"ordlensd", "ordlens"} {
		cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, name), "./cmd/"+name)
		cmd.Dir = "../.."
		if out, err := cmd.CombinedOutput(); err != nil {
			e.T.Fatalf("failed to build %s: %v\n%s", name, err, out)
		}
	}
}

func (e *E2ETestEnv) startDaemon(port int) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "ordlensd"), "serve")
	cmd.Dir = e.T.TempDir()
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("ORDLENS_PORT=%d", port),
		fmt.Sprintf("ORDLENS_API_URL=%s", e.Backend.URL),
		"ORDLENS_LOG_LEVEL=error",
	)
	if err := cmd.Start(); err != nil {
		e.T.Fatalf("failed to start ordlensd: %v", err)
	}
	e.daemon = cmd
	e.ServerURL = fmt.Sprintf("http://localhost:%d", port)
	waitForServer(e.T, e.ServerURL, 10*time.Second)
}

// RunOrdlens runs the ordlens CLI against the fake backend with an isolated
// user config directory.
func (e *E2ETestEnv) RunOrdlens(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "ordlens"), args...)
	cmd.Dir = e.ConfigHome
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("ORDLENS_API_URL=%s", e.Backend.URL),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", e.ConfigHome),
		fmt.Sprintf("HOME=%s", e.ConfigHome),
		"ORDLENS_LOG_LEVEL=error",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// GatewayResponse is the envelope of ordlensd answers.
type GatewayResponse struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error,omitempty"`
}

// Get performs a GET request against ordlensd.
func (e *E2ETestEnv) Get(path string) (*GatewayResponse, error) {
	resp, err := e.HTTPClient.Get(e.ServerURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &GatewayResponse{Status: resp.StatusCode}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return out, nil
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// # internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, status StatusFunc) (*Server, string) {
	t.Helper()
	siteDir := t.TempDir()
	if status == nil {
		status = func(context.Context) Status {
			return Status{Status: "up", Timestamp: time.Now().UTC(), Components: map[string]string{}}
		}
	}
	return New(":0", siteDir, status), siteDir
}

func TestServesGeneratedSite(t *testing.T) {
	s, siteDir := newTestServer(t, nil)
	page := "<html><body>logger</body></html>"
	if err := os.WriteFile(filepath.Join(siteDir, "packages.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(s.handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/packages.html")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "logger") {
		t.Errorf("Expected page content, got %q", string(body))
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, func(context.Context) Status {
		return Status{
			Status:     "up",
			Timestamp:  time.Now().UTC(),
			Components: map[string]string{"index": "ok (2 objects)"},
		}
	})

	ts := httptest.NewServer(s.handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode health payload: %v", err)
	}
	if st.Status != "up" {
		t.Errorf("Expected status up, got %s", st.Status)
	}
	if st.Components["index"] == "" {
		t.Error("Expected index component reported")
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	s, _ := newTestServer(t, func(context.Context) Status {
		return Status{Status: "degraded", Components: map[string]string{"store": "missing"}}
	})

	ts := httptest.NewServer(s.handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	ts := httptest.NewServer(s.handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/christophertubbs/erdantic/pkg/cache"
)

func newTestServer(t *testing.T, path string) *previewServer {
	t.Helper()
	srv := newPreviewServer(newTestCLI(), path, 2, false, cache.NewNullCache())
	if err := srv.reload(); err != nil {
		t.Fatalf("reload() error = %v", err)
	}
	return srv
}

// writeTestSchema copies the party schema into a temp dir, optionally with
// extra declarations appended, and returns its path.
func writeTestSchema(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.toml")
	source := readFile(t, filepath.Join("testdata", "party.toml"))
	if err := os.WriteFile(path, []byte(source+extra), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const extraModel = `
[models.Sidekick]

[[models.Sidekick.fields]]
name = "name"
type = "string"
`

func TestServeReloadUnchangedSchemaKeepsGeneration(t *testing.T) {
	path := writeTestSchema(t, t.TempDir(), "")
	srv := newTestServer(t, path)

	_, first := srv.snapshot()
	if err := srv.reload(); err != nil {
		t.Fatal(err)
	}
	_, second := srv.snapshot()

	if first != second {
		t.Error("reload of unchanged schema should keep the render generation")
	}

	d, _ := srv.snapshot()
	if d == nil || len(d.Models()) != 4 {
		t.Errorf("snapshot diagram should have 4 models")
	}
}

func TestServeReloadChangedSchemaStartsNewGeneration(t *testing.T) {
	dir := t.TempDir()
	path := writeTestSchema(t, dir, "")
	srv := newTestServer(t, path)

	_, first := srv.snapshot()
	writeTestSchema(t, dir, extraModel)
	if err := srv.reload(); err != nil {
		t.Fatal(err)
	}
	d, second := srv.snapshot()

	if first == second {
		t.Error("reload of a changed schema should start a new render generation")
	}
	if len(d.Models()) != 5 {
		t.Errorf("diagram should include the added model, got %d models", len(d.Models()))
	}
}

func TestServeCacheKeysScopedToSchema(t *testing.T) {
	a := newTestServer(t, writeTestSchema(t, t.TempDir(), ""))
	b := newTestServer(t, writeTestSchema(t, t.TempDir(), ""))

	opts := cache.RenderKeyOpts{Format: "svg", Orientation: "LR"}
	if a.keyer.RenderKey("hash", opts) == b.keyer.RenderKey("hash", opts) {
		t.Error("servers for different schema paths should not share render keys")
	}
}

func TestServeDOTEndpoint(t *testing.T) {
	srv := newTestServer(t, filepath.Join("testdata", "party.toml"))
	ts := httptest.NewServer(srv.router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/diagram.dot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("DOT endpoint should send an ETag")
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "digraph") {
		t.Errorf("body should be DOT, got %q", body)
	}
}

func TestServeVersionEndpoint(t *testing.T) {
	srv := newTestServer(t, filepath.Join("testdata", "party.toml"))
	ts := httptest.NewServer(srv.router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	_, etag := srv.snapshot()
	if string(body) != etag {
		t.Errorf("version = %q, want current ETag %q", body, etag)
	}
}

func TestServeSVGNotModified(t *testing.T) {
	srv := newTestServer(t, filepath.Join("testdata", "party.toml"))
	ts := httptest.NewServer(srv.router())
	defer ts.Close()

	_, etag := srv.snapshot()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/diagram.svg", nil)
	req.Header.Set("If-None-Match", etag)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304 for a matching ETag", resp.StatusCode)
	}
}

func TestServeIndexPage(t *testing.T) {
	srv := newTestServer(t, filepath.Join("testdata", "party.toml"))
	ts := httptest.NewServer(srv.router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"/diagram.svg", "/version", "Party"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestServeWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTestSchema(t, dir, "")

	srv := newTestServer(t, path)
	_, before := srv.snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	done, err := srv.watch(ctx)
	if err != nil {
		t.Fatalf("watch() error = %v", err)
	}
	defer func() {
		cancel()
		<-done
	}()

	writeTestSchema(t, dir, extraModel)

	deadline := time.After(3 * time.Second)
	for {
		_, after := srv.snapshot()
		if after != before {
			return
		}
		select {
		case <-deadline:
			t.Fatal("watcher did not trigger a reload")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jrsteele09/go-efact-client/blobs"
	"github.com/jrsteele09/go-efact-client/documents"
	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
	"github.com/jrsteele09/go-efact-client/server"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	allow  bool
	routes []string
	lock   sync.Mutex
}

func (g *fakeGuard) RequireAuthenticated(route string) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.routes = append(g.routes, route)
	if !g.allow {
		return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[fakeGuard] %s", route)
	}
	return nil
}

func (g *fakeGuard) setAllow(allow bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.allow = allow
}

func (g *fakeGuard) Routes() []string {
	g.lock.Lock()
	defer g.lock.Unlock()
	return append([]string(nil), g.routes...)
}

type testFixture struct {
	api      *httptest.Server
	viewer   *httptest.Server
	registry *blobs.Registry
	guard    *fakeGuard
	dir      string
}

func setupTestFixture(t *testing.T, withPDF bool) *testFixture {
	t.Helper()
	f := &testFixture{
		registry: blobs.NewRegistry(),
		guard:    &fakeGuard{allow: true},
		dir:      t.TempDir(),
	}

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /v1/{kind}/{ticket}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("ticket") == "MISSING" {
			http.NotFound(w, r)
			return
		}
		switch r.PathValue("kind") {
		case "pdf":
			if !withPDF {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = io.WriteString(w, "%PDF")
		case "xml":
			_, _ = io.WriteString(w, "<Invoice/>")
		case "cdr":
			_, _ = io.WriteString(w, "<CDR/>")
		}
	})
	f.api = httptest.NewServer(apiMux)
	t.Cleanup(f.api.Close)

	retriever := documents.NewRetriever(f.api.Client(), f.api.URL+"/v1", f.registry, documents.Options{DownloadDir: f.dir})
	viewer := server.New("PROD", retriever, f.guard)
	f.viewer = httptest.NewServer(viewer)
	t.Cleanup(f.viewer.Close)
	t.Cleanup(viewer.Close)
	return f
}

func (f *testFixture) getJSON(t *testing.T, method, path string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, f.viewer.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type documentsView struct {
	Ticket    string   `json:"ticket"`
	PDFURL    string   `json:"pdfUrl"`
	XML       *string  `json:"xml"`
	CDR       *string  `json:"cdr"`
	Available []string `json:"available"`
}

func TestViewer_Documents(t *testing.T) {
	f := setupTestFixture(t, true)

	var view documentsView
	status := f.getJSON(t, http.MethodGet, "/documents/F001-1", &view)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "F001-1", view.Ticket)
	require.Equal(t, []string{"pdf", "xml", "cdr"}, view.Available)
	require.Equal(t, "<Invoice/>", *view.XML)
	require.True(t, strings.HasPrefix(view.PDFURL, "/blobs/"))
	require.Equal(t, []string{"/documents/F001-1"}, f.guard.Routes())

	resp, err := http.Get(f.viewer.URL + view.PDFURL)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "%PDF", string(body))

	var reloaded documentsView
	f.getJSON(t, http.MethodGet, "/documents/F001-1", &reloaded)
	require.NotEqual(t, view.PDFURL, reloaded.PDFURL)
	require.Equal(t, 1, f.registry.Len())

	resp, err = http.Get(f.viewer.URL + view.PDFURL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewer_PartialBundle(t *testing.T) {
	f := setupTestFixture(t, false)

	var view documentsView
	status := f.getJSON(t, http.MethodGet, "/documents/F001-2", &view)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, view.PDFURL)
	require.Equal(t, []string{"xml", "cdr"}, view.Available)
}

func TestViewer_NoDocuments(t *testing.T) {
	f := setupTestFixture(t, true)

	var payload map[string]string
	status := f.getJSON(t, http.MethodGet, "/documents/MISSING", &payload)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "not_found", payload["error"])
}

func TestViewer_EmptyTicket(t *testing.T) {
	f := setupTestFixture(t, true)

	var payload map[string]string
	status := f.getJSON(t, http.MethodGet, "/documents/%20", &payload)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_request", payload["error"])
}

func TestViewer_Guarded(t *testing.T) {
	f := setupTestFixture(t, true)
	f.guard.setAllow(false)

	var payload map[string]string
	status := f.getJSON(t, http.MethodGet, "/documents/F001-3", &payload)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "unauthorized", payload["error"])
	require.Zero(t, f.registry.Len())

	status = f.getJSON(t, http.MethodPost, "/documents/F001-3/download", &payload)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, []string{"/documents/F001-3", "/documents/F001-3"}, f.guard.Routes())
}

func TestViewer_Download(t *testing.T) {
	f := setupTestFixture(t, true)

	var payload map[string][]string
	status := f.getJSON(t, http.MethodPost, "/documents/F001-4/download", &payload)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, payload["saved"], 3)

	data, err := os.ReadFile(filepath.Join(f.dir, "CDR_F001-4.xml"))
	require.NoError(t, err)
	require.Equal(t, "<CDR/>", string(data))
}

func TestViewer_Health(t *testing.T) {
	f := setupTestFixture(t, true)

	var payload map[string]string
	require.Equal(t, http.StatusOK, f.getJSON(t, http.MethodGet, "/health", &payload))
	require.Equal(t, "ok", payload["status"])
}

func TestChainMiddleware(t *testing.T) {
	var order []string
	tag := func(name string) server.Middleware {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}
	h := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }, tag("a"), tag("b"))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}

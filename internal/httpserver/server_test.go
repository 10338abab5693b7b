package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeController struct {
	snap       model.Snapshot
	navigated  []string
	suppressed []time.Duration
	err        error
}

func (f *fakeController) Snapshot() model.Snapshot { return f.snap }

func (f *fakeController) Navigate(id string) error {
	if f.err != nil {
		return f.err
	}
	if !f.snap.HasSection(id) {
		return fmt.Errorf("navigate to %q: %w", id, model.ErrNotFound)
	}
	f.navigated = append(f.navigated, id)
	return nil
}

func (f *fakeController) Suppress(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("suppress: %w", model.ErrInvalidArgument)
	}
	f.suppressed = append(f.suppressed, d)
	return nil
}

func newTestServer(t *testing.T) (*fakeController, *gin.Engine) {
	t.Helper()
	ctrl := &fakeController{snap: model.Snapshot{
		Title: "Guide",
		Sections: []model.Section{
			{ID: "intro", Label: "Introduction", Linked: true},
			{ID: "usage", Label: "Usage", Linked: true},
			{ID: "appendix", Label: "Appendix"},
		},
		Active:    "usage",
		HasActive: true,
	}}
	srv := NewServer("", ctrl, nil)
	srv.startTime = time.Now()
	return ctrl, srv.routes()
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := do(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	if body := decode(t, w); body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, r := newTestServer(t)

	w := do(r, http.MethodPost, "/api/health", "")
	// Gin returns 405 for method not allowed when a route exists but not for this method
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestSectionsEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := do(r, http.MethodGet, "/api/sections", "")
	if w.Code != http.StatusOK {
		t.Fatalf("sections status = %d", w.Code)
	}
	body := decode(t, w)
	sections, ok := body["sections"].([]interface{})
	if !ok || len(sections) != 3 {
		t.Fatalf("sections = %v", body["sections"])
	}
	last := sections[2].(map[string]interface{})
	if last["id"] != "appendix" || last["linked"] != false {
		t.Errorf("orphan section = %v", last)
	}
}

func TestActiveEndpoint(t *testing.T) {
	ctrl, r := newTestServer(t)

	body := decode(t, do(r, http.MethodGet, "/api/active", ""))
	if body["active"] != "usage" || body["suppressed"] != false {
		t.Errorf("active = %v", body)
	}

	ctrl.snap.HasActive = false
	ctrl.snap.Active = ""
	body = decode(t, do(r, http.MethodGet, "/api/active", ""))
	if v, ok := body["active"]; !ok || v != nil {
		t.Errorf("active without a section = %v, want null", body["active"])
	}
}

func TestNavigateEndpoint(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "known section", body: `{"id":"appendix"}`, want: http.StatusAccepted},
		{name: "unknown section", body: `{"id":"missing"}`, want: http.StatusNotFound},
		{name: "missing id", body: `{}`, want: http.StatusBadRequest},
		{name: "invalid json", body: `{`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, r := newTestServer(t)
			w := do(r, http.MethodPost, "/api/navigate", tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusAccepted && (len(ctrl.navigated) != 1 || ctrl.navigated[0] != "appendix") {
				t.Errorf("navigated = %v", ctrl.navigated)
			}
			if tt.want != http.StatusAccepted && len(ctrl.navigated) != 0 {
				t.Errorf("rejected request still navigated: %v", ctrl.navigated)
			}
		})
	}
}

func TestNavigateEndpoint_ReaderNotRunning(t *testing.T) {
	ctrl, r := newTestServer(t)
	ctrl.err = model.ErrUnavailable

	w := do(r, http.MethodPost, "/api/navigate", `{"id":"usage"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestSuppressEndpoint(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "positive", body: `{"duration_ms":250}`, want: http.StatusAccepted},
		{name: "zero lifts", body: `{"duration_ms":0}`, want: http.StatusAccepted},
		{name: "negative", body: `{"duration_ms":-1}`, want: http.StatusBadRequest},
		{name: "missing", body: `{}`, want: http.StatusBadRequest},
		{name: "longest", body: `{"duration_ms":9223372036854}`, want: http.StatusAccepted},
		{name: "overflow", body: `{"duration_ms":9223372036855}`, want: http.StatusBadRequest},
		{name: "max int64", body: `{"duration_ms":9223372036854775807}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, r := newTestServer(t)
			w := do(r, http.MethodPost, "/api/suppress", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusBadRequest && len(ctrl.suppressed) != 0 {
				t.Errorf("controller received %v for a rejected request", ctrl.suppressed)
			}
		})
	}
}

func TestServerStartStop(t *testing.T) {
	ctrl, _ := newTestServer(t)
	srv := NewServer("127.0.0.1:0", ctrl, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

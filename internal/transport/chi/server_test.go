package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/repository/entity"
	guideuc "github.com/indu-doc/tagdex/internal/usecase/guide"
	indexuc "github.com/indu-doc/tagdex/internal/usecase/index"
	searchuc "github.com/indu-doc/tagdex/internal/usecase/search"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	store := entity.NewStore()
	s := NewServer(
		indexuc.New(store),
		searchuc.New(store),
		guideuc.New(store),
		store,
		Limits{},
		zap.NewNop(),
	)
	return s, s.Router(nil)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestPutRecordAndSearch(t *testing.T) {
	_, h := newTestServer(t)

	rr := doRequest(t, h, "PUT", "/classes/targets/records/T1",
		`{"tag": "=A1-M2", "power": {"voltage": "24V"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put: got %d, body %s", rr.Code, rr.Body)
	}
	rr = doRequest(t, h, "PUT", "/classes/targets/records/T2",
		`{"tag": "=A1-M3", "power": {"voltage": "230V"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put: got %d, body %s", rr.Code, rr.Body)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"tag plus filter", "=A1 @power(voltage)=24", []string{"T1"}},
		{"param existence", "@power(voltage)", []string{"T1", "T2"}},
		{"no match", "=Z9", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, "GET", "/classes/targets/search?q="+urlQuery(tt.query), "")
			if rr.Code != http.StatusOK {
				t.Fatalf("search: got %d, body %s", rr.Code, rr.Body)
			}
			var resp struct {
				IDs   []string `json:"ids"`
				Count int      `json:"count"`
			}
			decodeBody(t, rr, &resp)
			if !reflect.DeepEqual(resp.IDs, tt.want) {
				t.Errorf("ids = %v, want %v", resp.IDs, tt.want)
			}
			if resp.Count != len(tt.want) {
				t.Errorf("count = %d, want %d", resp.Count, len(tt.want))
			}
		})
	}
}

func TestSearch_SyntaxError400(t *testing.T) {
	_, h := newTestServer(t)
	doRequest(t, h, "PUT", "/classes/targets/records/T1", `{"tag": "=A1"}`)

	rr := doRequest(t, h, "GET", "/classes/targets/search?q="+urlQuery("@a..b"), "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400; body %s", rr.Code, rr.Body)
	}
	var resp struct {
		Code     string `json:"code"`
		Fragment string `json:"fragment"`
	}
	decodeBody(t, rr, &resp)
	if resp.Code != codeQuerySyntax {
		t.Errorf("code = %s, want %s", resp.Code, codeQuerySyntax)
	}
	if resp.Fragment == "" {
		t.Error("expected offending fragment in response")
	}
}

func TestSearch_UnknownClass404(t *testing.T) {
	_, h := newTestServer(t)
	rr := doRequest(t, h, "GET", "/classes/ghosts/search?q=", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404; body %s", rr.Code, rr.Body)
	}
}

func TestPostRecords_Batch(t *testing.T) {
	_, h := newTestServer(t)

	rr := doRequest(t, h, "POST", "/classes/targets/records",
		`[{"id": "T1", "record": {"n": 1}}, {"id": "T2", "record": {"n": 2}}]`)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, body %s", rr.Code, rr.Body)
	}
	var resp struct {
		Stored int `json:"stored"`
	}
	decodeBody(t, rr, &resp)
	if resp.Stored != 2 {
		t.Errorf("stored = %d, want 2", resp.Stored)
	}
}

func TestPostRecords_EmptyBatch400(t *testing.T) {
	_, h := newTestServer(t)
	rr := doRequest(t, h, "POST", "/classes/targets/records", `[]`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rr.Code)
	}
}

func TestPostRecords_MissingID400(t *testing.T) {
	_, h := newTestServer(t)
	rr := doRequest(t, h, "POST", "/classes/targets/records",
		`[{"id": "", "record": {"n": 1}}]`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400; body %s", rr.Code, rr.Body)
	}
}

func TestGuide(t *testing.T) {
	_, h := newTestServer(t)
	doRequest(t, h, "PUT", "/classes/targets/records/T1",
		`{"power": {"voltage": "24V"}}`)

	rr := doRequest(t, h, "GET", "/classes/targets/guide", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, body %s", rr.Code, rr.Body)
	}
	var tree map[string]any
	decodeBody(t, rr, &tree)
	power, ok := tree["power"].(map[string]any)
	if !ok {
		t.Fatalf("expected power node, got %v", tree)
	}
	if _, ok := power["voltage"]; !ok {
		t.Errorf("expected voltage under power, got %v", power)
	}
}

func TestDropClass(t *testing.T) {
	_, h := newTestServer(t)
	doRequest(t, h, "PUT", "/classes/targets/records/T1", `{"n": 1}`)

	rr := doRequest(t, h, "DELETE", "/classes/targets", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("drop: got %d, want 204", rr.Code)
	}
	rr = doRequest(t, h, "DELETE", "/classes/targets", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("second drop: got %d, want 404", rr.Code)
	}
}

func TestListClasses(t *testing.T) {
	_, h := newTestServer(t)
	doRequest(t, h, "PUT", "/classes/targets/records/T1", `{"n": 1}`)
	doRequest(t, h, "PUT", "/classes/connections/records/C1", `{"n": 1}`)

	rr := doRequest(t, h, "GET", "/classes", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, body %s", rr.Code, rr.Body)
	}
	var resp struct {
		Classes []struct {
			Name    string `json:"name"`
			Records int    `json:"records"`
		} `json:"classes"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Classes) != 2 {
		t.Fatalf("classes = %v, want 2 entries", resp.Classes)
	}
	// Classes come back sorted.
	if resp.Classes[0].Name != "connections" || resp.Classes[1].Name != "targets" {
		t.Errorf("unexpected order: %v", resp.Classes)
	}
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)
	rr := doRequest(t, h, "GET", "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rr.Code)
	}
}

func TestPutRecord_InvalidBody400(t *testing.T) {
	_, h := newTestServer(t)
	rr := doRequest(t, h, "PUT", "/classes/targets/records/T1", `{{{`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rr.Code)
	}
}

func urlQuery(q string) string {
	return url.QueryEscape(q)
}

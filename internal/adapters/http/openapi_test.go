package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoadOpenAPIDocumentIsValidJSON(t *testing.T) {
	raw, err := LoadOpenAPIDocument()
	if err != nil {
		t.Fatalf("LoadOpenAPIDocument() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("rendered document is not JSON: %v", err)
	}
	if doc["openapi"] == "" {
		t.Fatalf("missing openapi version field")
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatalf("missing paths object")
	}
	for _, path := range []string{"/v1/documents", "/v1/tickets", "/v1/chat"} {
		if _, ok := paths[path]; !ok {
			t.Fatalf("path %s missing from document", path)
		}
	}
}

func TestOpenAPIEndpointServesDocument(t *testing.T) {
	raw, err := LoadOpenAPIDocument()
	if err != nil {
		t.Fatalf("LoadOpenAPIDocument() error = %v", err)
	}

	rt := NewRouter(Deps{OpenAPIDoc: raw})
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := res.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
}

func TestOpenAPIEndpointWithoutDocumentIs404(t *testing.T) {
	rt := NewRouter(Deps{})
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

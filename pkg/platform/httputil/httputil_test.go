package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	dErrors "revloop/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal" {
			t.Fatalf("expected error code internal, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})

	t.Run("not started maps to precondition failed", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeNotStarted, "no loop"))

		if w.Code != http.StatusPreconditionFailed {
			t.Fatalf("expected status %d, got %d", http.StatusPreconditionFailed, w.Code)
		}
	})
}

type decodeProbe struct {
	Name string `json:"name"`
}

func (d decodeProbe) Validate() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	return nil
}

func TestDecode(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("valid body decodes", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))

		req, ok := Decode[decodeProbe](w, r, logger)
		if !ok {
			t.Fatalf("expected decode to succeed")
		}
		if req.Name != "x" {
			t.Fatalf("expected name x, got %q", req.Name)
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

		if _, ok := Decode[decodeProbe](w, r, logger); ok {
			t.Fatalf("expected decode to fail")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("unknown field is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","bogus":1}`))

		if _, ok := Decode[decodeProbe](w, r, logger); ok {
			t.Fatalf("expected decode to fail")
		}
	})

	t.Run("failed validation surfaces the domain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

		if _, ok := Decode[decodeProbe](w, r, logger); ok {
			t.Fatalf("expected decode to fail")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "invalid_input" {
			t.Fatalf("expected error code invalid_input, got %q", body["error"])
		}
	})
}

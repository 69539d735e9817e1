package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apiinternal "github.com/janisto/roastlog/internal/api"
	appmiddleware "github.com/janisto/roastlog/internal/middleware"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiinternal.Envelope[struct{}] {
	t.Helper()
	var env apiinternal.Envelope[struct{}]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

func TestWriteSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	env := apiinternal.NewSuccessEnvelope(nil, struct{}{})
	if err := Write(rec, http.StatusOK, env); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestWriteErrorProducesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	issues := []apiinternal.FieldIssue{{Field: "name", Issue: "required"}}
	err := WriteError(rec, context.Background(), http.StatusUnprocessableEntity,
		"VALIDATION_FAILED", "validation failed", issues, errors.New("boom"))
	if err != nil {
		t.Fatalf("write error failed: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil {
		t.Fatal("expected error body")
	}
	if env.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("unexpected code: %s", env.Error.Code)
	}
	if len(env.Error.Details) != 1 || env.Error.Details[0].Issue != "required" {
		t.Fatalf("unexpected details: %+v", env.Error.Details)
	}
}

func testRouter() *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		Recoverer(),
	)
	router.Get("/", func(http.ResponseWriter, *http.Request) {})
	router.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return router
}

func TestNotFoundHandlerEmitsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != codeNotFound {
		t.Fatalf("unexpected envelope: %+v", env.Error)
	}
}

func TestMethodNotAllowedHandlerEmitsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow == "" {
		t.Fatal("expected Allow header")
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != codeMethodNotAllowed {
		t.Fatalf("unexpected envelope: %+v", env.Error)
	}
}

func TestRecovererConvertsPanicTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != codeInternalServerErr {
		t.Fatalf("unexpected envelope: %+v", env.Error)
	}
	if env.Error.Message != msgInternalServerErr {
		t.Fatalf("panic detail must not leak, got %q", env.Error.Message)
	}
}

func TestMapDomainError(t *testing.T) {
	notFound := errors.New("roast not found")

	err := MapDomainError(notFound, notFound, "roast not found")
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) || statusErr.GetStatus() != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}

	err = MapDomainError(errors.New("disk on fire"), notFound, "roast not found")
	if !errors.As(err, &statusErr) || statusErr.GetStatus() != http.StatusInternalServerError {
		t.Fatalf("expected 500 status error, got %v", err)
	}
}

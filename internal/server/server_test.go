package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubAnswerer struct {
	answer    string
	condensed string
	err       error
}

func (s *stubAnswerer) Answer(ctx context.Context, subject, body, identity string) (string, error) {
	return s.answer, s.err
}

func (s *stubAnswerer) Condense(ctx context.Context, answer string) (string, error) {
	return s.condensed, s.err
}

func post(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnswer_OK(t *testing.T) {
	srv := New(&stubAnswerer{answer: "حداقل واریز ۱۰ دلار است."}, ":0")
	rec := post(t, srv.Handler(), `{"subject":"واریز","body":"حداقل چقدره؟","user_id":"42"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp answerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "حداقل واریز ۱۰ دلار است." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestHandleAnswer_Condense(t *testing.T) {
	srv := New(&stubAnswerer{answer: "long", condensed: "short"}, ":0")
	rec := post(t, srv.Handler(), `{"subject":"s","body":"b","user_id":"42","condense":true}`)

	var resp answerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "short" {
		t.Errorf("answer = %q, want condensed form", resp.Answer)
	}
}

func TestHandleAnswer_ValidatesRequest(t *testing.T) {
	srv := New(&stubAnswerer{answer: "x"}, ":0")
	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"subject":"s","body":"b"}`},
		{"empty ticket", `{"user_id":"42"}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := post(t, srv.Handler(), tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleAnswer_PipelineFailureIs502(t *testing.T) {
	srv := New(&stubAnswerer{err: errors.New("generation failed")}, ":0")
	rec := post(t, srv.Handler(), `{"subject":"s","body":"b","user_id":"42"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "generation failed") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestHandleAnswer_MethodNotAllowed(t *testing.T) {
	srv := New(&stubAnswerer{}, ":0")
	req := httptest.NewRequest(http.MethodGet, "/api/answer", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := New(&stubAnswerer{}, ":0")
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

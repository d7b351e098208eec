package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"clearn/backend/internal/devotp"
)

func newRouter(store devotp.Store) http.Handler {
	r := chi.NewRouter()
	New(store).Register(r)
	return r
}

func TestGetOTP_Found(t *testing.T) {
	store := devotp.NewMemoryStore()
	store.Put(context.Background(), "ada@example.com", "A1B2C3", time.Now().UTC().Add(time.Minute))

	rec := httptest.NewRecorder()
	newRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev/signup/otp?email=Ada@Example.com", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body otpResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || body.OTP != "A1B2C3" || body.Note != devOTPNote {
		t.Errorf("body = %+v", body)
	}
}

func TestGetOTP_MissingEmail(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(devotp.NewMemoryStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev/signup/otp", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetOTP_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(devotp.NewMemoryStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev/signup/otp?email=x@y.co", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

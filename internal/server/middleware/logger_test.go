package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := ClientIP(RequestLogger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["method"] != "POST" || line["path"] != "/login" {
		t.Errorf("method/path = %v %v", line["method"], line["path"])
	}
	if line["status"] != float64(http.StatusTeapot) {
		t.Errorf("status = %v, want %d", line["status"], http.StatusTeapot)
	}
	if line["bytes"] != float64(len("short and stout")) {
		t.Errorf("bytes = %v", line["bytes"])
	}
	if line["client_ip"] != "198.51.100.2" {
		t.Errorf("client_ip = %v", line["client_ip"])
	}
}

// Package httpjson writes the {ok, message, ...} JSON envelopes shared by every HTTP handler.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// ErrBadBody is returned by Decode for empty, oversized or malformed JSON bodies.
var ErrBadBody = errors.New("invalid request body")

// Message is the envelope for responses that carry only a status message.
type Message struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {ok:true, message} with status 200.
func OK(w http.ResponseWriter, message string) {
	Write(w, http.StatusOK, Message{OK: true, Message: message})
}

// Fail writes {ok:false, message} with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	Write(w, status, Message{OK: false, Message: message})
}

// Decode reads a single JSON object from r's body into v.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrBadBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return ErrBadBody
	}
	return nil
}

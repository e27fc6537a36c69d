package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// serverHeader identifies the gateway in every response.
const serverHeader = "feedgate"

// payloadKind discriminates the data variant of the envelope.
type payloadKind int

const (
	payloadNone payloadKind = iota
	payloadSingle
	payloadMultiple
)

// Payload is the tagged data union of the response envelope: one
// record, a collection, or nothing. None serialises as JSON null.
type Payload struct {
	kind  payloadKind
	value any
}

// Single wraps one record.
func Single(v any) Payload {
	return Payload{kind: payloadSingle, value: v}
}

// Multiple wraps a collection. v should be a slice.
func Multiple(v any) Payload {
	return Payload{kind: payloadMultiple, value: v}
}

// None is the empty payload.
func None() Payload {
	return Payload{kind: payloadNone}
}

// MarshalJSON renders the variant without an outer tag.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.kind == payloadNone {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// envelope is the standard response shape on every route.
type envelope struct {
	Message string  `json:"message"`
	Data    Payload `json:"data"`
}

// bufferPool recycles serialization buffers across requests. A buffer
// is held by exactly one in-flight response and reset, not
// reallocated, between uses.
var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// respond serialises the envelope and writes the terminal response.
//
// All payload types are statically known, so a serialization failure
// is a programmer error: respond panics and the recovery middleware
// turns it into a 500. The buffer is written out before being pooled
// again, so it is never shared across in-flight responses.
func respond(w http.ResponseWriter, status int, message string, data Payload) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(buf)
	buf.Reset()

	if err := json.NewEncoder(buf).Encode(envelope{Message: message, Data: data}); err != nil {
		panic(fmt.Sprintf("encoding response envelope: %v", err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Server", serverHeader)
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client disconnect is not recoverable here
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apierr classifies the outcome of a document service call.
//
// Every component that talks to the service funnels the HTTP status, the
// response body and any transport error through Classify, so the same
// failure always produces the same kind and the same user-facing message.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// =============================================================================
// KINDS
// =============================================================================

// Kind is the classification of a service outcome.
type Kind int

const (
	// KindNone means the call succeeded with a decodable (or empty) body.
	KindNone Kind = iota
	// KindNetwork means no response was obtained.
	KindNetwork
	// KindRateLimited is HTTP 429 or a proxied quota error.
	KindRateLimited
	// KindPayloadTooLarge is HTTP 413.
	KindPayloadTooLarge
	// KindValidation is HTTP 400.
	KindValidation
	// KindServer is any other non-2xx status, or a success body of the wrong shape.
	KindServer
	// KindDecodeAnomaly is a 2xx response whose body is not JSON. Not fatal.
	KindDecodeAnomaly
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network_error"
	case KindRateLimited:
		return "rate_limited"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindValidation:
		return "validation_error"
	case KindServer:
		return "server_error"
	case KindDecodeAnomaly:
		return "decode_anomaly"
	default:
		return "unknown"
	}
}

// Default messages shown when the service does not provide one.
const (
	MsgNetwork         = "Error de conexión con el servidor."
	MsgRateLimited     = "Límite de la API alcanzado. Intente más tarde."
	MsgPayloadTooLarge = "El archivo es demasiado grande. Tamaño máximo: 10 MB"
	MsgValidation      = "Solicitud inválida"
	msgServerFormat    = "Error del servidor (HTTP %d)"
)

// Error variables for each failure kind, usable with errors.Is.
var (
	ErrNetwork         = errors.New("network error")
	ErrRateLimited     = errors.New("rate limited")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrValidation      = errors.New("validation error")
	ErrServer          = errors.New("server error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindRateLimited:
		return ErrRateLimited
	case KindPayloadTooLarge:
		return ErrPayloadTooLarge
	case KindValidation:
		return ErrValidation
	case KindServer:
		return ErrServer
	default:
		return nil
	}
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is a classified service failure.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Unwrap returns the transport error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Server builds a KindServer error for a success response that lacks the
// expected field.
func Server(message string) *Error {
	return &Error{Kind: KindServer, Status: http.StatusOK, Message: message}
}

// Message returns the user-facing message of err. Errors that were not
// classified fall back to the network message.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return MsgNetwork
}

// KindOf returns the kind of err, or KindNone when err is nil or unclassified.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNone
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Outcome is the classified result of one service call.
type Outcome struct {
	Kind Kind
	// Message is the user-facing text for failures.
	Message string
	// Detail is the message supplied by the service, empty when a default was used.
	Detail string
	Status int
	// Payload is the decodable JSON body. For a KindDecodeAnomaly it is the
	// raw text wrapped as {"raw": "..."}.
	Payload []byte
	Cause   error
}

// OK reports whether the outcome is a success (including a decode anomaly).
func (o *Outcome) OK() bool {
	return o.Kind == KindNone || o.Kind == KindDecodeAnomaly
}

// Err returns the outcome as an *Error, or nil on success.
func (o *Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &Error{Kind: o.Kind, Status: o.Status, Message: o.Message, Cause: o.Cause}
}

// Classify maps a service outcome to a Kind. Rules apply in priority order:
// transport failure, 429, 413, 400, other non-2xx, then success bodies.
func Classify(status int, payload []byte, transportErr error) *Outcome {
	if transportErr != nil {
		return &Outcome{Kind: KindNetwork, Message: MsgNetwork, Cause: transportErr}
	}

	out := &Outcome{Status: status}
	valid := len(payload) > 0 && gjson.ValidBytes(payload)
	field := func(paths ...string) string {
		if !valid {
			return ""
		}
		return firstString(payload, paths...)
	}

	switch {
	case status == http.StatusTooManyRequests:
		out.Kind = KindRateLimited
		out.Detail = field("detail", "error.message")
		out.Message = orDefault(out.Detail, MsgRateLimited)
	case status == http.StatusRequestEntityTooLarge:
		out.Kind = KindPayloadTooLarge
		out.Message = MsgPayloadTooLarge
	case status == http.StatusBadRequest:
		out.Kind = KindValidation
		out.Detail = field("detail")
		out.Message = orDefault(out.Detail, MsgValidation)
	case status < 200 || status > 299:
		out.Kind = KindServer
		out.Detail = field("detail", "message", "error.message")
		out.Message = orDefault(out.Detail, fmt.Sprintf(msgServerFormat, status))
	case len(strings.TrimSpace(string(payload))) == 0:
		out.Kind = KindNone
	case !valid:
		out.Kind = KindDecodeAnomaly
		out.Payload = wrapRaw(payload)
	case gjson.GetBytes(payload, "error.code").Int() == http.StatusTooManyRequests:
		out.Kind = KindRateLimited
		out.Detail = field("error.message")
		out.Message = orDefault(out.Detail, MsgRateLimited)
	default:
		out.Kind = KindNone
		out.Payload = payload
	}

	if !out.OK() && valid {
		out.Payload = payload
	}
	return out
}

// firstString returns the first non-empty string value among paths.
func firstString(payload []byte, paths ...string) string {
	for _, p := range paths {
		res := gjson.GetBytes(payload, p)
		if res.Type == gjson.String && strings.TrimSpace(res.Str) != "" {
			return res.Str
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func wrapRaw(payload []byte) []byte {
	wrapped, err := json.Marshal(map[string]string{"raw": string(payload)})
	if err != nil {
		return []byte(`{"raw":""}`)
	}
	return wrapped
}

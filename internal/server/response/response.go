// Package response provides HTTP response helpers for the planets API.
// Successful responses carry the resource itself as JSON; failures carry a
// {"message", "code"} object with a status derived from the error kind.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/planets/pkg/errors"
)

// Error is the body written for every failed request.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Message is the body written for successful writes.
type Message struct {
	Msg string `json:"msg"`
}

// Distance is the body written for distance queries.
type Distance struct {
	Distance float64 `json:"distance"`
}

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(v)
}

// Text writes a plain text body with 200 status.
func Text(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// OK writes v with 200 status.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Created writes a {"msg"} body with 201 status.
func Created(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusCreated, Message{Msg: msg})
}

// Done writes a {"msg"} body with 200 status.
func Done(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Message{Msg: msg})
}

// Fail writes an error body with the given status.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Error{Message: message, Code: code})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, "NOT_FOUND", message)
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	Fail(w, http.StatusTooManyRequests, "RATE_LIMITED", message)
}

// InternalError writes a 500 error response. The cause is not exposed.
func InternalError(w http.ResponseWriter, _ error) {
	Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Fail(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsAlreadyExists(err), errors.IsInvalidData(err), errors.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorFromType maps typed errors to appropriate HTTP responses.
func ErrorFromType(w http.ResponseWriter, err error) {
	switch {
	case errors.IsNotFound(err):
		NotFound(w, err.Error())
	case errors.IsAlreadyExists(err):
		Fail(w, http.StatusBadRequest, "ALREADY_EXISTS", err.Error())
	case errors.IsInvalidData(err):
		Fail(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
	case errors.IsInvalidInput(err):
		Fail(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		InternalError(w, err)
	}
}

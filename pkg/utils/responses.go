package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

type Response struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Data    any           `json:"data,omitempty"`
	Meta    any           `json:"meta,omitempty"`
	Errors  []ErrorObject `json:"errors,omitempty"`
}

// ErrorObject follows the JSON:API error object members clients read.
type ErrorObject struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail"`
}

// StatusError is implemented by errors that carry their own HTTP mapping.
type StatusError interface {
	error
	StatusCode() int
	ErrorCode() string
	Title() string
	Detail() string
}

// WriteJSON writes payload as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// ResponseJSON writes the standard envelope with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, meta any, errs []ErrorObject) {
	WriteJSON(w, code, Response{
		Status:  status,
		Message: message,
		Data:    data,
		Meta:    meta,
		Errors:  errs,
	})
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil, nil)
}

// returns 200 OK with pagination meta
func ResponseCollection(w http.ResponseWriter, message string, data, meta any) {
	ResponseJSON(w, http.StatusOK, true, message, data, meta, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, payload any) {
	WriteJSON(w, http.StatusCreated, payload)
}

// returns 204 No Content
func ResponseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ------------- Error responses -------------

func responseFailure(w http.ResponseWriter, code int, errCode, title, detail string) {
	ResponseJSON(w, code, false, detail, nil, nil, []ErrorObject{{
		Status: strconv.Itoa(code),
		Code:   errCode,
		Title:  title,
		Detail: detail,
	}})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, detail string) {
	responseFailure(w, http.StatusBadRequest, "invalid_request", "Bad Request", detail)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, detail string) {
	responseFailure(w, http.StatusInternalServerError, "internal_error", "Internal Server Error", detail)
}

// ResponseError writes err using its own mapping when it has one. Anything
// else is reported as an internal error without leaking the message.
func ResponseError(w http.ResponseWriter, err error) {
	var se StatusError
	if errors.As(err, &se) {
		responseFailure(w, se.StatusCode(), se.ErrorCode(), se.Title(), se.Detail())
		return
	}
	ResponseInternalError(w, "Internal server error")
}

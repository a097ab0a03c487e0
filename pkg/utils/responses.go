package utils

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Total      *int64 `json:"total,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Query      string `json:"query,omitempty"`
	Data       any    `json:"data,omitempty"`
	Errors     any    `json:"errors,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

// ResponseJSON writes the envelope with a custom status code
func ResponseJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// ResponseList returns 200 OK with count/total/pagination alongside data.
// total is omitted when negative.
func ResponseList(w http.ResponseWriter, data any, count int, total int64, pagination any, query string) {
	resp := Response{
		Success:    true,
		Count:      &count,
		Pagination: pagination,
		Query:      query,
		Data:       data,
	}
	if total >= 0 {
		resp.Total = &total
	}
	ResponseJSON(w, http.StatusOK, resp)
}

// ------------- Error responses -------------

// ResponseError writes a failure envelope
func ResponseError(w http.ResponseWriter, code int, message string, errors any) {
	ResponseJSON(w, code, Response{Success: false, Message: message, Errors: errors})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, message, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message, nil)
}

// returns 429 Too Many Requests
func ResponseTooManyRequests(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusTooManyRequests, message, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message, nil)
}

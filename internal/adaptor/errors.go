package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime/debug"

	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"go.uber.org/zap"
)

// responder carries what every handler needs to turn errors into envelopes.
type responder struct {
	log        *zap.Logger
	production bool
}

// handleServiceError is the single place where errors become HTTP responses.
func (h responder) handleServiceError(w http.ResponseWriter, err error, operation string) {
	appErr, ok := utils.AsAppError(err)
	if !ok {
		appErr, ok = utils.FromPgError(err)
	}
	if !ok {
		appErr, ok = tokenError(err)
	}

	if !ok {
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		resp := utils.Response{Success: false, Message: "Server Error"}
		if !h.production {
			resp.Stack = string(debug.Stack())
		}
		utils.ResponseJSON(w, http.StatusInternalServerError, resp)
		return
	}

	status := appErr.Kind.Status()
	if status >= http.StatusInternalServerError {
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	} else {
		h.log.Warn(operation+" failed", zap.Error(err), zap.Int("status", status))
	}

	resp := utils.Response{Success: false, Message: appErr.Message}
	if len(appErr.Fields) > 0 {
		resp.Errors = appErr.Fields
	}
	if status >= http.StatusInternalServerError && !h.production {
		resp.Stack = string(debug.Stack())
	}
	utils.ResponseJSON(w, status, resp)
}

func tokenError(err error) (*utils.AppError, bool) {
	switch {
	case errors.Is(err, utils.ErrTokenExpired):
		return utils.NewUnauthorized("Token expired"), true
	case errors.Is(err, utils.ErrTokenInvalid):
		return utils.NewUnauthorized("Invalid token"), true
	}
	return nil, false
}

// decodeJSON reads the body into dst, answering 400 or 413 itself on failure.
func (h responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		utils.ResponseError(w, http.StatusRequestEntityTooLarge, "Request entity too large", nil)
	case errors.Is(err, io.EOF):
		utils.ResponseBadRequest(w, "Request body is required", nil)
	default:
		utils.ResponseBadRequest(w, "Invalid request body", nil)
	}
	return false
}

// validate answers 400 with every failing field when data is invalid.
func (h responder) validate(w http.ResponseWriter, data any, location string) bool {
	return h.reject(w, utils.ValidateStruct(data, location))
}

// validateID answers 400 "Invalid ID format" unless value is a UUID.
func (h responder) validateID(w http.ResponseWriter, field, value string) bool {
	if fe := utils.ValidateID(field, value); fe != nil {
		return h.reject(w, []utils.FieldError{*fe})
	}
	return true
}

func (h responder) reject(w http.ResponseWriter, fields []utils.FieldError) bool {
	if len(fields) == 0 {
		return true
	}
	h.handleServiceError(w, utils.NewValidationFailed(fields), "validate request")
	return false
}

func callerFromRequest(r *http.Request) (usecase.Caller, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Caller{}, false
	}
	username, _ := utils.GetUsernameFromContext(r.Context())
	return usecase.Caller{ID: id, Username: username}, true
}

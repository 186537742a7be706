package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"movemate-admin/internal/auth"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	var res errorResponse
	res.Error.Code = code
	res.Error.Message = msg
	writeJSON(w, status, res)
}

// writeValidation reports every failed field at once. The top-level message
// is the first failure.
func writeValidation(w http.ResponseWriter, errs []*auth.ValidationError) {
	var res errorResponse
	res.Error.Code = "validation_failed"
	res.Error.Message = errs[0].Message
	res.Error.Fields = make(map[string]string, len(errs))
	for _, e := range errs {
		res.Error.Fields[e.Field] = e.Message
	}
	writeJSON(w, http.StatusBadRequest, res)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return false
	}
	return true
}

func statusFor(err error) int {
	var ve *auth.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrNoAccount):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrNoSecurityQuestion), errors.Is(err, auth.ErrIncorrectAnswer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// collect drops nil results from the auth validators.
func collect(errs ...*auth.ValidationError) []*auth.ValidationError {
	var out []*auth.ValidationError
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

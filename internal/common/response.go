package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

const redactedInternalMessage = "Something went wrong. Please try again later."

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// ErrorResponder turns service errors into `{error: ...}` bodies. Internal
// failures are always logged in full; their text only reaches the client when
// Verbose is set (development mode).
type ErrorResponder struct {
	Log     logrus.FieldLogger
	Verbose bool
}

func (e ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		e.Log.WithError(err).WithFields(logrus.Fields{
			"http.req.method": r.Method,
			"http.req.path":   r.URL.Path,
		}).Error("request failed")
		if e.Verbose {
			RespondWithError(w, status, err.Error())
			return
		}
		RespondWithError(w, status, redactedInternalMessage)
		return
	}
	RespondWithError(w, status, clientMessage(status, err))
}

func clientMessage(status int, err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Duplicate field value. This value already exists."
	}
	return err.Error()
}

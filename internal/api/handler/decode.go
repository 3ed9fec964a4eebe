package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mini_one/internal/common"
)

// decodeJSON reads the request body into dst. Malformed and oversized bodies
// are both client errors.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewError(common.ErrBadRequest, "Request body too large")
		}
		return common.NewError(common.ErrBadRequest, "Invalid request payload")
	}
	return nil
}

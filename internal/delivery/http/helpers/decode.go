package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// MsgInvalidBody is returned for bodies that are not a JSON object.
const MsgInvalidBody = "Invalid JSON body."

// DecodeJSON decodes the request body into dest. An empty body leaves dest unchanged so
// that field validation reports what is missing. On failure it writes a 400 JSON error
// and returns false; callers should return immediately.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return false
		}
		WriteJSONError(w, http.StatusBadRequest, MsgInvalidBody)
		return false
	}
	return true
}

package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Error messages sent to clients. Routes differ in wording and punctuation
// and clients match on the exact text.
const (
	msgPostsRetrieve    = "The posts information could not be retrieved."
	msgPostRetrieve     = "The posts information could not be retrieved"
	msgCommentsRetrieve = "The comments information could not be retrieved"
	msgPostNotFound     = "The post with the specified ID does not exist."
	msgPostNotFoundAlt  = "The post with the specified ID does not exist"
	msgPostRequired     = "Please provide title and contents for the post."
	msgPostRequiredAlt  = "Please provide title and contents for the post"
	msgPostSave         = "There was an error while saving the post to the database"
	msgTextRequired     = "Please provide text for the comment"
	msgCommentSave      = "There was an error while saving the comment to the database."
	msgPostModify       = "The post information could not be modified."
	msgPostRemove       = "The post could not be removed"
)

// maxBodyBytes bounds request bodies read by the JSON routes.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

func sendJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}

func sendRaw(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}

func sendError(w http.ResponseWriter, r *http.Request, status int, message string) {
	sendJSON(w, r, status, ErrorResponse{ErrorMessage: message})
}

// readBody returns the request body, capped at maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// decodeBody reads the body into v. Bodies that are not JSON objects, or
// carry fields of the wrong type, fail.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) ([]byte, error) {
	raw, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return raw, nil
}

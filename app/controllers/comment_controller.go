package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"postsapi/app/models"
	"postsapi/app/services"
)

// CommentController handles HTTP requests for the comments of a post
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// Index lists the comments of the post with the path id
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	comments, err := cc.commentService.ListPostComments(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		sendError(w, r, http.StatusNotFound, msgPostNotFound)
	case err != nil:
		sendError(w, r, http.StatusInternalServerError, msgCommentsRetrieve)
	default:
		sendJSON(w, r, http.StatusOK, comments)
	}
}

// Create adds a comment to the post with the path id and echoes the
// request body on success
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	raw, err := decodeBody(w, r, &in)
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("unreadable comment body")
		sendError(w, r, http.StatusBadRequest, msgTextRequired)
		return
	}

	err = cc.commentService.CreateComment(r.Context(), mux.Vars(r)["id"], &in)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, r, http.StatusBadRequest, msgTextRequired)
	case errors.Is(err, services.ErrPostNotFound):
		sendError(w, r, http.StatusNotFound, msgPostNotFound)
	case err != nil:
		sendError(w, r, http.StatusInternalServerError, msgCommentSave)
	default:
		sendRaw(w, r, http.StatusCreated, raw)
	}
}

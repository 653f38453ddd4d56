package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"postsapi/app/models"
	"postsapi/app/services"
)

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// Index lists every post
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		sendError(w, r, http.StatusInternalServerError, msgPostsRetrieve)
		return
	}
	sendJSON(w, r, http.StatusOK, posts)
}

// Show returns the post with the path id, wrapped in an array
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.GetPost(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		sendError(w, r, http.StatusNotFound, msgPostNotFound)
	case err != nil:
		sendError(w, r, http.StatusInternalServerError, msgPostRetrieve)
	default:
		sendJSON(w, r, http.StatusOK, posts)
	}
}

// Create saves a new post and echoes its title and contents
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if _, err := decodeBody(w, r, &in); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("unreadable post body")
		sendError(w, r, http.StatusBadRequest, msgPostRequired)
		return
	}

	created, err := pc.postService.CreatePost(r.Context(), &in)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, r, http.StatusBadRequest, msgPostRequired)
	case err != nil:
		sendError(w, r, http.StatusInternalServerError, msgPostSave)
	default:
		sendJSON(w, r, http.StatusCreated, created)
	}
}

// Update replaces title and contents of the post with the path id
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if _, err := decodeBody(w, r, &in); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("unreadable post body")
		sendError(w, r, http.StatusBadRequest, msgPostRequiredAlt)
		return
	}

	posts, err := pc.postService.UpdatePost(r.Context(), mux.Vars(r)["id"], &in)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, r, http.StatusBadRequest, msgPostRequiredAlt)
	case errors.Is(err, services.ErrPostNotFound):
		sendError(w, r, http.StatusNotFound, msgPostNotFoundAlt)
	case err != nil:
		sendError(w, r, http.StatusInternalServerError, msgPostModify)
	default:
		sendJSON(w, r, http.StatusOK, posts)
	}
}

// Delete removes the post with the path id and returns it as it was
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.DeletePost(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		sendError(w, r, http.StatusNotFound, msgPostNotFoundAlt)
	case err != nil:
		sendError(w, r, http.StatusInternalServerError, msgPostRemove)
	default:
		sendJSON(w, r, http.StatusOK, posts)
	}
}

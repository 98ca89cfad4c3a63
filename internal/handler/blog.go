package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/donation-hub/internal/service"
)

// BlogHandler serves /api/blogs. Every route requires authentication.
type BlogHandler struct {
	blogs  *service.BlogService
	logger *slog.Logger
}

func NewBlogHandler(blogs *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blogs: blogs, logger: logger}
}

// HandleList: GET /api/blogs
func (h *BlogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// HandleGet: GET /api/blogs/{id}
func (h *BlogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// HandleCreate: POST /api/blogs, admins only. Responds with every blog.
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	blogs, err := h.blogs.Create(r.Context(), id, req.Image, req.Text, req.Heading)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// HandleDelete: DELETE /api/blogs/{id}, admins only.
func (h *BlogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	blogs, err := h.blogs.Delete(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// HandleLike: PUT /api/blogs/like/{id}. Responds with the like list.
func (h *BlogHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	likes, err := h.blogs.Like(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

// HandleUnlike: PUT /api/blogs/unlike/{id}
func (h *BlogHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	likes, err := h.blogs.Unlike(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

// HandleComment: POST /api/blogs/comment/{id}. Responds with the comment list.
func (h *BlogHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	comments, err := h.blogs.Comment(r.Context(), id, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleDeleteComment: DELETE /api/blogs/comment/{id}/{commentID}
func (h *BlogHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	comments, err := h.blogs.DeleteComment(r.Context(), id, chi.URLParam(r, "id"), chi.URLParam(r, "commentID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

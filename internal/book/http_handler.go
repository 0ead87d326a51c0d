package book

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"booklist/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type AddBookReq struct {
	Title    string  `json:"title" validate:"required,notblank,max=500"`
	Author   *string `json:"author" validate:"omitempty,max=300"`
	CoverURL *string `json:"cover_url" validate:"omitempty,max=2048,url|eq="`
	OLKey    *string `json:"ol_key" validate:"omitempty,max=128"`
}

// List handles GET /api/books
// @Summary List every book, newest first
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list books")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, books)
}

// Add handles POST /api/books
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body AddBookReq true "Book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddBookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	b, err := h.service.Add(r.Context(), NewBook{
		Title:    req.Title,
		Author:   req.Author,
		CoverURL: req.CoverURL,
		OLKey:    req.OLKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book with this ol_key already exists", nil)
		case errors.Is(err, ErrInvalid):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
				{Field: "title", Message: "title is required"},
			})
		default:
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("add book")
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("book_id", b.ID).Msg("book added")
	httpx.JSONSuccessCreated(w, b)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete a book
// @Tags books
// @Security Bearer
// @Param id path string true "Book id"
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("book_id", id).Msg("delete book")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("book_id", id).Msg("book deleted")
	httpx.JSONSuccessNoContent(w)
}

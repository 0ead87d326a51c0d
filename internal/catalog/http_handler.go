package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"booklist/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Search handles GET /api/catalog/search
// @Summary Search Open Library for books to add
// @Tags catalog
// @Produce json
// @Param q query string true "Search terms"
// @Param limit query int false "Max results (default 8, max 20)"
// @Success 200 {array} Draft
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /api/catalog/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	drafts, err := h.service.Search(r.Context(), query.Get("q"), limit)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
				{Field: "q", Message: "q is required"},
			})
			return
		}
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("catalog search failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Catalog lookup failed", nil)
		return
	}

	httpx.JSONSuccess(w, drafts)
}

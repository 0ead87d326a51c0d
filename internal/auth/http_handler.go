package auth

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

// VerifyReq only requires the field to be present; an empty passcode is a
// wrong passcode.
type VerifyReq struct {
	Passcode *string `json:"passcode" validate:"required"`
}

type TokenResp struct {
	Token string `json:"token"`
}

// Verify handles POST /api/verify
// @Summary Exchange the shared passcode for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyReq true "Passcode"
// @Success 200 {object} TokenResp
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Router /api/verify [post]
func (h *HTTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	token, err := h.service.Issue(*req.Passcode)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			zerolog.Ctx(r.Context()).Info().Str("reason", Reason(err)).Msg("passcode rejected")
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid passcode", nil)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("issue token")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, TokenResp{Token: token.Value})
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthURLResponse carries the consent page address.
type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// ExchangeRequest carries the code shown after consent.
type ExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

var errAuthDisabled = errors.New("oauth is not configured on this server")

// AuthURL returns the Google consent page for DV360 access.
//
//	@Summary		OAuth consent URL
//	@Description	Open the returned URL, grant access, then post the displayed code to /auth/exchange.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	AuthURLResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/auth/url [get]
func (h *Handler) AuthURL(c *gin.Context) {
	if h.auth == nil {
		writeError(c, errAuthDisabled)
		return
	}
	state := uuid.NewString()
	c.JSON(http.StatusOK, AuthURLResponse{URL: h.auth.AuthCodeURL(state), State: state})
}

// AuthExchange trades the consent code for a stored token.
//
//	@Summary		Exchange OAuth code
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ExchangeRequest	true	"Authorization code"
//	@Success		200		{object}	HealthResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/auth/exchange [post]
func (h *Handler) AuthExchange(c *gin.Context) {
	if h.auth == nil {
		writeError(c, errAuthDisabled)
		return
	}
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errBadRequest("invalid request body: "+err.Error()))
		return
	}
	if err := h.auth.Exchange(c.Request.Context(), req.Code); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: err.Error()})
		return
	}
	authorized := true
	c.JSON(http.StatusOK, HealthResponse{Status: "authorized", Authorized: &authorized})
}

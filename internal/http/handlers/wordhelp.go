package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speechfun/speechfun-backend/internal/http/response"
	"github.com/speechfun/speechfun-backend/internal/platform/ctxutil"
	"github.com/speechfun/speechfun-backend/internal/services"
)

type WordHelpHandler struct {
	wordHelpService services.WordHelpService
}

func NewWordHelpHandler(wordHelpService services.WordHelpService) *WordHelpHandler {
	return &WordHelpHandler{wordHelpService: wordHelpService}
}

func (wh *WordHelpHandler) GetHelp(c *gin.Context) {
	p := ctxutil.GetPrincipal(c.Request.Context())
	if p == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing principal"))
		return
	}
	var req struct {
		Word string `json:"word"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	help, err := wh.wordHelpService.GetWordHelp(c.Request.Context(), p.UserID, req.Word)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, help)
}

package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speechfun/speechfun-backend/internal/http/response"
	"github.com/speechfun/speechfun-backend/internal/platform/ctxutil"
	"github.com/speechfun/speechfun-backend/internal/services"
)

type SpeechHandler struct {
	speechCheckService services.SpeechCheckService
}

func NewSpeechHandler(speechCheckService services.SpeechCheckService) *SpeechHandler {
	return &SpeechHandler{speechCheckService: speechCheckService}
}

// CheckPronunciation takes a multipart form with the target word and a
// short audio clip of the child saying it.
func (sh *SpeechHandler) CheckPronunciation(c *gin.Context) {
	p := ctxutil.GetPrincipal(c.Request.Context())
	if p == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing principal"))
		return
	}

	word := c.PostForm("word")
	fh, err := c.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	result, err := sh.speechCheckService.CheckPronunciation(c.Request.Context(), word, raw, mimeType)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, result)
}

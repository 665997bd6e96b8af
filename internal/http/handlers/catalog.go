package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/http/response"
	"github.com/speechfun/speechfun-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (ch *CatalogHandler) ListLetters(c *gin.Context) {
	letters, err := ch.catalogService.ListLetters(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, letters)
}

func (ch *CatalogHandler) ListLetterWords(c *gin.Context) {
	letterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	words, err := ch.catalogService.ListWordsByLetter(c.Request.Context(), letterID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, words)
}

func (ch *CatalogHandler) ListLetterChallenges(c *gin.Context) {
	letterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	challenges, err := ch.catalogService.ListChallengesByLetter(c.Request.Context(), letterID, c.Query("difficulty"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, challenges)
}

func (ch *CatalogHandler) GetChallenge(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	challenge, err := ch.catalogService.GetChallenge(c.Request.Context(), challengeID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, challenge)
}

func (ch *CatalogHandler) ListYesNoQuestions(c *gin.Context) {
	questions, err := ch.catalogService.ListYesNoQuestions(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, questions)
}

func (ch *CatalogHandler) ListFunctionalPhrases(c *gin.Context) {
	phrases, err := ch.catalogService.ListFunctionalPhrases(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, phrases)
}

func (ch *CatalogHandler) UploadWordAudio(c *gin.Context) {
	wordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

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

	word, err := ch.catalogService.UploadWordAudio(c.Request.Context(), wordID, raw, fh.Filename)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, word)
}

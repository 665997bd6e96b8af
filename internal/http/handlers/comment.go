package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/http/response"
	"github.com/speechfun/speechfun-backend/internal/platform/ctxutil"
	"github.com/speechfun/speechfun-backend/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (ch *CommentHandler) ListChallengeComments(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	comments, err := ch.commentService.ListByChallenge(c.Request.Context(), challengeID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, comments)
}

func (ch *CommentHandler) Create(c *gin.Context) {
	p := ctxutil.GetPrincipal(c.Request.Context())
	if p == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing principal"))
		return
	}
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	comment, err := ch.commentService.Create(c.Request.Context(), p.UserID, challengeID, req.Text)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, comment)
}

func (ch *CommentHandler) Update(c *gin.Context) {
	p := ctxutil.GetPrincipal(c.Request.Context())
	if p == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing principal"))
		return
	}
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	comment, err := ch.commentService.Update(c.Request.Context(), p.UserID, commentID, req.Text)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, comment)
}

func (ch *CommentHandler) Delete(c *gin.Context) {
	p := ctxutil.GetPrincipal(c.Request.Context())
	if p == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing principal"))
		return
	}
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ch.commentService.Delete(c.Request.Context(), p.UserID, commentID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

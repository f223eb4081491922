package handler

import (
	"context"
	"net/http"

	follow "anoa.com/scidiscoveries/internal/modules/follow/service"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"anoa.com/scidiscoveries/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FollowHandler struct {
	service follow.FollowService
}

func NewFollowHandler(service follow.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) ToggleFollow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	res, err := h.service.ToggleFollow(c.Request.Context(), userID, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *FollowHandler) GetFollowers(c *gin.Context) {
	h.list(c, h.service.GetFollowers)
}

func (h *FollowHandler) GetFollowing(c *gin.Context) {
	h.list(c, h.service.GetFollowing)
}

func (h *FollowHandler) list(c *gin.Context, fetch func(ctx context.Context, id uuid.UUID) ([]commonDto.UserShortResponse, error)) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	res, err := fetch(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return uuid.Nil, false
	}
	return id, true
}

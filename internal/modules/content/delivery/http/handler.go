package handler

import (
	"net/http"

	"anoa.com/scidiscoveries/internal/modules/content/dto"
	content "anoa.com/scidiscoveries/internal/modules/content/service"
	"anoa.com/scidiscoveries/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContentHandler struct {
	service content.ContentService
}

func NewContentHandler(service content.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) GetContents(c *gin.Context) {
	var filter dto.ContentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.GetContents(c.Request.Context(), response.GetOptionalUserID(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetMyContents(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.MyContentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.GetMyContents(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetUserIdeas(c *gin.Context) {
	h.userContents(c, true)
}

func (h *ContentHandler) GetUserContents(c *gin.Context) {
	h.userContents(c, false)
}

func (h *ContentHandler) userContents(c *gin.Context, ideasOnly bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var filter dto.MyContentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.GetUserContents(c.Request.Context(), userID, filter, ideasOnly)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetContentBySlug(c *gin.Context) {
	res, err := h.service.GetContentBySlug(c.Request.Context(), response.GetOptionalUserID(c), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) CreateContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.CreateContent(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ContentHandler) UpdateContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.UpdateContent(c.Request.Context(), userID, c.Param("slug"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) DeleteContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteContent(c.Request.Context(), userID, c.Param("slug")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	field "anoa.com/scidiscoveries/internal/modules/field/service"
	"anoa.com/scidiscoveries/pkg/response"
	"github.com/gin-gonic/gin"
)

type FieldHandler struct {
	service field.FieldService
}

func NewFieldHandler(service field.FieldService) *FieldHandler {
	return &FieldHandler{service: service}
}

func (h *FieldHandler) GetFields(c *gin.Context) {
	fields, err := h.service.GetFields(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, fields)
}

func (h *FieldHandler) GetFieldBySlug(c *gin.Context) {
	f, err := h.service.GetFieldBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

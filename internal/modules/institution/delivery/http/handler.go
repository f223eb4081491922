package handler

import (
	"net/http"

	"anoa.com/scidiscoveries/internal/modules/institution/dto"
	institution "anoa.com/scidiscoveries/internal/modules/institution/service"
	"anoa.com/scidiscoveries/pkg/response"
	"github.com/gin-gonic/gin"
)

type InstitutionHandler struct {
	service institution.InstitutionService
}

func NewInstitutionHandler(service institution.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{service: service}
}

func (h *InstitutionHandler) GetInstitutions(c *gin.Context) {
	var filter dto.InstitutionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	institutions, err := h.service.GetInstitutions(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, institutions)
}

func (h *InstitutionHandler) CreateInstitution(c *gin.Context) {
	var req dto.CreateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	inst, created, err := h.service.GetOrCreate(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, inst)
}

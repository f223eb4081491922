package dto

type InstitutionFilter struct {
	Search string `form:"search"`
}

type CreateInstitutionRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type InstitutionResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

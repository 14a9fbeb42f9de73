package dto

// swagger:model
type ConvertPremiumRequest struct {
	Days int `json:"days" example:"7"`
}

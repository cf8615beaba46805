package request_models

type GenerateTripRequest struct {
	Destination  string `json:"destination" binding:"required"`
	Days         int    `json:"days" binding:"required"`
	TravelerType string `json:"travelerType" binding:"required"`
	Budget       string `json:"budget" binding:"required"`
}

type ListTripsQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

type SearchTripsQuery struct {
	Place string `form:"place" binding:"required"`
	Limit int    `form:"limit"`
}

package models

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

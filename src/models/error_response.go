package models

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

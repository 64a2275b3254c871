package dto

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// StatusResponse acknowledges a write that has no other result
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusOK is the body of a successful write
var StatusOK = StatusResponse{Status: "ok"}

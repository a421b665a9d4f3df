package dto

// ErrorResponse cuerpo de error HTTP para los endpoints auxiliares (/health, /metrics).
// El endpoint del record store responde siempre con StoreResponse.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

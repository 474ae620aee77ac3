package http

// ErrorBody is the JSON written for every failed request.
// error and message carry the same text so either convention can read it.
type ErrorBody struct {
	Status  int               `json:"status" example:"404"`
	Code    string            `json:"code" example:"ERR_TICKER_NOT_FOUND"`
	Error   string            `json:"error" example:"Invalid ticker symbol: XYZ or no data found. Please try a known ticker."`
	Message string            `json:"message"`
	Details []ValidationError `json:"details,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"ticker"`
	Message string                 `json:"message,omitempty" example:"ticker is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

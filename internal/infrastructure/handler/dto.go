package handler

// CreateCostRequest represents the request body for recording an expense.
type CreateCostRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// CostResponse represents one stored expense record.
type CostResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	RecordedAt  string  `json:"recorded_at"`
}

// SettingResponse represents one stored setting.
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PutSettingRequest represents the request body for storing a setting.
type PutSettingRequest struct {
	Value string `json:"value"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

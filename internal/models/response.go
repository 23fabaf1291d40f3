package models

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Notification is pushed to a user's websocket connections.
type Notification struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

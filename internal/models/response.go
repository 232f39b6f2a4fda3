package models

// MessageResponse is the single envelope for not-found, confirmation and
// server-fault bodies: {"msg": "..."}.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// NewMessageResponse creates a message response
func NewMessageResponse(msg string) MessageResponse {
	return MessageResponse{Msg: msg}
}

// FieldError describes one failed validation rule on one request field.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// ValidationErrorResponse is the envelope for validation failures:
// {"errors": [{"msg", "param", "location"}, ...]}.
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse{Errors: errors}
}

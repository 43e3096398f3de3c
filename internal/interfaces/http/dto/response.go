package dto

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	// RedirectTo tells clients where to send the user after a failed load
	RedirectTo string `json:"redirect_to,omitempty"`
	State      string `json:"state,omitempty"`
}

// ValidationDetail describes one invalid field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a validation error response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}

// NewLoadErrorResponse creates the response for an order that could not be loaded
func NewLoadErrorResponse(code, notice, redirectTo, state, requestID string) Response {
	resp := NewErrorResponseWithRequestID(code, notice, requestID)
	resp.Error.RedirectTo = redirectTo
	resp.Error.State = state
	return resp
}

// OrderIDRequest binds the order ID path parameter
type OrderIDRequest struct {
	ID string `uri:"id" binding:"required,order_id"`
}

// SheetPDFQuery binds the PDF download options
type SheetPDFQuery struct {
	Download bool `form:"download"`
}

// ShareQuery binds the share options
type ShareQuery struct {
	Open bool `form:"open"`
}

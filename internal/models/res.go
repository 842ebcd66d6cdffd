package models

// ApiResponse is the JSON envelope for every endpoint:
// {message, data?} on success, {message, error?|errors?} on failure.
type ApiResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) ApiResponse {
	return ApiResponse{
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) ApiResponse {
	return ApiResponse{
		Message: message,
	}
}

func ValidationErrorResponse(errs []string) ApiResponse {
	return ApiResponse{
		Message: "Validation Error",
		Errors:  errs,
	}
}

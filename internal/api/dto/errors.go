package dto

// APIError is the JSON error envelope returned by every failing endpoint.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeDataIntegrity = "data_integrity"
	ErrCodeInternal      = "internal_error"
)

func BadRequestError(message string) APIError {
	return APIError{Code: ErrCodeBadRequest, Message: message}
}

func InvalidInputError(message string) APIError {
	return APIError{Code: ErrCodeInvalidInput, Message: message}
}

func DataIntegrityError(message string) APIError {
	return APIError{Code: ErrCodeDataIntegrity, Message: message}
}

func InternalError(message string) APIError {
	return APIError{Code: ErrCodeInternal, Message: message}
}

package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Машиночитаемые коды ошибок для клиентов.
const (
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeUserHasContent   = "USER_HAS_CONTENT"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeModelLoading     = "MODEL_LOADING"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

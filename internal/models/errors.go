package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound         = errors.New("resource not found") // General not found
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrSceneNotFound    = errors.New("scene not found")
	ErrChoiceNotFound   = errors.New("choice not found")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrProgressNotFound = errors.New("player progress not found")

	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserHasContent     = errors.New("user still owns scenarios, assets or progress records")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden          = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// Asset & Generation Errors
	ErrUnsupportedAssetType  = errors.New("unsupported asset type")
	ErrUnsupportedAssetField = errors.New("unsupported asset field")
	ErrModelLoading          = errors.New("generation model is still loading, try again later")
	ErrGenerationFailed      = errors.New("asset generation failed")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)

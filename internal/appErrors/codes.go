package appErrors

// Коды ошибок приложения
const (
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"

	CodeFetchFailed     ErrorCode = "FETCH_FAILED"
	CodeSyncFailed      ErrorCode = "SYNC_FAILED"
	CodeAssetProcessing ErrorCode = "ASSET_PROCESSING_FAILED"

	CodeFileTooLarge    ErrorCode = "FILE_TOO_LARGE"
	CodeInvalidFileType ErrorCode = "INVALID_FILE_TYPE"
)

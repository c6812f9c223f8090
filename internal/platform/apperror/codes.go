package apperror

// ErrorCode is the system-level error category.
type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeStorageIO        ErrorCode = "STORAGE_IO"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// BusinessCode pins down the specific business reason behind an error.
type BusinessCode string

const (
	BusinessCodeGeneral          BusinessCode = "GENERAL"
	BusinessCodeItemNotFound     BusinessCode = "ITEM_NOT_FOUND"
	BusinessCodeInvalidItemData  BusinessCode = "INVALID_ITEM_DATA"
	BusinessCodeAssetWriteFailed BusinessCode = "ASSET_WRITE_FAILED"
)

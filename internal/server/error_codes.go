package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument      = 1000
	ErrCodeInvalidJSON          = 1001
	ErrCodeRequestTooLarge      = 1002
	ErrCodeInvalidQuery         = 1003
	ErrCodeInvalidID            = 1004
	ErrCodeInvalidKind          = 1005
	ErrCodeUnsupportedMediaType = 1006
	ErrCodeMissingRequired      = 1007
	ErrCodeFileTooLarge         = 1008
	ErrCodeInvalidFilename      = 1009

	// Domain state (2xxx)
	ErrCodeAssetNotFound   = 2001
	ErrCodeContentNotFound = 2002
	ErrCodeTrackNotFound   = 2003
	ErrCodeNoGPSData       = 2004
	ErrCodeFilenameExists  = 2101
	ErrCodeConflict        = 2102
	ErrCodeConfirmRequired = 2103

	// Limits (3xxx)
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeBlobFailure  = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeAssetNotFound
	case 409:
		return ErrCodeConflict
	case 413:
		return ErrCodeRequestTooLarge
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}

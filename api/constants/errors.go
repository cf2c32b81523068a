package constants

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrMissingUserID    = "user_id is required in the request"
	ErrInvalidSession   = "Your session has expired or is invalid. Please login again"
	ErrUserInactive     = "Your account is not active. Please contact administrator"
	ErrAuthUnavailable  = "Auth service unavailable"
	ErrInvalidJSONShort = "Invalid JSON"
	ErrMethodNotAllowed = "Method Not Allowed"
)

// ============================================================================
// UPLOAD ERRORS
// ============================================================================

const (
	ErrInvalidMultipart = "Failed to parse multipart form"
	ErrNoFilesUploaded  = "No files uploaded. Please upload at least one .xlsx, .xls or .csv file"
	ErrTooManyFiles     = "You can upload a maximum of %d files at once"
	ErrUnsupportedFile  = "Unsupported file type for %s. Please upload .xlsx, .xls or .csv"
	ErrFileRead         = "Failed to read file %s"
	ErrInvalidAsOf      = "Invalid as_of date, expected YYYY-MM-DD"
)

// ============================================================================
// REPORT ERRORS
// ============================================================================

const (
	ErrReportNotFound   = "Report not found or expired. Please upload the file again"
	ErrProcessingFailed = "Processing %s failed: %v"
)

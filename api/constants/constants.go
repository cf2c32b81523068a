package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)

// Request fields
const (
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"
	FieldFiles     = "files"
	FieldFile      = "file"
	FieldAsOf      = "as_of"
)

package response

// Response is the envelope every endpoint returns.
type Response struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// PageMeta describes the slice of a paginated listing.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Page wraps a listing together with its pagination metadata.
type Page struct {
	Entries interface{} `json:"entries"`
	Meta    PageMeta    `json:"meta"`
}

// Success wraps data in a success envelope.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paginated wraps a listing and its page metadata in a success envelope.
func Paginated(statusCode int, entries interface{}, meta PageMeta) Response {
	return Success(statusCode, Page{Entries: entries, Meta: meta})
}

// Error wraps an error message in an error envelope.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

package console

import "fmt"

// Operations reported in APIError.Op.
const (
	OpLogin  = "login"
	OpExport = "export"
	OpImport = "import"
)

// APIError is a non-success response from the console API, surfaced
// verbatim: the failing operation, the HTTP status, and the response
// body.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("dify console %s failed (%d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("dify console %s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

// IsAuth reports whether the failure is an authentication problem:
// either the login call itself, or a session rejection on a later call.
func (e *APIError) IsAuth() bool {
	return e.Op == OpLogin || e.StatusCode == 401 || e.StatusCode == 403
}

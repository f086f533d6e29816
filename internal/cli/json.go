package cli

import (
	"encoding/json"
	"errors"
	"os"
)

// Global JSON output flag
var jsonOutput bool

// errJSONReported marks an error already emitted as a JSON envelope:
// the process still exits non-zero, but nothing more is printed.
var errJSONReported = errors.New("error reported as json")

// Response is the JSON envelope for all CLI output in --json mode.
type Response struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// outputJSON writes the response to stdout.
func outputJSON(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// outputSuccess outputs a successful JSON response.
func outputSuccess(data any) {
	outputJSON(Response{OK: true, Data: data})
}

// isJSONOutput returns true if JSON output is enabled.
func isJSONOutput() bool {
	return jsonOutput
}

// handleError reports an error appropriately for the output mode: a
// JSON envelope in --json mode (swallowing the error so cobra does not
// print it twice), the plain error otherwise.
func handleError(code string, err error, suggestion string) error {
	if jsonOutput {
		outputJSON(Response{
			OK: false,
			Error: &ErrorInfo{
				Code:       code,
				Message:    err.Error(),
				Suggestion: suggestion,
			},
		})
		return errJSONReported
	}
	return err
}

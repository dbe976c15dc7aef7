package mysterria

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-2xx response from the Mysterria API.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"-"`

	// Code is the provider's error code when one was returned
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mysterria: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("mysterria: HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports a 401-class failure. The API layer clears the local
// session when it sees one of these.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// decodeJSON decodes a JSON response into target, mapping non-expected
// statuses to an *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseErrorResponse builds an *APIError from a failed response, using the
// provider's error body when it parses and falling back to the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	// Best effort: the body may not be the provider's error shape at all.
	_ = json.Unmarshal(body, apiErr)
	return apiErr
}

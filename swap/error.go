package swap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

var (
	ErrEmptyToken     = errors.New("token is empty")
	ErrInvalidRequest = errors.New("invalid request")
)

// APIError is returned for any non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %s", e.Status)
}

func getError(res *http.Response) error {
	apiErr := &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
	}
	body, err := io.ReadAll(res.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var errorResponse ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err != nil {
		// Some gateways answer with plain text
		apiErr.Message = strings.TrimSpace(string(body))
		if len(apiErr.Message) > 200 {
			apiErr.Message = ""
		}
		return apiErr
	}
	apiErr.Message = errorResponse.Message
	if apiErr.Message == "" {
		apiErr.Message = errorResponse.Error
	}
	return apiErr
}

package swap

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type swapRoundTripper struct {
	// inner defaults to http.DefaultTransport, resolved per request
	inner  http.RoundTripper
	client *Client
}

func (s swapRoundTripper) transport() http.RoundTripper {
	if s.inner != nil {
		return s.inner
	}
	return http.DefaultTransport
}

// RoundTrip sends a copy of request carrying the session headers. A 401 triggers one
// re-login and a single retry with the new token.
func (s swapRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	ctx := request.Context()
	if err := s.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token := s.client.getToken()
	sent := request.Clone(ctx)
	if token != "" {
		sent.Header.Set("Authorization", "Bearer "+token)
	}
	if sent.Header.Get("X-Request-ID") == "" {
		sent.Header.Set("X-Request-ID", uuid.NewString())
	}
	sent.Header.Set("User-Agent", userAgent)

	response, err := s.transport().RoundTrip(sent)
	if err != nil || response.StatusCode != http.StatusUnauthorized || !s.client.canRelogin() {
		return response, err
	}

	log.Debugf("received 401 for %s %s, refreshing token", request.Method, request.URL.Path)
	_ = response.Body.Close()

	if err := s.client.relogin(ctx, token); err != nil {
		return nil, fmt.Errorf("authentication failed after token refresh: %w", err)
	}

	retry := sent.Clone(ctx)
	if request.Body != nil && request.Body != http.NoBody {
		if request.GetBody == nil {
			return nil, fmt.Errorf("cannot retry %s %s: request body is not replayable", request.Method, request.URL.Path)
		}
		body, err := request.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+s.client.getToken())

	log.Debugf("retrying %s %s with refreshed token", request.Method, request.URL.Path)
	return s.transport().RoundTrip(retry)
}

var _ http.RoundTripper = &swapRoundTripper{}

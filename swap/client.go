package swap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	Backend                 string = "https://api.swapstation.io"
	MaxRefreshAttempts      int    = 3
	RefreshCooldownDuration        = 5 * time.Minute
	userAgent                      = "swapctl"
)

type Client struct {
	httpClient *http.Client
	config     *Config
	configPath string
	baseURL    string
	token      string
	tokenMutex sync.RWMutex
	limiter    *rate.Limiter

	// refreshMu serializes re-logins; failedRefreshes and lastRefresh are only touched under it.
	refreshMu       sync.Mutex
	failedRefreshes int
	lastRefresh     time.Time
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

var (
	log      = logrus.StandardLogger()
	validate = validator.New(validator.WithRequiredStructEnabled())
)

func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	log.Debugf("swap New")

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = Backend
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	c := &Client{
		config:  config,
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, 1),
	}
	c.httpClient = &http.Client{
		Transport: swapRoundTripper{client: c},
		Timeout:   30 * time.Second,
	}
	return c, nil
}

func (c *Client) SetConfigPath(path string) {
	c.configPath = path
}

func (c *Client) Init(ctx context.Context) error {
	log.Debugf("initializing client")

	c.refreshMu.Lock()
	c.failedRefreshes = 0
	c.refreshMu.Unlock()

	if c.config.Token != "" {
		log.Debugf("token is not empty, trying to use it")
		c.setToken(c.config.Token)
		if err := c.checkToken(ctx); err != nil {
			log.Warnf("token is invalid: %s", err)
			c.setToken("")
			return c.Login(ctx, c.config.Username, c.config.Password)
		}
		return nil
	}

	log.Debugf("token is empty, trying to login")
	if err := c.Login(ctx, c.config.Username, c.config.Password); err != nil {
		return err
	}
	log.Debugf("login OK")
	return nil
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.loginWithClient(ctx, c.httpClient, username, password)
}

func (c *Client) loginWithClient(ctx context.Context, client *http.Client, username, password string) error {
	log.Debugf("logging in as %s", username)
	req := loginRequest{
		Email:    username,
		Password: password,
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: username and password are required", ErrInvalidRequest)
	}

	var response loginResponse
	if err := c.doJSON(ctx, client, http.MethodPost, "/api/auth/login", req, &response); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if response.Token == "" {
		return fmt.Errorf("login failed: %w", ErrEmptyToken)
	}

	c.setToken(response.Token)
	return c.saveToken()
}

func (c *Client) checkToken(ctx context.Context) error {
	if c.getToken() == "" {
		return ErrEmptyToken
	}
	_, err := c.GetProfile(ctx)
	return err
}

// saveToken saves the token to the config file
func (c *Client) saveToken() error {
	c.config.Token = c.getToken()
	if c.configPath == "" {
		return nil
	}
	return SaveConfig(c.config, c.configPath)
}

func (c *Client) GetConfig() Config {
	return *c.config
}

func (c *Client) getToken() string {
	c.tokenMutex.RLock()
	defer c.tokenMutex.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	c.token = token
}

func (c *Client) canRelogin() bool {
	return c.config.Username != "" && c.config.Password != ""
}

// relogin replaces rejected, the token a request was refused with.
// Requests that hit a 401 together queue here and share a single login: once the
// token differs from rejected someone else already refreshed it.
func (c *Client) relogin(ctx context.Context, rejected string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.getToken(); current != "" && current != rejected {
		log.Debugf("token was refreshed by a concurrent request")
		return nil
	}
	if c.failedRefreshes >= MaxRefreshAttempts {
		return fmt.Errorf("exceeded maximum refresh attempts (%d), check your credentials", MaxRefreshAttempts)
	}
	if c.failedRefreshes > 0 {
		if wait := RefreshCooldownDuration - time.Since(c.lastRefresh); wait > 0 {
			return fmt.Errorf("last refresh failed, retry in %v", wait.Round(time.Second))
		}
	}
	c.lastRefresh = time.Now()

	// Logging in through swapRoundTripper would turn a rejected login into another refresh.
	direct := &http.Client{Transport: http.DefaultTransport, Timeout: c.httpClient.Timeout}
	if err := c.loginWithClient(ctx, direct, c.config.Username, c.config.Password); err != nil {
		c.failedRefreshes++
		log.Errorf("token refresh failed (%d/%d): %v", c.failedRefreshes, MaxRefreshAttempts, err)
		return err
	}
	c.failedRefreshes = 0
	log.Infof("token refreshed")
	return nil
}

package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"instarecon/pkg/config"
	"instarecon/pkg/errors"
	"instarecon/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// Client represents an Instagram web API client
type Client struct {
	http    *resty.Client
	baseURL string
	logger  logger.Logger

	// sent only to the profile endpoint, never to image hosts
	session map[string]string
}

// NewClient creates a new Instagram API client. A nil cfg uses the defaults.
func NewClient(cfg *config.InstagramConfig, log logger.Logger) *Client {
	if cfg == nil {
		cfg = &config.DefaultConfig().Instagram
	}
	if log == nil {
		log = logger.GetLogger()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	appID := cfg.AppID
	if appID == "" {
		appID = config.DefaultAppID
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(0)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("X-IG-App-ID", appID)
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.SetHeader("Referer", BaseURL+"/")

	c := &Client{
		http:    client,
		baseURL: BaseURL,
		logger:  log,
	}
	if cfg.HasSession() {
		c.session = map[string]string{
			"Cookie":      fmt.Sprintf("sessionid=%s; csrftoken=%s", cfg.SessionID, cfg.CSRFToken),
			"X-CSRFToken": cfg.CSRFToken,
		}
		log.Debug("using session credentials for profile requests")
	}

	return c
}

// SetBaseURL points profile lookups at a different host
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHeader sets a custom header for all requests
func (c *Client) SetHeader(key, value string) {
	c.http.SetHeader(key, value)
}

// get performs one GET request. Transport failures become network errors.
func (c *Client) get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": http.MethodGet,
		"url":    url,
	})

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method": http.MethodGet,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "request to %s failed", url)
	}

	logger.LogRequest(c.logger, http.MethodGet, url, res.StatusCode(), res.Time())
	return res, nil
}

// checkResponseStatus maps an error status to a typed error
func (c *Client) checkResponseStatus(res *resty.Response, url string) error {
	code := res.StatusCode()
	if code < 400 {
		return nil
	}

	t := errors.FromStatusCode(code)
	var msg string
	switch t {
	case errors.ErrorTypeNotFound:
		msg = "resource not found"
	case errors.ErrorTypeAuth:
		msg = "authentication required"
	case errors.ErrorTypeRateLimit:
		msg = "rate limit exceeded"
	case errors.ErrorTypeServerError:
		msg = "server error"
	default:
		msg = fmt.Sprintf("unexpected status code: %d", code)
	}

	c.logger.WarnWithFields(msg, map[string]interface{}{
		"status": code,
		"url":    url,
	})
	return errors.New(t, code, "%s", msg)
}

// FetchProfile fetches the public profile record for username
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	username = SanitizeUsername(username)
	if username == "" {
		return nil, errors.New(errors.ErrorTypeInput, 0, "username is empty")
	}

	url := profileURL(c.baseURL, username)
	log := c.logger.WithField("username", username)
	log.Debug("fetching user profile")

	headers := map[string]string{"Accept": "application/json"}
	for k, v := range c.session {
		headers[k] = v
	}

	res, err := c.get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if err := c.checkResponseStatus(res, url); err != nil {
		return nil, err
	}

	body := res.Body()
	var envelope ProfileResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		log.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"status":       res.StatusCode(),
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    res.StatusCode(),
			Err:     err,
		}
	}

	if envelope.RequiresToLogin {
		log.Warn("authentication required for profile")
		return nil, errors.New(errors.ErrorTypeAuth, http.StatusUnauthorized,
			"Instagram requires authentication to view this profile")
	}

	raw := bytes.TrimSpace(envelope.Data.User)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		log.Warn("no user data in response")
		return nil, errors.New(errors.ErrorTypeNotFound, 0,
			"no user data for %q, the account may not exist", username)
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		log.WithError(err).Error("failed to decode user record")
		return nil, errors.Wrap(errors.ErrorTypeParsing, err, "failed to decode user record")
	}

	log.Debug("successfully fetched user profile")
	return &Profile{
		Target: username,
		Raw:    json.RawMessage(raw),
		User:   user,
	}, nil
}

// DownloadImage fetches an image and returns its bytes
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, errors.New(errors.ErrorTypeInput, 0, "image URL is empty")
	}

	res, err := c.get(ctx, imageURL, nil)
	if err != nil {
		return nil, err
	}
	if err := c.checkResponseStatus(res, imageURL); err != nil {
		return nil, err
	}

	data := res.Body()
	if len(data) == 0 {
		return nil, errors.New(errors.ErrorTypeNetwork, res.StatusCode(), "empty response body for %s", imageURL)
	}

	c.logger.DebugWithFields("downloaded image", map[string]interface{}{
		"url":  imageURL,
		"size": len(data),
	})
	return data, nil
}

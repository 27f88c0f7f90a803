package bakalari

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

const passwordGrantType = "password"
const maxResponseBytes = 1 << 20

const (
	credentialKeyUsername = "username"
	credentialKeyPassword = "password"
)

const refreshReadPrompt = "Unlock stored school credentials"

type API struct {
	BaseURL       string
	LoginPath     string
	TimetablePath string
}

func DefaultAPI(baseURL string) API {
	return API{
		BaseURL:       baseURL,
		LoginPath:     "/api/login",
		TimetablePath: "/api/3/timetable/actual",
	}
}

// Client speaks the school API: the password-grant login exchange and
// the authenticated timetable GET. It surfaces raw errors; retry and
// refresh-on-401 policy belongs to the caller.
type Client struct {
	API            API
	ClientID       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Credentials    ports.CredentialStore
}

var _ ports.TokenService = (*Client)(nil)
var _ ports.TimetableFetcher = (*Client)(nil)

func (c *Client) Login(ctx context.Context, username string, password string) (string, error) {
	endpoint, err := buildAPIURL(c.API.BaseURL, c.API.LoginPath)
	if err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("username", username)
	values.Set("password", password)
	values.Set("client_id", c.ClientID)
	values.Set("grant_type", passwordGrantType)

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("login rejected (status %d): %w", resp.StatusCode, domain.ErrInvalidCredentials)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("request token: status %d", resp.StatusCode)
	}

	var payload tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", domain.ErrMalformedResponse)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token: %w", domain.ErrMalformedResponse)
	}

	return payload.AccessToken, nil
}

func (c *Client) RefreshWithStoredCredentials(ctx context.Context) (string, error) {
	if c.Credentials == nil {
		return "", domain.ErrNoStoredCredentials
	}

	username, err := c.Credentials.Read(ctx, credentialKeyUsername, refreshReadPrompt)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", domain.ErrNoStoredCredentials
		}
		return "", fmt.Errorf("read stored username: %w", err)
	}

	password, err := c.Credentials.Read(ctx, credentialKeyPassword, refreshReadPrompt)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", domain.ErrNoStoredCredentials
		}
		return "", fmt.Errorf("read stored password: %w", err)
	}

	return c.Login(ctx, username, password)
}

func (c *Client) Fetch(ctx context.Context, token string) (domain.RawTimetable, error) {
	endpoint, err := buildAPIURL(c.API.BaseURL, c.API.TimetablePath)
	if err != nil {
		return domain.RawTimetable{}, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RawTimetable{}, fmt.Errorf("create timetable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.RawTimetable{}, fmt.Errorf("request timetable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.RawTimetable{}, fmt.Errorf("timetable request (status %d): %w", resp.StatusCode, domain.ErrUnauthorized)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.RawTimetable{}, fmt.Errorf("request timetable: status %d", resp.StatusCode)
	}

	var payload timetableResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.RawTimetable{}, fmt.Errorf("decode timetable response: %w", domain.ErrMalformedResponse)
	}

	return payload.toDomain(), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}

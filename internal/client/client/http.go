package client

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

	"github.com/dmitrijs2005/gophsession/internal/client/models"
	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/sethvargo/go-retry"
)

const (
	maxErrorBodySize = 64 << 10
	maxImageSize     = 10 << 20
)

// DefaultTimeout bounds every request when Options.Timeout is not positive.
const DefaultTimeout = 10 * time.Second

// Options configures an HTTPClient.
//
// Fields:
//   - BaseURL: scheme://host[:port] of the backend.
//   - Origin: value of the Origin header sent with every request.
//   - Timeout: per-request timeout; DefaultTimeout when not positive.
//   - Retries: extra attempts for CheckSession after a transport failure.
//   - RetryDelay: constant wait between those attempts.
//   - Transport: optional round tripper, mainly for tests.
type Options struct {
	BaseURL    string
	Origin     string
	Timeout    time.Duration
	Retries    uint64
	RetryDelay time.Duration
	Transport  http.RoundTripper
}

// HTTPClient is the Client backed by the REST endpoints of the backend.
type HTTPClient struct {
	baseURL    *url.URL
	origin     string
	http       *http.Client
	jar        *sessionJar
	retries    uint64
	retryDelay time.Duration
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates opts and builds a client with an empty cookie jar.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute http(s)", opts.BaseURL)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	delay := opts.RetryDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		baseURL: u,
		origin:  opts.Origin,
		http: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		jar:        jar,
		retries:    opts.Retries,
		retryDelay: delay,
	}, nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *HTTPClient) do(ctx context.Context, method, path string, form url.Values) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

// CheckSession resolves the stored credential. Transport failures are
// retried; 401 and 403 are final.
func (c *HTTPClient) CheckSession(ctx context.Context) (models.User, error) {
	var user models.User

	backoff := retry.WithMaxRetries(c.retries, retry.NewConstant(c.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		u, err := c.checkSessionOnce(ctx)
		if errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *HTTPClient) checkSessionOnce(ctx context.Context) (models.User, error) {
	resp, err := c.do(ctx, http.MethodGet, common.PathCheckSession, nil)
	if err != nil {
		return models.User{}, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return models.User{}, statusError(resp)
	}
	return decodeUser(resp)
}

// SubmitCredentials posts the form to the login or register endpoint.
func (c *HTTPClient) SubmitCredentials(ctx context.Context, kind Kind, creds Credentials) (models.User, error) {
	var path string
	switch kind {
	case KindLogin:
		path = common.PathLogin
	case KindRegister:
		path = common.PathRegister
	default:
		return models.User{}, fmt.Errorf("unknown submission kind %q", kind)
	}

	form := url.Values{}
	form.Set(common.FieldUsername, creds.Username)
	form.Set(common.FieldPassword, creds.Password)

	resp, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return models.User{}, err
	}
	defer drain(resp)

	if resp.StatusCode/100 != 2 {
		if resp.StatusCode == http.StatusForbidden {
			return models.User{}, ErrOriginRejected
		}
		return models.User{}, serverError(resp)
	}
	return decodeUser(resp)
}

// EndSession asks the server to clear the credential, then empties the local
// cookie jar whatever the outcome.
func (c *HTTPClient) EndSession(ctx context.Context) error {
	defer c.jar.Reset()

	resp, err := c.do(ctx, http.MethodGet, common.PathLogout, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	return nil
}

// ListUsers returns every registered user.
func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.do(ctx, http.MethodGet, common.PathAllUsers, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var list models.UserList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return list.Users, nil
}

// RandomImage downloads one image picked by the server.
func (c *HTTPClient) RandomImage(ctx context.Context) (Image, error) {
	resp, err := c.do(ctx, http.MethodGet, common.PathRandomImage, nil)
	if err != nil {
		return Image{}, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return Image{}, statusError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return Image{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func decodeUser(resp *http.Response) (models.User, error) {
	var u models.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := u.Validate(); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return u, nil
}

// statusError maps 401 and 403 to sentinels, anything else to a ServerError.
func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrNoSession
	case http.StatusForbidden:
		return ErrOriginRejected
	default:
		return serverError(resp)
	}
}

func serverError(resp *http.Response) *ServerError {
	msg := http.StatusText(resp.StatusCode)

	var body common.ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if json.Unmarshal(raw, &body) == nil && body.Text() != "" {
		msg = body.Text()
	}

	return &ServerError{Status: resp.StatusCode, Message: msg}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	_ = resp.Body.Close()
}

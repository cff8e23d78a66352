// Package auth talks to the external authentication provider (a Supabase/GoTrue
// compatible service) and verifies the access tokens it issues.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// ErrInvalidToken is returned when a bearer token is malformed, expired or unknown
var ErrInvalidToken = errors.New("invalid token")

// ProviderError is an error reported by the auth provider
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Client calls the provider's auth API
type Client struct {
	api     gotrue.Client
	timeout time.Duration
}

// NewClient creates a new provider client for the project at baseURL
func NewClient(baseURL, apiKey string) *Client {
	api := gotrue.New("", apiKey).
		WithCustomGoTrueURL(strings.TrimRight(baseURL, "/") + "/auth/v1")
	return &Client{api: api, timeout: 10 * time.Second}
}

// SignUp registers a new user and returns its identity
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	resp, err := c.with(ctx).Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, providerError(err)
	}
	// the library copies the session user over the bare user when a session is returned
	if resp.User.ID == uuid.Nil {
		return nil, &ProviderError{StatusCode: http.StatusBadGateway, Message: "sign-up response has no user"}
	}
	return identity(resp.User), nil
}

// SignIn exchanges email and password for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := c.with(ctx).SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, providerError(err)
	}
	return &models.Session{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		RefreshToken: resp.RefreshToken,
		User:         identity(resp.User),
	}, nil
}

// Verify resolves an access token to the user it was issued for
func (c *Client) Verify(ctx context.Context, token string) (*models.Identity, error) {
	resp, err := c.with(ctx).WithToken(token).GetUser()
	if err != nil {
		perr := providerError(err)
		var pe *ProviderError
		if errors.As(perr, &pe) && (pe.StatusCode == http.StatusUnauthorized || pe.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidToken, pe.Message)
		}
		return nil, perr
	}
	if resp.ID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return identity(resp.User), nil
}

// with returns an API client whose requests are bound to ctx
func (c *Client) with(ctx context.Context) gotrue.Client {
	return c.api.WithClient(http.Client{
		Timeout:   c.timeout,
		Transport: contextTransport{ctx: ctx, next: http.DefaultTransport},
	})
}

// contextTransport attaches a context to requests built without one
type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(req.WithContext(t.ctx))
}

func identity(u types.User) *models.Identity {
	id := &models.Identity{ID: u.ID.String(), Email: u.Email}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		id.CreatedAt = &created
	}
	return id
}

// providerError turns the library's "response status code N: body" errors into a ProviderError
func providerError(err error) error {
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return &ProviderError{StatusCode: http.StatusBadRequest, Message: "email and password are required"}
	}

	rest, ok := strings.CutPrefix(err.Error(), "response status code ")
	if !ok {
		return fmt.Errorf("auth provider request failed: %w", err)
	}
	code, body, _ := strings.Cut(rest, ": ")
	status, convErr := strconv.Atoi(code)
	if convErr != nil {
		return fmt.Errorf("auth provider request failed: %w", err)
	}
	return &ProviderError{StatusCode: status, Message: errorMessage(status, []byte(body))}
}

// errorMessage picks the human readable message out of a provider error body
func errorMessage(status int, body []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("auth provider returned status %d", status)
}

package api

import (
	"context"
	"net/http"

	"github.com/carrental-io/carrental-qa/internal/config"
	"github.com/carrental-io/carrental-qa/internal/logging"
	"github.com/carrental-io/carrental-qa/internal/opt"
)

const (
	LoginPath    = "/api/auth/login"
	RegisterPath = "/api/auth/register"
)

// Login posts credentials. A 401 is a normal Response, not an error.
func (c *Client) Login(ctx context.Context, username, password string) (*Response, error) {
	return c.Post(ctx, LoginPath, LoginRequest{Username: username, Password: password})
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, r RegisterRequest) (*Response, error) {
	return c.Post(ctx, RegisterPath, r)
}

// Authenticate logs in once and returns the issued token. Every failure, including
// a refused connection, a timeout or a non-200 status, yields None.
func Authenticate(ctx context.Context, baseURL string, creds config.Credentials, opts ...Option) opt.Maybe[Token] {
	c := BuildClient(baseURL, opt.None[Token](), opts...)

	resp, err := c.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		logging.Warningf(c.log, "authentication as %s unavailable: %v", creds.Username, err)
		return opt.None[Token]()
	}
	if resp.StatusCode != http.StatusOK {
		logging.Warningf(c.log, "authentication as %s rejected with %d", creds.Username, resp.StatusCode)
		return opt.None[Token]()
	}

	auth, err := Decode[AuthResponse](resp)
	if err != nil || auth.Token == "" {
		logging.Warningf(c.log, "authentication as %s returned no token", creds.Username)
		return opt.None[Token]()
	}

	tok := Token(auth.Token)
	logging.Infof(c.log, "authenticated as %s (token %s)", creds.Username, tok)
	return opt.Some(tok)
}

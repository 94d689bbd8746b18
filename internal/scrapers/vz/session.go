package vz

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Session is the token of a logged in account. It never expires on its own,
// an expired session shows up as ErrMissingContent on the next page fetch.
type Session struct {
	token string
}

// NewSession wraps a token obtained from an earlier Login.
func NewSession(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrUnauthenticated
	}
	return Session{token: token}, nil
}

func (s Session) Token() string {
	return s.token
}

func (s Session) IsZero() bool {
	return s.token == ""
}

func (s Session) String() string {
	if s.IsZero() {
		return "Session(none)"
	}
	// the token is a credential, do not let it leak into logs
	return "Session(***)"
}

func (s Session) cookie() *http.Cookie {
	return &http.Cookie{Name: SESSION_COOKIE, Value: s.token}
}

// sessionFromSetCookie finds the session cookie among Set-Cookie header values,
// the token is everything after the `=` of its leading segment.
func sessionFromSetCookie(headers []string) (Session, bool) {
	for _, header := range headers {
		if !strings.HasPrefix(header, SESSION_COOKIE) {
			continue
		}
		segment, _, _ := strings.Cut(header, ";")
		_, token, found := strings.Cut(segment, "=")
		if !found || strings.TrimSpace(token) == "" {
			continue
		}
		return Session{token: strings.TrimSpace(token)}, true
	}
	return Session{}, false
}

// Login submits the site's login form, it is the only way to create a session.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	res, err := c.login.R().
		SetContext(ctx).
		SetHeader("referer", c.pageUrl(endpoint_login_ref, nil)).
		SetFormData(map[string]string{
			"fp":    "unset",
			"name":  username,
			"pass":  password,
			"login": "Einloggen",
		}).
		Post(endpoint_login)
	if err != nil {
		c.tel.ReportBroken(
			report_client_login,
			fmt.Errorf("login request: %w", err),
		)
		return Session{}, err
	}

	session, ok := sessionFromSetCookie(res.Header().Values("Set-Cookie"))
	if !ok {
		c.tel.ReportWarning(
			report_client_login,
			fmt.Errorf("no %s cookie in login response", SESSION_COOKIE),
			res.Status(),
		)
		return Session{}, ErrAuthentication
	}

	c.tel.ReportDebug("logged in", username)
	return session, nil
}

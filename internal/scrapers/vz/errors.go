package vz

import "errors"

var (
	// ErrAuthentication means a login did not yield a session cookie, either
	// because the credentials are wrong or because the login page changed.
	ErrAuthentication = errors.New("vz scraper: login failed")

	// ErrUnauthenticated means an operation was called without a session.
	ErrUnauthenticated = errors.New("vz scraper: no session")

	// ErrMissingContent means the page lacks its content container. This is
	// what an expired session looks like, it is also what a layout change
	// looks like.
	ErrMissingContent = errors.New("vz scraper: page content not found")
)

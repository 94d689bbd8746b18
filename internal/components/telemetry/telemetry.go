package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so that components can be tested
// for the reports they make.
type API interface {
	// ReportBroken reports a component that broke in a way that needs fixing.
	//
	// `id` names the component, not the line that failed: an HTTP failure in
	// the profile scraper is `client.profile`, the cause goes into params or
	// into the wrapped error.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) underscores for large components
	// 3) dashes for methods of a larger component
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that is not necessarily broken but should
	// be looked at, ex. an expected element missing from a scraped page.
	ReportWarning(id string, params ...any)

	// ReportDebug reports debug information ignored in production.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current count of an event, counts are points of
	// data over time and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every report with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}

// Package assert holds precondition checks for constructors, a failed check is a
// programmer error and panics.
package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

// AbsoluteUrl panics if the given url does not carry both a scheme and a host.
func AbsoluteUrl(scheme, host string) {
	if scheme == "" || host == "" {
		panic(fmt.Sprintf("expected absolute url, got scheme=%q host=%q", scheme, host))
	}
}

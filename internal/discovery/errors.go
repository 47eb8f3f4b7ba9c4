package discovery

import (
	"errors"
	"fmt"
)

// ErrUnresolvedSource is wrapped by every case-source resolution failure.
var ErrUnresolvedSource = errors.New("case source not found")

// DiscoveryError reports a test skipped because its case source could not be resolved.
type DiscoveryError struct {
	Suite  string
	Test   string
	Type   string
	Member string
	Msg    string
}

func (e *DiscoveryError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %s: %s.%s: %s", e.Suite, e.Test, ErrUnresolvedSource, e.Type, e.Member, e.Msg)
}

func (e *DiscoveryError) Unwrap() error { return ErrUnresolvedSource }

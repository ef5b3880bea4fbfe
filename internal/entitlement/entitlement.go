// Package entitlement resolves whether a caller may read the signal-bearing
// general knowledge base. The pipeline consumes the flag once per answer and
// never stores it.
package entitlement

import "context"

// Checker reports the caller's entitlement. Implementations live outside
// the answering pipeline; this package carries the contract plus the
// built-in backends the CLI and server can run with.
type Checker interface {
	HasActiveEntitlement(ctx context.Context, identity string) (bool, error)
}

// Static always answers with a fixed flag; the default for deployments that
// gate entitlement elsewhere.
type Static bool

// HasActiveEntitlement returns the fixed flag.
func (s Static) HasActiveEntitlement(ctx context.Context, identity string) (bool, error) {
	return bool(s), nil
}

// Mock is a test checker with per-identity flags and an optional error.
type Mock struct {
	Entitled map[string]bool
	Err      error

	// Checked records every identity passed in, in call order.
	Checked []string
}

// HasActiveEntitlement looks up the identity in the fixture map.
func (m *Mock) HasActiveEntitlement(ctx context.Context, identity string) (bool, error) {
	m.Checked = append(m.Checked, identity)
	if m.Err != nil {
		return false, m.Err
	}
	return m.Entitled[identity], nil
}

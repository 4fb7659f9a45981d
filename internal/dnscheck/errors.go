package dnscheck

import (
	"errors"
	"net"
	"strings"
)

// ErrNotFound is returned by Checker.Check when no lookup produced a record.
var ErrNotFound = errors.New("domain not found")

// Benign lookup failures. They mean "no record of this type" rather than a
// broken resolver.
var (
	ErrNoData   = errors.New("no data")
	ErrNXDomain = errors.New("nxdomain")
	ErrServFail = errors.New("servfail")
	ErrRefused  = errors.New("refused")
)

// IsBenign reports whether err is one of the expected lookup failures.
func IsBenign(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrNXDomain) ||
		errors.Is(err, ErrServFail) ||
		errors.Is(err, ErrRefused)
}

// LookupError describes one failed lookup.
type LookupError struct {
	Type RecordType
	Host string
	Err  error
}

func (e *LookupError) Error() string {
	return e.Type.String() + " lookup for " + e.Host + ": " + e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// classify maps resolver errors from the net package onto the benign sentinels.
// Unknown errors are returned unchanged.
func classify(err error) error {
	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) {
		return err
	}
	switch {
	case dnsErr.IsTimeout:
		return err
	case dnsErr.IsNotFound:
		return &wrapped{sentinel: ErrNXDomain, err: err}
	case strings.Contains(dnsErr.Err, "no such host"):
		return &wrapped{sentinel: ErrNXDomain, err: err}
	case strings.Contains(dnsErr.Err, "server misbehaving"):
		return &wrapped{sentinel: ErrServFail, err: err}
	case strings.Contains(dnsErr.Err, "refused"):
		return &wrapped{sentinel: ErrRefused, err: err}
	}
	return err
}

// wrapped keeps the original resolver error visible while matching a sentinel.
type wrapped struct {
	sentinel error
	err      error
}

func (w *wrapped) Error() string   { return w.err.Error() }
func (w *wrapped) Unwrap() []error { return []error{w.sentinel, w.err} }

package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// DefaultTimeout bounds each lookup when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// resolvConf is where the ANY lookup finds a nameserver when none is configured.
const resolvConf = "/etc/resolv.conf"

// RecordType identifies one of the lookups.
type RecordType int

const (
	// RecordA is an IPv4 address lookup.
	RecordA RecordType = iota
	// RecordAAAA is an IPv6 address lookup.
	RecordAAAA
	// RecordCNAME is a canonical name lookup.
	RecordCNAME
	// RecordANY asks the server for any record it holds.
	RecordANY
)

func (t RecordType) String() string {
	switch t {
	case RecordA:
		return "A"
	case RecordAAAA:
		return "AAAA"
	case RecordCNAME:
		return "CNAME"
	case RecordANY:
		return "ANY"
	default:
		return "unknown"
	}
}

// lookupOrder is the order in which Check tries the record types.
var lookupOrder = []RecordType{RecordA, RecordAAAA, RecordCNAME, RecordANY}

// Resolver is the subset of *net.Resolver used by Checker.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// Checker verifies domain existence. It is safe for concurrent use.
type Checker struct {
	resolver Resolver
	client   *dns.Client
	server   string
	timeout  time.Duration
	logger   *slog.Logger

	serverOnce sync.Once
	serverErr  error
}

// Option configures a Checker.
type Option func(*Checker)

// WithResolver sets the resolver for A, AAAA and CNAME lookups.
func WithResolver(r Resolver) Option {
	return func(c *Checker) {
		c.resolver = r
	}
}

// WithServer sets the "host:port" nameserver for ANY queries.
// Without it the first nameserver in /etc/resolv.conf is used.
func WithServer(addr string) Option {
	return func(c *Checker) {
		c.server = addr
	}
}

// WithTimeout sets the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for lookup failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker using net.DefaultResolver unless overridden.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		resolver: net.DefaultResolver,
		client:   &dns.Client{Net: "udp"},
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the record type that proved host exists.
// It returns ErrNotFound when every lookup failed or came back empty, and the
// context error when ctx is done.
func (c *Checker) Check(ctx context.Context, host string) (RecordType, error) {
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	if host == "" {
		return 0, ErrNotFound
	}
	if net.ParseIP(host) != nil {
		return RecordA, nil
	}

	for _, rt := range lookupOrder {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := c.lookup(ctx, rt, host)
		if err != nil {
			lerr := &LookupError{Type: rt, Host: host, Err: err}
			if IsBenign(err) {
				c.logger.Debug("dns lookup returned no records", "type", rt.String(), "host", host, "error", err)
			} else {
				c.logger.Warn("dns lookup failed", "type", rt.String(), "host", host, "error", lerr)
			}
			continue
		}
		if n > 0 {
			c.logger.Debug("domain resolved", "type", rt.String(), "host", host, "records", n)
			return rt, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNotFound
}

// Exists is Check reduced to a boolean.
func (c *Checker) Exists(ctx context.Context, host string) bool {
	_, err := c.Check(ctx, host)
	return err == nil
}

func (c *Checker) lookup(parent context.Context, rt RecordType, host string) (int, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	switch rt {
	case RecordA:
		return c.lookupIP(ctx, "ip4", host)
	case RecordAAAA:
		return c.lookupIP(ctx, "ip6", host)
	case RecordCNAME:
		cname, err := c.resolver.LookupCNAME(ctx, host)
		if err != nil {
			return 0, classify(err)
		}
		if strings.TrimSuffix(cname, ".") == "" {
			return 0, ErrNoData
		}
		return 1, nil
	case RecordANY:
		return c.lookupAny(ctx, host)
	default:
		return 0, fmt.Errorf("unsupported record type %d", rt)
	}
}

func (c *Checker) lookupIP(ctx context.Context, network, host string) (int, error) {
	ips, err := c.resolver.LookupIP(ctx, network, host)
	if err != nil {
		return 0, classify(err)
	}
	if len(ips) == 0 {
		return 0, ErrNoData
	}
	return len(ips), nil
}

func (c *Checker) lookupAny(ctx context.Context, host string) (int, error) {
	server, err := c.nameserver()
	if err != nil {
		return 0, err
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeANY)
	m.RecursionDesired = true

	in, _, err := c.client.ExchangeContext(ctx, m, server)
	if err != nil {
		return 0, err
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
		if len(in.Answer) == 0 {
			return 0, ErrNoData
		}
		return len(in.Answer), nil
	case dns.RcodeNameError:
		return 0, ErrNXDomain
	case dns.RcodeServerFailure:
		return 0, ErrServFail
	case dns.RcodeRefused:
		return 0, ErrRefused
	default:
		return 0, fmt.Errorf("unexpected rcode %s", dns.RcodeToString[in.Rcode])
	}
}

// nameserver returns the server for ANY queries, reading resolv.conf once.
func (c *Checker) nameserver() (string, error) {
	c.serverOnce.Do(func() {
		if c.server != "" {
			return
		}
		conf, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			c.serverErr = fmt.Errorf("failed to read %s: %w", resolvConf, err)
			return
		}
		if len(conf.Servers) == 0 {
			c.serverErr = errors.New("no nameserver configured in " + resolvConf)
			return
		}
		c.server = net.JoinHostPort(conf.Servers[0], conf.Port)
	})
	return c.server, c.serverErr
}

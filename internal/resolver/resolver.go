// Package resolver performs the DNS lookups used by domain verification.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

const resolvConfPath = "/etc/resolv.conf"

// fallbackNameservers are used when resolv.conf cannot be read
var fallbackNameservers = []string{"1.1.1.1:53", "8.8.8.8:53"}

// Resolver is the narrow lookup surface verification depends on.
// A name with no records (NXDOMAIN or empty answer) yields (nil, nil);
// an error means the lookup itself failed.
type Resolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupCNAME(ctx context.Context, name string) ([]string, error)
}

// LookupError describes a failed lookup
type LookupError struct {
	Name    string
	Type    string
	Timeout bool
	Err     error
}

func (e *LookupError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s lookup for %s timed out", e.Type, e.Name)
	}
	return fmt.Sprintf("%s lookup for %s failed: %v", e.Type, e.Name, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a lookup timeout
func IsTimeout(err error) bool {
	var le *LookupError
	return errors.As(err, &le) && le.Timeout
}

// Config holds resolver options
type Config struct {
	Nameservers []string // host:port or host; empty means resolv.conf
	Timeout     time.Duration
	Logger      *logrus.Entry
}

// DNSResolver queries nameservers directly over the DNS wire protocol
type DNSResolver struct {
	udp         *dns.Client
	tcp         *dns.Client
	nameservers []string
	timeout     time.Duration
	logger      *logrus.Entry
}

// New creates a DNSResolver
func New(cfg Config) *DNSResolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	servers := make([]string, 0, len(cfg.Nameservers))
	for _, ns := range cfg.Nameservers {
		servers = append(servers, withPort(ns))
	}
	if len(servers) == 0 {
		servers = systemNameservers()
	}

	return &DNSResolver{
		udp:         &dns.Client{Net: "udp", Timeout: timeout},
		tcp:         &dns.Client{Net: "tcp", Timeout: timeout},
		nameservers: servers,
		timeout:     timeout,
		logger:      logger.WithField("component", "dns-resolver"),
	}
}

// Nameservers returns the servers queried, in order
func (r *DNSResolver) Nameservers() []string {
	return append([]string(nil), r.nameservers...)
}

// LookupTXT returns TXT values for name; multi-string records are concatenated
func (r *DNSResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	answers, err := r.query(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, rr := range answers {
		if txt, ok := rr.(*dns.TXT); ok {
			values = append(values, strings.Join(txt.Txt, ""))
		}
	}
	return values, nil
}

// LookupCNAME returns the CNAME targets in the answer for name, as published (trailing dot included)
func (r *DNSResolver) LookupCNAME(ctx context.Context, name string) ([]string, error) {
	answers, err := r.query(ctx, name, dns.TypeCNAME)
	if err != nil {
		return nil, err
	}

	var targets []string
	for _, rr := range answers {
		if cname, ok := rr.(*dns.CNAME); ok {
			targets = append(targets, cname.Target)
		}
	}
	return targets, nil
}

// query asks each nameserver in turn until one answers authoritatively enough.
// The whole call is bounded by the resolver timeout.
func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	typeName := dns.TypeToString[qtype]
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.nameservers {
		resp, err := r.exchange(ctx, msg, server)
		if err != nil {
			lastErr = err
			r.logger.WithFields(logrus.Fields{"server": server, "name": name, "type": typeName}).
				Debugf("exchange failed: %v", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			return resp.Answer, nil
		case dns.RcodeNameError:
			return nil, nil
		default:
			lastErr = fmt.Errorf("%s answered %s", server, dns.RcodeToString[resp.Rcode])
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no nameservers configured")
	}
	return nil, &LookupError{
		Name:    name,
		Type:    typeName,
		Timeout: isTimeout(ctx, lastErr),
		Err:     lastErr,
	}
}

// exchange sends msg over UDP and retries over TCP when the reply is truncated
func (r *DNSResolver) exchange(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error) {
	resp, _, err := r.udp.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		resp, _, err = r.tcp.ExchangeContext(ctx, msg, server)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func systemNameservers() []string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return append([]string(nil), fallbackNameservers...)
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	return servers
}

func withPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), "53")
}

package resolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a DNS server on a loopback UDP socket and returns its address
func startServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		Handler:           handler,
		NotifyStartedFunc: func() { close(started) },
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started

	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func zoneHandler(w dns.ResponseWriter, req *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(req)
	q := req.Question[0]
	hdr := func(rrtype uint16) dns.RR_Header {
		return dns.RR_Header{Name: q.Name, Rrtype: rrtype, Class: dns.ClassINET, Ttl: 60}
	}

	switch {
	case q.Name == "_lnkday-verify.go.example.com." && q.Qtype == dns.TypeTXT:
		m.Answer = append(m.Answer,
			&dns.TXT{Hdr: hdr(dns.TypeTXT), Txt: []string{"lnkday-verify-", "0123456789abcdef0123456789abcdef"}},
			&dns.TXT{Hdr: hdr(dns.TypeTXT), Txt: []string{"v=spf1 -all"}},
		)
	case q.Name == "go.example.com." && q.Qtype == dns.TypeCNAME:
		m.Answer = append(m.Answer, &dns.CNAME{Hdr: hdr(dns.TypeCNAME), Target: "cname.lnk.day."})
	case q.Name == "empty.example.com.":
		// NOERROR with no answers
	default:
		m.SetRcode(req, dns.RcodeNameError)
	}
	_ = w.WriteMsg(m)
}

func newTestResolver(timeout time.Duration, servers ...string) *DNSResolver {
	return New(Config{Nameservers: servers, Timeout: timeout})
}

func TestLookupTXT_JoinsStrings(t *testing.T) {
	addr := startServer(t, zoneHandler)
	r := newTestResolver(time.Second, addr)

	values, err := r.LookupTXT(context.Background(), "_lnkday-verify.go.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"lnkday-verify-0123456789abcdef0123456789abcdef", "v=spf1 -all"}, values)
}

func TestLookupCNAME_KeepsTrailingDot(t *testing.T) {
	addr := startServer(t, zoneHandler)
	r := newTestResolver(time.Second, addr)

	targets, err := r.LookupCNAME(context.Background(), "go.example.com.")
	require.NoError(t, err)
	assert.Equal(t, []string{"cname.lnk.day."}, targets)
}

func TestLookup_NXDomainIsEmpty(t *testing.T) {
	addr := startServer(t, zoneHandler)
	r := newTestResolver(time.Second, addr)

	values, err := r.LookupTXT(context.Background(), "missing.example.com")
	require.NoError(t, err)
	assert.Empty(t, values)

	targets, err := r.LookupCNAME(context.Background(), "empty.example.com")
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestLookup_Timeout(t *testing.T) {
	silent := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {})
	r := newTestResolver(200*time.Millisecond, silent)

	start := time.Now()
	_, err := r.LookupTXT(context.Background(), "_lnkday-verify.go.example.com")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout, got %v", err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLookup_ServFailFallsThrough(t *testing.T) {
	failing := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeServerFailure)
		_ = w.WriteMsg(m)
	})
	healthy := startServer(t, zoneHandler)

	r := newTestResolver(time.Second, failing, healthy)
	targets, err := r.LookupCNAME(context.Background(), "go.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"cname.lnk.day."}, targets)
}

func TestLookup_ServFailOnly(t *testing.T) {
	failing := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeServerFailure)
		_ = w.WriteMsg(m)
	})

	r := newTestResolver(time.Second, failing)
	_, err := r.LookupTXT(context.Background(), "go.example.com")
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
	assert.Contains(t, err.Error(), "SERVFAIL")
}

func TestNew_DefaultsPort(t *testing.T) {
	r := New(Config{Nameservers: []string{"9.9.9.9", "1.1.1.1:5353"}})
	assert.Equal(t, []string{"9.9.9.9:53", "1.1.1.1:5353"}, r.Nameservers())
}

package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// Resolver is the subset of *net.Resolver used by the DNS check.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

type DNSStatus struct {
	Domain        string
	IPs           []net.IP
	Nameservers   []string
	Class         string // "NXDOMAIN" | "NO_A_RECORD" | "RESOLVES" | "SERVFAIL_or_TIMEOUT" | "INVALID_NAME"
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// CheckDNS classifies how domain resolves. A URL is reduced to its hostname.
func CheckDNS(ctx context.Context, r Resolver, domain string) DNSStatus {
	s := DNSStatus{Domain: extractHost(strings.TrimSpace(domain))}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = "INVALID_NAME"
		return s
	}
	if r == nil {
		r = net.DefaultResolver
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := r.LookupIP(ctx, "ip", s.Domain)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = "RESOLVES"
		return s
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) && (de.IsTemporary || de.Timeout()) {
			s.Class = "SERVFAIL_or_TIMEOUT"
		}
	}

	if ns, err := r.LookupNS(ctx, s.Domain); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		if s.Class == "" {
			s.Class = "NO_A_RECORD"
		}
	}
	if s.Class == "" {
		s.Class = "NXDOMAIN"
	}
	return s
}

// DNSChecker resolves the host part of Target.
type DNSChecker struct {
	Resolver Resolver
	Target   string
}

func (d DNSChecker) Check(ctx context.Context) CheckResult {
	st := CheckDNS(ctx, d.Resolver, d.Target)
	msg := st.Class
	if st.Class == "RESOLVES" {
		msg = st.Domain + " -> " + st.IPs[0].String()
	} else if st.ResolverError != "" {
		msg += ": " + st.ResolverError
	}
	return CheckResult{Name: "DNS", Success: st.Class == "RESOLVES", Message: msg}
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}

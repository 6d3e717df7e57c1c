package webhook

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned when the webhook URL is malformed.
	ErrInvalidURL = errors.New("malformed webhook URL")
	// ErrInvalidScheme is returned when the webhook URL scheme is not http or https.
	ErrInvalidScheme = errors.New("webhook URL scheme must be http or https")
	// ErrPrivateIP is returned when the webhook URL points at private or
	// internal address space.
	ErrPrivateIP = errors.New("webhook URL points into private or reserved address space")
)

// reservedBlocks lists the networks a webhook target may never live in:
// loopback, RFC 1918, link-local (cloud metadata services), CGNAT, the test
// and benchmarking nets, multicast, and reserved space.
var reservedBlocks = mustParseCIDRs(
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"224.0.0.0/4",
	"240.0.0.0/4",
	"::/128",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
	"ff00::/8",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	blocks := make([]*net.IPNet, len(cidrs))
	for i, c := range cidrs {
		_, block, err := net.ParseCIDR(c)
		if err != nil {
			panic("webhook: bad reserved block " + c)
		}
		blocks[i] = block
	}
	return blocks
}

// ValidateWebhookURL rejects webhook URLs that are malformed, use a scheme
// other than http or https, or whose host is, or resolves to, an address in
// reserved space. Hostnames are resolved up front so an attacker can't point
// a hook at internal services.
func ValidateWebhookURL(rawURL string) error {
	if rawURL == "" {
		return ErrInvalidURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return ErrInvalidScheme
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: no hostname", ErrInvalidURL)
	}
	if isLocalhostName(host) {
		return ErrPrivateIP
	}

	// Literal addresses are checked directly, names via the resolver.
	if ip := net.ParseIP(host); ip != nil {
		return ValidateIPBeforeDial(ip)
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(context.Background(), host)
	if err != nil {
		return fmt.Errorf("%w: hostname lookup failed: %v", ErrInvalidURL, err)
	}

	for _, addr := range addrs {
		if isReservedIP(addr.IP) {
			return ErrPrivateIP
		}
	}

	return nil
}

// ValidateIPBeforeDial rejects connections into reserved address space. The
// delivery client calls it at dial time with the resolved address, which
// closes the DNS rebinding window between validation and delivery.
func ValidateIPBeforeDial(ip net.IP) error {
	if isReservedIP(ip) {
		return ErrPrivateIP
	}
	return nil
}

func isLocalhostName(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "localhost.localdomain" ||
		strings.HasSuffix(host, ".localhost")
}

func isReservedIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsUnspecified() || ip.IsMulticast() {
		return true
	}

	for _, block := range reservedBlocks {
		if block.Contains(ip) {
			return true
		}
	}

	return false
}

package extract

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Domain is a host split at its public suffix: for "www.example.co.uk" the
// Name is "example" and the Suffix is "co.uk".
type Domain struct {
	Name   string
	Suffix string
}

// HTTPSUpgrades returns the bare https URLs that count as the same site as
// the original target: with and without the www label.
func (d Domain) HTTPSUpgrades() []string {
	return []string{
		"https://www." + d.Name + "." + d.Suffix,
		"https://" + d.Name + "." + d.Suffix,
	}
}

// SplitDomain extracts the registrable domain label and public suffix from a
// target URL. IP addresses and hosts without a listed suffix return the last
// label as Name and an empty Suffix.
func SplitDomain(target string) Domain {
	host := hostOf(target)
	if host == "" {
		return Domain{}
	}
	if net.ParseIP(host) != nil {
		return Domain{Name: host}
	}

	labels := strings.Split(host, ".")
	suffix, icann := publicsuffix.PublicSuffix(host)
	// Private registry rules (blogspot.com, github.io, ...) are not
	// suffixes here; fall back to the ICANN suffix underneath them.
	for !icann && strings.Contains(suffix, ".") {
		suffix, icann = publicsuffix.PublicSuffix(suffix[strings.Index(suffix, ".")+1:])
	}
	if !icann && !strings.Contains(suffix, ".") {
		// Only the implicit "*" rule matched.
		return Domain{Name: labels[len(labels)-1]}
	}
	if suffix == host {
		return Domain{Suffix: suffix}
	}

	rest := strings.TrimSuffix(host, "."+suffix)
	if i := strings.LastIndex(rest, "."); i >= 0 {
		rest = rest[i+1:]
	}
	return Domain{Name: rest, Suffix: suffix}
}

func hostOf(target string) string {
	target = strings.TrimSpace(target)
	if !strings.Contains(target, "://") {
		target = "//" + target
	}
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

package extract

import (
	"strings"

	"github.com/maxvaer/wwparse/internal/whatweb"
)

// Status labels derived from HTTP codes.
const (
	StatusValid     = "Valid"
	prefixForbidden = "Forbidden - "
	prefixRedirect  = "Redirect - "
)

// Record is the normalized summary of one scanned target. Every field is
// always present so rows line up; unset fields are empty.
type Record struct {
	Target      string `json:"target"`
	Status      string `json:"status"`
	IPAddress   string `json:"ip_address"`
	Server      string `json:"server"`
	PoweredBy   string `json:"powered_by"`
	RedirectsTo string `json:"redirects_to"`
	Notes       string `json:"notes"`
}

// Columns returns the seven row cells in output order.
func (r *Record) Columns() []string {
	return []string{r.Target, r.Status, r.IPAddress, r.Server, r.PoweredBy, r.RedirectsTo, r.Notes}
}

func (r *Record) set(column, value string) {
	switch column {
	case ColTarget:
		r.Target = value
	case ColStatus:
		r.Status = value
	case ColIPAddress:
		r.IPAddress = value
	case ColServer:
		r.Server = value
	case ColPoweredBy:
		r.PoweredBy = value
	case ColRedirectsTo:
		r.RedirectsTo = value
	case ColNotes:
		r.Notes = value
	}
}

// ParseFields splits the comma-separated plugin list given on the command
// line, trimming whitespace around each name.
func ParseFields(list string) []string {
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Extract folds the request chain of one target into a Record.
//
// Precedence, lowest first: the HTTP status of the first request, the
// outcome of the redirect chain, the requested plugin values, then the
// Parked-Domain and WWW-Authenticate plugins, which always run last.
func Extract(chain whatweb.Chain, fields []string) Record {
	var rec Record
	first, ok := chain.First()
	if !ok {
		return rec
	}

	status := classify(first.Status)
	notes := ""

	if chain.IsRedirect() {
		last, _ := chain.Last()
		status = redirectStatus(first, last)
		rec.RedirectsTo = strings.TrimRight(last.Target, "/")
	}

	names := make([]string, 0, len(fields)+2)
	names = append(names, fields...)
	names = append(names, PluginParkedDomain, PluginWWWAuthenticate)

	for _, name := range names {
		spec, ok := LookupField(name)
		if !ok {
			continue
		}
		if spec.Override != "" {
			if value, ok := first.PluginFlag(name, spec.Kind); ok {
				status = spec.Override
				notes = value
			}
			continue
		}
		if value, ok := first.PluginValue(name, spec.Kind); ok {
			rec.set(spec.Column, value)
		}
	}

	rec.Target = first.Target
	rec.Status = status
	rec.Notes = notes
	return rec
}

// classify maps a single-request status: 20x is Valid, 40x is Forbidden,
// anything else is kept as is.
func classify(s whatweb.Status) string {
	switch {
	case s.HasClass("20"):
		return StatusValid
	case s.HasClass("40"):
		return prefixForbidden + s.String()
	default:
		return s.String()
	}
}

// redirectStatus classifies a chain by its last hop. A redirect landing on
// the https form of the original registrable domain counts as Valid. A 40x
// final hop is checked last and wins over everything else.
func redirectStatus(first, last whatweb.Record) string {
	status := first.Status.String()
	redirectsTo := strings.TrimRight(last.Target, "/")

	if last.Status.HasClass("20") {
		status = prefixRedirect + first.Status.String()
		for _, upgrade := range SplitDomain(first.Target).HTTPSUpgrades() {
			if redirectsTo == upgrade {
				status = StatusValid
				break
			}
		}
	}
	if last.Status.HasClass("40") {
		status = prefixForbidden + last.Status.String()
	}
	return status
}

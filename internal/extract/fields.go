package extract

// Output columns of a Record, in row order.
const (
	ColTarget      = "target"
	ColStatus      = "status"
	ColIPAddress   = "ip_address"
	ColServer      = "server"
	ColPoweredBy   = "powered_by"
	ColRedirectsTo = "redirects_to"
	ColNotes       = "notes"
)

// Statuses set by status-overriding plugins.
const (
	StatusParked       = "Parked"
	StatusAuthRequired = "Auth Required"
)

// Plugins that are always consulted, in this order, after the requested ones.
const (
	PluginParkedDomain    = "Parked-Domain"
	PluginWWWAuthenticate = "WWW-Authenticate"
)

// FieldSpec says where a WhatWeb plugin value is read from and what it
// becomes. WhatWeb nests values as plugins[name][kind] = [values...]; most
// plugins use the "string" kind.
type FieldSpec struct {
	Kind string
	// Column receives the value. Empty when Override is set.
	Column string
	// Override replaces the status (and notes) when the plugin fires.
	Override string
}

var pluginFields = map[string]FieldSpec{
	"HTTPServer":          {Kind: "string", Column: ColServer},
	"IP":                  {Kind: "string", Column: ColIPAddress},
	"RedirectLocation":    {Kind: "string", Column: ColRedirectsTo},
	"X-Powered-By":        {Kind: "string", Column: ColPoweredBy},
	"PoweredBy":           {Kind: "string", Column: ColPoweredBy},
	PluginParkedDomain:    {Kind: "string", Override: StatusParked},
	PluginWWWAuthenticate: {Kind: "module", Override: StatusAuthRequired},
}

// LookupField returns the spec for a plugin name.
func LookupField(name string) (FieldSpec, bool) {
	spec, ok := pluginFields[name]
	return spec, ok
}

// KnownPlugins lists the plugin names that can be extracted.
func KnownPlugins() []string {
	return []string{
		"HTTPServer", "IP", "RedirectLocation", "X-Powered-By", "PoweredBy",
		PluginParkedDomain, PluginWWWAuthenticate,
	}
}

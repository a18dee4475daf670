package whatweb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the http_status field of a WhatWeb record. WhatWeb emits it as
// an integer, but older versions and error records use strings or leave it
// empty, so it is always handled through its string form.
type Status string

// UnmarshalJSON accepts a JSON number, string or null.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Status(str)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = Status(n.String())
		return nil
	}
}

func (s Status) String() string { return string(s) }

// HasClass reports whether the status code starts with the given class
// prefix, e.g. "20" or "40".
func (s Status) HasClass(prefix string) bool {
	return strings.HasPrefix(string(s), prefix)
}

// PluginValues maps a value kind ("string", "module", "version", ...) to the
// raw JSON list WhatWeb emitted for it. Lists are decoded lazily so an
// unexpected shape in one plugin never fails the whole record.
type PluginValues map[string]json.RawMessage

// first returns element 0 of the list stored under kind. ok is false when
// the kind is missing, the list is empty or it is not a list.
func (p PluginValues) first(kind string) (json.RawMessage, bool) {
	raw, found := p[kind]
	if !found {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// rawString renders a JSON value as text: strings are unquoted, anything
// else keeps its compact JSON form.
func rawString(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// truthy reports whether a JSON value counts as set: false, null, zero,
// "" and empty lists or objects do not.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case '"':
		return rawString(raw) != ""
	case 't':
		return true
	case 'f', 'n':
		return false
	case '[':
		var list []json.RawMessage
		return json.Unmarshal(raw, &list) == nil && len(list) > 0
	case '{':
		var obj map[string]json.RawMessage
		return json.Unmarshal(raw, &obj) == nil && len(obj) > 0
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

// Record is one HTTP request/response attempt as logged by WhatWeb.
type Record struct {
	Target  string
	Status  Status
	Plugins map[string]json.RawMessage
}

// UnmarshalJSON decodes a WhatWeb log line. Only a line that is not a JSON
// object is an error; a field with an unexpected shape is read as text or
// left empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("not a JSON object: %s", data)
	}

	*r = Record{}
	if raw, ok := fields["target"]; ok {
		r.Target = rawString(raw)
	}
	if raw, ok := fields["http_status"]; ok {
		if err := r.Status.UnmarshalJSON(raw); err != nil {
			r.Status = Status(rawString(raw))
		}
	}
	if raw, ok := fields["plugins"]; ok {
		var plugins map[string]json.RawMessage
		if err := json.Unmarshal(raw, &plugins); err == nil {
			r.Plugins = plugins
		}
	}
	return nil
}

// PluginValue returns plugins[name][kind][0] as text.
func (r *Record) PluginValue(name, kind string) (string, bool) {
	raw, ok := r.pluginRaw(name, kind)
	if !ok {
		return "", false
	}
	return rawString(raw), true
}

// PluginFlag is like PluginValue but only reports ok when the value is set
// to something truthy, so false, 0 and null are treated as absent.
func (r *Record) PluginFlag(name, kind string) (string, bool) {
	raw, ok := r.pluginRaw(name, kind)
	if !ok || !truthy(raw) {
		return "", false
	}
	return rawString(raw), true
}

func (r *Record) pluginRaw(name, kind string) (json.RawMessage, bool) {
	raw, ok := r.Plugins[name]
	if !ok {
		return nil, false
	}
	var values PluginValues
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	return values.first(kind)
}

// Chain is the ordered list of records logged for one target. More than one
// record means WhatWeb followed a redirect; only the first and last hop are
// meaningful.
type Chain []Record

// First returns the initial request of the chain.
func (c Chain) First() (Record, bool) {
	if len(c) == 0 {
		return Record{}, false
	}
	return c[0], true
}

// Last returns the final hop of the chain.
func (c Chain) Last() (Record, bool) {
	if len(c) == 0 {
		return Record{}, false
	}
	return c[len(c)-1], true
}

// IsRedirect reports whether the chain followed at least one redirect.
func (c Chain) IsRedirect() bool { return len(c) > 1 }

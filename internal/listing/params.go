package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Params holds the recognized listing options of one request.
// Absent and empty values are equivalent.
type Params map[string]string

// ParamsFromValues takes the first value of every key, trimmed.
func ParamsFromValues(values url.Values) Params {
	p := make(Params, len(values))
	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		if v := strings.TrimSpace(vs[0]); v != "" {
			p[key] = v
		}
	}
	return p
}

// Get returns the value of key, with ok false when absent or empty.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Float parses key as a finite number. Unparseable values, NaN and
// infinities count as absent.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int parses key as an integer. Unparseable values count as absent.
func (p Params) Int(key string) (int, bool) {
	v, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Date parses key as a calendar date. Unparseable values count as absent.
func (p Params) Date(key string) (time.Time, bool) {
	v, ok := p.Get(key)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// With returns a copy of p with key set to value.
func (p Params) With(key, value string) Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Record kinds emitted by the collectors.
const (
	KindCountryOverview = "country_overview"
	KindSportMedals     = "sport_medals"
	KindAnniversary     = "anniversary"
)

// Record is a single flat data row produced by a scrape.
type Record struct {
	// Kind identifies what produced the record (see the Kind constants).
	Kind string

	// Source is the page URL the record was extracted from.
	Source string

	// Timestamp is when the record was created.
	Timestamp time.Time

	// Fields stores the extracted key-value data.
	Fields map[string]any
}

// NewRecord creates an empty Record of the given kind.
func NewRecord(kind, source string) *Record {
	return &Record{
		Kind:      kind,
		Source:    source,
		Timestamp: time.Now(),
		Fields:    make(map[string]any),
	}
}

// Set sets a field value.
func (r *Record) Set(key string, value any) {
	r.Fields[key] = value
}

// Get retrieves a field value.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// GetString retrieves a field value as a string.
func (r *Record) GetString(key string) string {
	v, ok := r.Fields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// Delete removes a field.
func (r *Record) Delete(key string) {
	delete(r.Fields, key)
}

// Keys returns the field names in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has returns true if the field exists.
func (r *Record) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// ToMap returns the record as a single map with metadata prefixed by "_".
func (r *Record) ToMap() map[string]any {
	m := make(map[string]any, len(r.Fields)+3)
	m["_kind"] = r.Kind
	m["_source"] = r.Source
	m["_timestamp"] = r.Timestamp
	for k, v := range r.Fields {
		m[k] = v
	}
	return m
}

// ToFlatMap returns a flat string map suitable for CSV export.
func (r *Record) ToFlatMap() map[string]string {
	flat := make(map[string]string, len(r.Fields)+3)
	flat["_kind"] = r.Kind
	flat["_source"] = r.Source
	flat["_timestamp"] = r.Timestamp.Format(time.RFC3339)

	for k, v := range r.Fields {
		switch val := v.(type) {
		case string:
			flat[k] = val
		case int, int64, float64, bool:
			flat[k] = fmt.Sprint(val)
		default:
			b, _ := json.Marshal(val)
			flat[k] = string(b)
		}
	}
	return flat
}

// Clone creates a copy of the record with its own field map.
func (r *Record) Clone() *Record {
	clone := &Record{
		Kind:      r.Kind,
		Source:    r.Source,
		Timestamp: r.Timestamp,
		Fields:    make(map[string]any, len(r.Fields)),
	}
	for k, v := range r.Fields {
		clone.Fields[k] = v
	}
	return clone
}

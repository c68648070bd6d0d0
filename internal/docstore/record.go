package docstore

import "fmt"

// Record is one entity instance: a free-form field/value map. The store
// controls three fields on every record; everything else is up to the
// caller.
type Record map[string]any

// System-controlled field names.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// TimeLayout is the timestamp format written into createdAt/updatedAt.
// It is RFC 3339 with millisecond precision, so records survive a JSON
// round-trip byte-for-byte.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ID returns the record's identifier coerced to a string. Records written
// through this store always carry string ids, but the on-disk document has
// no schema, so a hand-edited file could hold anything.
func (r Record) ID() string {
	v, ok := r[FieldID]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// String returns the named field as a string, or "" if it is absent or not
// a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// clone returns a top-level copy of the record. Nested values are shared;
// updates replace nested structures wholesale, so sharing is safe as long
// as callers treat returned records as read-only snapshots.
func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

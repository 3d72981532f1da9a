package log

import "sort"

// Well-known field keys used across the application.
const (
	FieldKeyPrefix       = "prefix"
	FieldKeyRunID        = "run"
	FieldKeyCaseID       = "case"
	FieldKeyInvocationID = "invocation"
	FieldKeyMsg          = "msg"
	FieldKeyLevel        = "level"
	FieldKeyTime         = "time"
)

var reservedKeys = []string{
	FieldKeyMsg,
	FieldKeyLevel,
	FieldKeyTime,
}

// Fields type, used to pass to `WithFields`.
type Fields map[string]interface{}

// Keys returns the sorted field keys, skipping any listed in removeKeys.
func (fields Fields) Keys(removeKeys ...string) []string {
	var keys []string

	for key := range fields {
		var skip bool

		for _, removeKey := range removeKeys {
			if key == removeKey {
				skip = true
				break
			}
		}

		if !skip {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}

// This is to not silently overwrite `time`, `msg` and `level` fields when
// dumping them, e.g. `log.WithField("level", 1).Info("hello")` is logged as
// `{"level": "info", "fields.level": 1, "msg": "hello", "time": "..."}`.
func (fields Fields) fixKeyClashes() {
	for _, key := range reservedKeys {
		if val, ok := fields[key]; ok {
			fields["fields."+key] = val
			delete(fields, key)
		}
	}
}

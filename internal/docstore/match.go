// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"encoding/json"
	"reflect"
)

// Matches reports whether fields satisfy every filter. Filter values are
// normalized the same way stored fields are, so an int filter matches a
// stored float64. Used by backends that filter in process.
func Matches(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		got, ok := fields[f.Field]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(got, normalizeValue(f.Value)) {
			return false
		}
	}
	return true
}

func normalizeValue(v any) any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// FilterFields turns filters into a field map, as used by backends that
// express equality as containment.
func FilterFields(filters []Filter) Fields {
	out := make(Fields, len(filters))
	for _, f := range filters {
		out[f.Field] = normalizeValue(f.Value)
	}
	return out
}

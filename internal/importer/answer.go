// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import "strings"

// NormalizeAnswer maps a raw correct-answer cell to a boolean. Booleans
// pass through, numbers are true only when equal to 1, and strings are
// true for "true", "o" or "1" after trimming, in any case. Anything else
// is false.
func NormalizeAnswer(v any) bool {
	switch a := v.(type) {
	case bool:
		return a
	case int:
		return a == 1
	case int32:
		return a == 1
	case int64:
		return a == 1
	case float32:
		return a == 1
	case float64:
		return a == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "true", "o", "1":
			return true
		}
	}
	return false
}

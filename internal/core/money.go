// Package core provides the finpal domain model and money formatting
// utilities shared by the HTTP layer, the chat responder and the stores.
package core

import "strconv"

// FormatGrouped renders an integer with comma thousands separators and no
// decimal places, e.g. 850000 -> "850,000".
func FormatGrouped(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > 3 {
		var b []byte
		lead := len(s) % 3
		if lead == 0 {
			lead = 3
		}
		b = append(b, s[:lead]...)
		for i := lead; i < len(s); i += 3 {
			b = append(b, ',')
			b = append(b, s[i:i+3]...)
		}
		s = string(b)
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatINR renders an amount as grouped rupees, e.g. 850000 -> "₹850,000".
// Amounts are whole rupees; the data model carries no fractional units.
func FormatINR(v int64) string {
	if v < 0 {
		return "-₹" + FormatGrouped(-v)
	}
	return "₹" + FormatGrouped(v)
}

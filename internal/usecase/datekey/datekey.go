package datekey

import "strings"

// Canonicalize converts a raw date-like key (a record filename such as
// "01-06-2022.csv" or an ISO tag such as "2023-04-05") into the
// canonical YYYY-MM-DD form used as the merge key across series.
// Logic:
//  1. Strip a trailing ".csv" suffix
//  2. If the first dash-separated segment is 4 digits, the key is
//     already YYYY-MM-DD and is returned unchanged
//  3. Otherwise interpret as MM-DD-YYYY, zero-pad month and day, and
//     reassemble as YYYY-MM-DD
//
// Keys without separators are passed through verbatim; the caller
// decides whether to treat them as canonical or unrecognized.
// Unparseable input yields "" and must be filtered out before merge.
// The function is total: it never panics, and canonical input is
// returned unchanged.
func Canonicalize(raw string) string {
	if raw == "" {
		return ""
	}

	dateStr := strings.TrimSuffix(raw, ".csv")
	if dateStr == "" {
		return ""
	}

	if !strings.Contains(dateStr, "-") {
		return dateStr
	}

	parts := strings.Split(dateStr, "-")
	if len(parts[0]) == 4 {
		// Already YYYY-MM-DD
		return dateStr
	}

	// MM-DD-YYYY
	if len(parts) != 3 {
		return ""
	}

	return parts[2] + "-" + pad2(parts[0]) + "-" + pad2(parts[1])
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

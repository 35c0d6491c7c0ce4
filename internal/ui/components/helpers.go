// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "time"

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// toStr converts a non-negative integer to a string.
func toStr(n int) string {
	if n <= 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// pad2 renders n with at least two digits.
func pad2(n int) string {
	if n < 10 {
		return "0" + toStr(n)
	}
	return toStr(n)
}

// fmtElapsed formats a session duration as m:ss, or h:mm:ss past an hour.
func fmtElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return toStr(h) + ":" + pad2(m) + ":" + pad2(s)
	}
	return toStr(m) + ":" + pad2(s)
}

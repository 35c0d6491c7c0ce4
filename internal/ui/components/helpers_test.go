// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
)

// =============================================================================
// HELPER FUNCTION TESTS
// =============================================================================

func TestToStr(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "10"},
		{123, "123"},
		{1000, "1000"},
		{-1, "0"}, // negative counts clamp
	}

	for _, tc := range tests {
		got := toStr(tc.input)
		if got != tc.want {
			t.Errorf("toStr(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPad2(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "00"},
		{5, "05"},
		{10, "10"},
		{59, "59"},
		{123, "123"},
	}

	for _, tc := range tests {
		if got := pad2(tc.input); got != tc.want {
			t.Errorf("pad2(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

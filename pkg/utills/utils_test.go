package utils

import "testing"

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"":          false,
		"abc":       false,
		"abcdef":    false,
		"123456":    false,
		"abc123":    true,
		"pässwört1": true,
		"a1":        false,
	}
	for in, want := range cases {
		if got := StrongPassword(in); got != want {
			t.Errorf("StrongPassword(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Bella@HDTN.local "); got != "bella@hdtn.local" {
		t.Fatalf("got %q", got)
	}
}

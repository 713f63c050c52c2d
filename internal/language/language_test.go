package language

import (
	"reflect"
	"testing"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"en":      "English",
		"eng":     "English",
		"english": "English",
		"fre":     "French",
		"":        "Unknown",
		"xx":      "XX",
	}
	for code, want := range cases {
		if got := DisplayName(code); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestDescribeCodesCollapsesAliases(t *testing.T) {
	if got := DescribeCodes([]string{"eng", "en", "english", "spa"}); got != "English, Spanish" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestSetContains(t *testing.T) {
	set := NewSet([]string{"ENG", "en", " eng ", ""})

	if got := set.Codes(); !reflect.DeepEqual(got, []string{"eng", "en"}) {
		t.Fatalf("unexpected codes %v", got)
	}
	if !set.Contains("eng") || !set.Contains("ENG") {
		t.Fatal("expected case-insensitive match")
	}
	if set.Contains("english") {
		t.Fatal("no alias expansion: english not configured")
	}
	if set.Contains("") || set.Contains("   ") {
		t.Fatal("empty tags never match")
	}
}

func TestSetContainsAny(t *testing.T) {
	set := NewSet([]string{"eng"})
	if !set.ContainsAny([]string{"jpn", "eng"}) {
		t.Fatal("expected match on second tag")
	}
	if set.ContainsAny([]string{"jpn", "spa"}) {
		t.Fatal("expected no match")
	}
	if set.ContainsAny(nil) {
		t.Fatal("empty list never matches")
	}
}

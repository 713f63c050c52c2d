package language

import "strings"

// Set is the accepted-code set a stream language tag is matched against.
// Matching is literal and case-insensitive; no alias expansion happens here,
// so a set of {"eng", "en"} does not match "english" unless configured.
type Set struct {
	codes   map[string]struct{}
	ordered []string
}

// NewSet builds a Set from configured codes, lowercasing and deduplicating.
func NewSet(codes []string) Set {
	set := Set{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, dup := set.codes[code]; dup {
			continue
		}
		set.codes[code] = struct{}{}
		set.ordered = append(set.ordered, code)
	}
	return set
}

// Contains reports whether a stream language tag is accepted. Empty or
// missing tags never match.
func (s Set) Contains(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	_, ok := s.codes[tag]
	return ok
}

// ContainsAny reports whether any tag in the list is accepted.
func (s Set) ContainsAny(tags []string) bool {
	for _, tag := range tags {
		if s.Contains(tag) {
			return true
		}
	}
	return false
}

// Codes returns the accepted codes in configuration order.
func (s Set) Codes() []string {
	return append([]string(nil), s.ordered...)
}

// Empty reports whether no codes are configured.
func (s Set) Empty() bool { return len(s.codes) == 0 }

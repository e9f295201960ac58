// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package slug converts entity names into ZIM URL path segments.

This is deliberately NOT the teacher's pkg/slug (NFD-normalize, lowercase,
hyphenate): names here keep their case and characters in the ZIM path,
so the transform is a narrow character substitution rather than a
folding normalization. It is not reversible ("a b" and "a+b" give the
same slug); the planner reports such collisions. Spaces become "+" (ZIM
URLs read more naturally that way, matching the teacher's own public URLs)
and "/" becomes "__" since a literal slash would otherwise introduce a
spurious path segment. Every other character, including case and unicode,
passes through untouched.

web/assets/scripts/search.js carries a hand-ported copy of Normalize for
the client-side search index, which never sees this package at build
time. The two must stay in lockstep; slug_test.go's golden cases pin the
rule on the Go side.
*/
package slug

import "strings"

// Normalize converts an entity name into its ZIM path segment.
func Normalize(name string) string {
	replacer := strings.NewReplacer(
		" ", "+",
		"/", "__",
	)
	return replacer.Replace(name)
}

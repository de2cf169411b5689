// Package roles owns the canonical role names and the legacy aliases that
// older tokens and clients still send.
package roles

import "strings"

type Role string

const (
	Author      Role = "author"
	Reviewer    Role = "reviewer"
	Coordinator Role = "coordinator"

	// Legacy names, accepted on input and in guards.
	Publisher Role = "publisher"
	Admin     Role = "admin"
)

// canonicals maps every accepted spelling to its canonical role.
var canonicals = map[string]Role{
	"author":      Author,
	"publisher":   Author,
	"reviewer":    Reviewer,
	"coordinator": Coordinator,
	"admin":       Coordinator,
}

// aliases lists, per canonical role, every name that means it.
var aliases = map[Role][]Role{
	Author:      {Author, Publisher},
	Reviewer:    {Reviewer},
	Coordinator: {Coordinator, Admin},
}

// Canonical resolves a single role name. The second result is false for
// names that map to nothing.
func Canonical(name string) (Role, bool) {
	r, ok := canonicals[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// Normalize maps raw role input to a deduplicated canonical set, keeping
// first-seen order. Input that maps to nothing yields [author].
func Normalize(inputs []string) []Role {
	out := make([]Role, 0, len(inputs))
	seen := make(map[Role]bool, len(inputs))
	for _, in := range inputs {
		r, ok := Canonical(in)
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	if len(out) == 0 {
		return []Role{Author}
	}
	return out
}

// Strings converts roles to their string form.
func Strings(rs []Role) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// Expand returns every role name a guard on required must admit: the
// canonical role of each requirement plus all of its aliases.
func Expand(required ...string) []string {
	out := make([]string, 0, len(required)*2)
	seen := make(map[string]bool)
	for _, name := range required {
		c, ok := Canonical(name)
		if !ok {
			continue
		}
		for _, a := range aliases[c] {
			if !seen[string(a)] {
				seen[string(a)] = true
				out = append(out, string(a))
			}
		}
	}
	return out
}

// Allowed reports whether a caller holding callerRoles passes a guard on
// required. An empty requirement admits any authenticated caller.
func Allowed(callerRoles []string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	accepted := make(map[string]bool)
	for _, r := range Expand(required...) {
		accepted[r] = true
	}
	for _, r := range Expand(callerRoles...) {
		if accepted[r] {
			return true
		}
	}
	return false
}

// Has reports whether callerRoles contains role after alias resolution.
func Has(callerRoles []string, role Role) bool {
	for _, name := range callerRoles {
		if r, ok := Canonical(name); ok && r == role {
			return true
		}
	}
	return false
}

package models

import "strings"

// AliasPolicy protects an ambiguous alias. Exclusion phrases are checked
// first and always win; required-context terms must appear within Window
// words of the match. A zero Window means the configured default applies.
type AliasPolicy struct {
	RequireContext []string
	Window         int
	Exclude        []string
}

// TickerEntry is one watched ticker with its detection aliases.
// Read-only for the lifetime of a run.
type TickerEntry struct {
	Symbol        string
	CanonicalName string
	Aliases       []string
	// policies keyed by lowercased alias; most aliases have none
	Policies map[string]AliasPolicy
}

// PolicyFor returns the disambiguation policy configured for an alias, if any.
func (e TickerEntry) PolicyFor(alias string) (AliasPolicy, bool) {
	p, ok := e.Policies[strings.ToLower(alias)]
	return p, ok
}

package git

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoIdentities is returned when an identity filter would be empty.
var ErrNoIdentities = errors.New("no author identities to exclude")

// IdentityFilter is the ordered set of author strings whose commits are
// excluded from mining. It is read-only once built.
type IdentityFilter struct {
	identities []string
	pattern    *regexp.Regexp
}

// NewIdentityFilter builds a filter from the given identities. Blank entries
// and duplicates are dropped; at least one identity must remain.
func NewIdentityFilter(identities ...string) (IdentityFilter, error) {
	seen := make(map[string]bool, len(identities))
	kept := make([]string, 0, len(identities))
	for _, id := range identities {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}
	if len(kept) == 0 {
		return IdentityFilter{}, ErrNoIdentities
	}
	f := IdentityFilter{identities: kept}
	// Quoted literals always compile.
	f.pattern = regexp.MustCompile(f.AuthorPattern())
	return f, nil
}

// Identities returns a copy of the filter entries in insertion order.
func (f IdentityFilter) Identities() []string {
	return append([]string(nil), f.identities...)
}

// Len returns the number of identities.
func (f IdentityFilter) Len() int {
	return len(f.identities)
}

// AuthorPattern joins the quoted identities into one alternation, the
// pattern git log --author would take.
func (f IdentityFilter) AuthorPattern() string {
	quoted := make([]string, len(f.identities))
	for i, id := range f.identities {
		quoted[i] = regexp.QuoteMeta(id)
	}
	return strings.Join(quoted, "|")
}

// Matches reports whether author ("Name <email>") contains any identity,
// the way git log --author matches.
func (f IdentityFilter) Matches(author string) bool {
	if f.pattern == nil || author == "" {
		return false
	}
	return f.pattern.MatchString(author)
}

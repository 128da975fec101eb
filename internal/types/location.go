package types

import "strings"

// LocationSet is an ordered set of city names: the primary location first,
// followed by up to four related ones. Entries are unique case-insensitively.
type LocationSet []string

// Primary returns the primary location (index 0) or "" for an empty set.
func (s LocationSet) Primary() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Contains reports whether name is already in the set, ignoring case.
func (s LocationSet) Contains(name string) bool {
	for _, existing := range s {
		if strings.EqualFold(existing, name) {
			return true
		}
	}
	return false
}

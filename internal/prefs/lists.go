package prefs

import (
	"slices"
	"strings"

	"github.com/dukerupert/jobdeck/internal/model"
)

// List fields have set semantics with insertion order preserved: entries are
// trimmed, empty input is rejected, and duplicates (case-sensitive exact
// match) are not inserted. Each editor reports whether the list changed.

func AddKeyword(p *model.Preferences, keyword string) bool {
	var changed bool
	p.Keywords, changed = appendUnique(p.Keywords, keyword)
	return changed
}

func RemoveKeyword(p *model.Preferences, keyword string) bool {
	var changed bool
	p.Keywords, changed = removeExact(p.Keywords, keyword)
	return changed
}

func AddLocation(p *model.Preferences, location string) bool {
	var changed bool
	p.Locations, changed = appendUnique(p.Locations, location)
	return changed
}

func RemoveLocation(p *model.Preferences, location string) bool {
	var changed bool
	p.Locations, changed = removeExact(p.Locations, location)
	return changed
}

func AddJobType(p *model.Preferences, jobType string) bool {
	var changed bool
	p.JobTypes, changed = appendUnique(p.JobTypes, jobType)
	return changed
}

func RemoveJobType(p *model.Preferences, jobType string) bool {
	var changed bool
	p.JobTypes, changed = removeExact(p.JobTypes, jobType)
	return changed
}

func appendUnique(list []string, value string) ([]string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || slices.Contains(list, trimmed) {
		return list, false
	}
	return append(list, trimmed), true
}

func removeExact(list []string, value string) ([]string, bool) {
	idx := slices.Index(list, value)
	if idx < 0 {
		return list, false
	}
	return slices.Delete(list, idx, idx+1), true
}

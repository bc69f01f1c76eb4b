// Package rules matches transaction descriptions against per-account
// substring rules to auto-tag imported transactions.
package rules

import (
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Match returns the union of tag sets of every rule whose Contains substring
// appears in description, case-insensitively. There is no precedence between
// rules; a description matching several rules receives all of their tags.
// The result is deduplicated by tag id.
func Match(rules []model.Rule, description string) []model.Tag {
	desc := strings.ToLower(description)

	var tags []model.Tag
	seen := make(map[int]bool)
	for _, rule := range rules {
		if rule.Contains == "" {
			continue
		}
		if !strings.Contains(desc, strings.ToLower(rule.Contains)) {
			continue
		}
		for _, tag := range rule.Tags {
			if seen[tag.ID] {
				continue
			}
			seen[tag.ID] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

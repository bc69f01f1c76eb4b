package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tally-dev/tally/internal/model"
)

var (
	dining = model.Tag{ID: 1, Name: "Dining"}
	retail = model.Tag{ID: 2, Name: "Retail"}
	travel = model.Tag{ID: 3, Name: "Travel"}
)

func TestMatch_UnionOfAllMatches(t *testing.T) {
	rs := []model.Rule{
		{Contains: "Coffee", Tags: []model.Tag{dining}},
		{Contains: "Shop", Tags: []model.Tag{retail}},
	}

	got := Match(rs, "Coffee Shop")
	assert.ElementsMatch(t, []model.Tag{dining, retail}, got)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	rs := []model.Rule{{Contains: "woolworths", Tags: []model.Tag{retail}}}

	got := Match(rs, "WOOLWORTHS METRO MELBOURNE")
	assert.Equal(t, []model.Tag{retail}, got)
}

func TestMatch_DedupesByTagID(t *testing.T) {
	sameTagDifferentName := model.Tag{ID: 1, Name: "Eating Out"}
	rs := []model.Rule{
		{Contains: "Coffee", Tags: []model.Tag{dining}},
		{Contains: "Shop", Tags: []model.Tag{sameTagDifferentName, travel}},
	}

	got := Match(rs, "Coffee Shop")
	assert.Len(t, got, 2, "tag 1 appears once despite two matches")
	assert.Equal(t, []model.Tag{dining, travel}, got)
}

func TestMatch_NoMatches(t *testing.T) {
	rs := []model.Rule{{Contains: "Coffee", Tags: []model.Tag{dining}}}
	assert.Empty(t, Match(rs, "HARDWARE STORE"))
}

func TestMatch_EmptyContainsNeverMatches(t *testing.T) {
	rs := []model.Rule{{Contains: "", Tags: []model.Tag{dining}}}
	assert.Empty(t, Match(rs, "anything"))
}

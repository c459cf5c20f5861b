package services

import (
	"sort"
	"strings"

	"moodtunes/internal/models"
)

// MinDistinctLanguages is how many languages a selection should span
const MinDistinctLanguages = 3

// EnsureLanguageDiversity rebuilds a selection that spans fewer than
// MinDistinctLanguages inferred languages. See ensureDiversity.
func EnsureLanguageDiversity(pool []*models.VideoCandidate, topN int) []*models.VideoCandidate {
	return ensureDiversity(pool, topN, MinDistinctLanguages)
}

// ensureDiversity passes pool through unchanged when it is smaller than
// minLanguages or already spans minLanguages languages. Otherwise it takes the
// most viewed video of every language present, largest language group first,
// and fills up to topN with the most viewed of the rest. Groups of equal size
// are ordered by language name. When topN is smaller than the number of
// groups only the first topN groups are represented.
func ensureDiversity(pool []*models.VideoCandidate, topN, minLanguages int) []*models.VideoCandidate {
	if len(pool) < minLanguages {
		return pool
	}

	type group struct {
		language string
		videos   []*models.VideoCandidate
	}

	var groups []*group
	index := make(map[string]*group)
	for _, v := range pool {
		g, ok := index[v.Language]
		if !ok {
			g = &group{language: v.Language}
			index[v.Language] = g
			groups = append(groups, g)
		}
		g.videos = append(g.videos, v)
	}

	if len(groups) >= minLanguages {
		return pool
	}
	if topN <= 0 {
		return []*models.VideoCandidate{}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].videos) != len(groups[j].videos) {
			return len(groups[i].videos) > len(groups[j].videos)
		}
		return groups[i].language < groups[j].language
	})

	selected := make([]*models.VideoCandidate, 0, topN)
	chosen := make(map[*models.VideoCandidate]bool)
	for _, g := range groups {
		top := g.videos[0]
		for _, v := range g.videos[1:] {
			if v.ViewCount > top.ViewCount {
				top = v
			}
		}
		selected = append(selected, top)
		chosen[top] = true
	}
	if len(selected) >= topN {
		return selected[:topN]
	}

	remaining := make([]*models.VideoCandidate, 0, len(pool))
	for _, v := range pool {
		if !chosen[v] {
			remaining = append(remaining, v)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].ViewCount > remaining[j].ViewCount
	})

	return append(selected, truncate(remaining, topN-len(selected))...)
}

// preferLanguage keeps up to quota videos in the requested language ahead of
// videos in other languages. When fewer than quota match, all matches are kept.
func preferLanguage(pool []*models.VideoCandidate, language string, topN, quota int) []*models.VideoCandidate {
	var matches, others []*models.VideoCandidate
	for _, v := range pool {
		if strings.EqualFold(v.Language, language) {
			matches = append(matches, v)
		} else {
			others = append(others, v)
		}
	}

	if len(matches) > quota {
		matches = matches[:quota]
	}

	selected := make([]*models.VideoCandidate, 0, topN)
	selected = append(selected, matches...)
	if slots := topN - len(matches); slots > 0 {
		selected = append(selected, truncate(others, slots)...)
	}
	return selected
}

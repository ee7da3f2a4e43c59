package domain

import (
	"math"
	"net/url"
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Exact title match bonus
	ScoreExactTitleBonus = 200.0

	// Host matches count for less than title matches
	ScoreHostWeight = 0.8
)

// LinkCandidate is a link matched by a search query.
type LinkCandidate struct {
	Link       LinkItem `json:"link"`
	CategoryID string   `json:"categoryId"`
	// Path holds the titles from the category down to the link's parent.
	Path  []string `json:"path"`
	Score float64  `json:"score"`
}

// SearchLinks ranks every non-folder link in the tree against query, best
// first. Links that do not match at all are left out.
func SearchLinks(doc DataSchema, query string) []LinkCandidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var candidates []LinkCandidate
	for _, c := range doc.Categories {
		walkLinks(c.Links, []string{c.Title}, func(l LinkItem, path []string) {
			score := ScoreLink(query, l)
			if score == 0.0 {
				return
			}
			candidates = append(candidates, LinkCandidate{
				Link:       l,
				CategoryID: c.ID,
				Path:       path,
				Score:      score,
			})
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// BestLink returns the highest ranked link for query.
func BestLink(doc DataSchema, query string) (LinkItem, bool) {
	candidates := SearchLinks(doc, query)
	if len(candidates) == 0 {
		return LinkItem{}, false
	}
	return candidates[0].Link, true
}

func walkLinks(links []LinkItem, path []string, fn func(LinkItem, []string)) {
	for _, l := range links {
		if l.IsFolder() {
			walkLinks(l.Children, append(cloneStrings(path), l.Title), fn)
			continue
		}
		fn(l, path)
	}
}

// ScoreLink scores a link by its title first, then by its hostname.
func ScoreLink(query string, link LinkItem) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0.0
	}

	titleScore := scoreTitle(query, strings.ToLower(link.Title))
	hostScore := scoreHost(query, linkHost(link.URL)) * ScoreHostWeight
	return math.Max(titleScore, hostScore)
}

func scoreTitle(query, title string) float64 {
	if title == "" {
		return 0.0
	}

	if query == title {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	if strings.HasPrefix(title, query) {
		return ScorePrefixMatch
	}

	if index := strings.Index(title, query); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(title)))
		return ScoreSubstringMatch + substringBonus
	}

	// Every query word somewhere in the title
	words := strings.Fields(query)
	if len(words) > 1 {
		allMatch := true
		for _, word := range words {
			if !strings.Contains(title, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	similarity := calculateSimilarity(query, title)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}
	return 0.0
}

// scoreHost matches the query against the best hostname fragment, favouring
// fragments closer to the start ("git" beats "lab" in git.lab.example.com).
func scoreHost(query, host string) float64 {
	fragments := hostnameFragments(host)
	best := 0.0
	for i, frag := range fragments {
		if s := scoreFragment(query, frag, i); s > best {
			best = s
		}
	}
	return best
}

func scoreFragment(query, frag string, position int) float64 {
	if query == "" || frag == "" {
		return 0.0
	}

	if query == frag {
		return ScoreExactMatch + calculatePositionBonus(position)
	}

	if strings.HasPrefix(frag, query) {
		return ScorePrefixMatch + calculatePositionBonus(position)
	}

	if index := strings.Index(frag, query); index >= 0 {
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(frag)))
		return ScoreSubstringMatch + substringBonus
	}
	return 0.0
}

func linkHost(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// hostnameFragments splits a hostname on dots and dashes, dropping the TLD.
func hostnameFragments(host string) []string {
	if host == "" {
		return nil
	}
	labels := strings.Split(host, ".")
	if len(labels) > 1 {
		labels = labels[:len(labels)-1]
	}
	var out []string
	for _, label := range labels {
		for _, part := range strings.Split(label, "-") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// calculateSimilarity is the share of query characters found in s.
func calculateSimilarity(query, s string) float64 {
	if query == "" || s == "" {
		return 0.0
	}

	matches := 0
	for _, c := range query {
		if strings.ContainsRune(s, c) {
			matches++
		}
	}
	return float64(matches) / float64(len([]rune(query)))
}

package resolve

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
)

// Match is a person found by a name index search
type Match struct {
	Candidate
	Score float64 `json:"score"`
}

// NameIndex is an inverted index over name tokens. It backs partial and
// typo-tolerant lookups; exact resolution goes through Resolver.
type NameIndex struct {
	// term -> person id -> occurrences
	index   map[string]map[string]int
	docFreq map[string]int
	people  map[string]Candidate
	mu      sync.RWMutex
}

// NewNameIndex indexes the names of people
func NewNameIndex(people []dataset.Person) *NameIndex {
	idx := &NameIndex{
		index:   make(map[string]map[string]int),
		docFreq: make(map[string]int),
		people:  make(map[string]Candidate, len(people)),
	}
	for _, p := range people {
		idx.add(p)
	}
	return idx
}

// Len returns the number of indexed people
func (n *NameIndex) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.people)
}

func (n *NameIndex) add(p dataset.Person) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.people[p.ID] = Candidate{ID: p.ID, Name: p.Name, Birth: p.Birth}

	seen := make(map[string]bool)
	for _, term := range tokenize(p.Name) {
		postings, ok := n.index[term]
		if !ok {
			postings = make(map[string]int)
			n.index[term] = postings
		}
		postings[p.ID]++

		if !seen[term] {
			n.docFreq[term]++
			seen[term] = true
		}
	}
}

// Search returns people whose names contain every token of query, best first
func (n *NameIndex) Search(query string) []Match {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Match{}
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	var candidates map[string]bool
	for i, term := range tokens {
		termPeople := make(map[string]bool)
		for id := range n.index[term] {
			termPeople[id] = true
		}

		if i == 0 {
			candidates = termPeople
			continue
		}
		for id := range candidates {
			if !termPeople[id] {
				delete(candidates, id)
			}
		}
	}

	return n.score(candidates, tokens)
}

// SearchFuzzy matches each query token against indexed terms within
// maxDistance edits. A person matches when every token does.
func (n *NameIndex) SearchFuzzy(query string, maxDistance int) []Match {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Match{}
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	var candidates map[string]bool
	matchedTerms := make([]string, 0, len(tokens))
	for i, token := range tokens {
		termPeople := make(map[string]bool)
		for term, postings := range n.index {
			if levenshteinDistance(token, term) > maxDistance {
				continue
			}
			matchedTerms = append(matchedTerms, term)
			for id := range postings {
				termPeople[id] = true
			}
		}

		if i == 0 {
			candidates = termPeople
			continue
		}
		for id := range candidates {
			if !termPeople[id] {
				delete(candidates, id)
			}
		}
	}

	return n.score(candidates, matchedTerms)
}

// Suggest returns up to limit people whose names are close to name
func (n *NameIndex) Suggest(name string, limit int) []Candidate {
	matches := n.Search(name)
	if len(matches) == 0 {
		matches = n.SearchFuzzy(name, 2)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Candidate, len(matches))
	for i, m := range matches {
		out[i] = m.Candidate
	}
	return out
}

// score ranks people by TF-IDF over terms. Ties are broken by identifier so
// results are stable.
func (n *NameIndex) score(ids map[string]bool, terms []string) []Match {
	total := float64(len(n.people))
	results := make([]Match, 0, len(ids))

	for id := range ids {
		score := 0.0
		for _, term := range terms {
			tf := float64(n.index[term][id])
			idf := 1.0
			if df := float64(n.docFreq[term]); df > 0 && total > 0 {
				idf = math.Log((total + 1) / (df + 1))
			}
			score += tf * (1.0 + idf)
		}
		results = append(results, Match{Candidate: n.people[id], Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

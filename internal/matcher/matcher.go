package matcher

import (
	"sort"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"cmdpal/internal/domain"
)

// Match is one ranked entry of a match result
type Match struct {
	// Index is the position of the command in the matched set
	Index   int
	Command domain.Command
	Score   int

	// NameMatches and InfoMatches hold rune indices of matched characters
	NameMatches []int
	InfoMatches []int
}

// Options configures the matcher behavior.
type Options struct {
	// CacheSize is the number of (generation, query) results kept. 0 disables caching.
	CacheSize int

	// InfoPenalty is subtracted from info-only scores so that a name match of
	// equal quality ranks above it.
	InfoPenalty int

	Weights Weights
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		CacheSize:   256,
		InfoPenalty: 10,
		Weights:     DefaultWeights(),
	}
}

type cacheKey struct {
	generation uint64
	query      string
}

// Matcher ranks commands against a query.
type Matcher struct {
	opts  Options
	cache *lru.Cache[cacheKey, []Match]
}

// New creates a matcher with the given options.
func New(opts Options) *Matcher {
	m := &Matcher{opts: opts}
	if opts.CacheSize > 0 {
		// only fails for a non-positive size
		m.cache, _ = lru.New[cacheKey, []Match](opts.CacheSize)
	}
	return m
}

// Match ranks set against query. generation identifies the contents of set:
// callers must bump it whenever the set changes, since results are cached per
// (generation, query).
func (m *Matcher) Match(generation uint64, query string, set domain.CommandSet) []Match {
	key := cacheKey{generation: generation, query: query}
	if m.cache != nil {
		if cached, ok := m.cache.Get(key); ok {
			return cached
		}
	}

	results := rank(query, set, m.opts)

	if m.cache != nil {
		m.cache.Add(key, results)
	}
	return results
}

// Purge drops all cached results.
func (m *Matcher) Purge() {
	if m.cache != nil {
		m.cache.Purge()
	}
}

// Rank is the uncached form of Match with default options.
func Rank(query string, set domain.CommandSet) []Match {
	return rank(query, set, DefaultOptions())
}

func rank(query string, set domain.CommandSet, opts Options) []Match {
	query = strings.TrimSpace(query)

	if query == "" {
		results := make([]Match, len(set))
		for i, cmd := range set {
			results[i] = Match{Index: i, Command: cmd}
		}
		return results
	}

	q := lowerRunes([]rune(query))
	results := make([]Match, 0, len(set))

	for i, cmd := range set {
		nameScore, namePos := scoreField(q, cmd.Name, opts.Weights, true)
		infoScore, infoPos := scoreField(q, cmd.Info, opts.Weights, false)
		if namePos == nil && infoPos == nil {
			continue
		}

		score := nameScore
		if infoPos != nil {
			info := infoScore - opts.InfoPenalty
			if info < 1 {
				info = 1
			}
			if namePos == nil || info > score {
				score = info
			}
		}

		results = append(results, Match{
			Index:       i,
			Command:     cmd,
			Score:       score,
			NameMatches: namePos,
			InfoMatches: infoPos,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func scoreField(query []rune, text string, w Weights, exactAllowed bool) (int, []int) {
	if text == "" {
		return 0, nil
	}
	original := []rune(text)
	lower := lowerRunes(original)
	positions := locate(query, lower, original)
	if positions == nil {
		return 0, nil
	}
	return w.score(query, lower, original, positions, exactAllowed), positions
}

// lowerRunes lowercases rune by rune so indices line up with the original text.
func lowerRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// EchoQuery appends " {query}" to the name of every command whose name does
// not contain the query, so server-side search hits stay matchable by the
// local filter. The input set is not modified.
func EchoQuery(set domain.CommandSet, query string) domain.CommandSet {
	query = strings.TrimSpace(query)
	out := set.Clone()
	if query == "" {
		return out
	}
	needle := strings.ToLower(query)
	for i := range out {
		if !strings.Contains(strings.ToLower(out[i].Name), needle) {
			out[i].Name = out[i].Name + " {" + query + "}"
		}
	}
	return out
}

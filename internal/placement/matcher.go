package placement

import (
	"strings"
	"sync"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

// Matcher resolves a free-text name or register number to a roster entry.
type Matcher interface {
	Resolve(query string) (models.Student, bool)
}

// MatchStrategy decides which roster entry, if any, a query refers to.
type MatchStrategy interface {
	Match(query string, roster []models.Student) (models.Student, bool)
}

// FirstMatchStrategy applies exact name, exact register number, token subset
// and register-number substring checks in that order and returns the first
// acceptable candidate. Candidates are not ranked: with "SOUJANYA M BHAT" and
// "SOUJANYA K BHAT" on the roster, the query "SOUJANYA BHAT" resolves to
// whichever appears first.
type FirstMatchStrategy struct{}

// Match implements MatchStrategy.
func (FirstMatchStrategy) Match(query string, roster []models.Student) (models.Student, bool) {
	q := Normalize(query)
	if q == "" {
		return models.Student{}, false
	}
	for _, s := range roster {
		if Normalize(s.Name) == q {
			return s, true
		}
	}
	for _, s := range roster {
		if reg := Normalize(s.RegNo); reg != "" && reg == q {
			return s, true
		}
	}

	qTokens := Tokens(q)
	for _, s := range roster {
		if tokenSubsetMatch(qTokens, Tokens(s.Name)) {
			return s, true
		}
	}

	for _, s := range roster {
		reg := Normalize(s.RegNo)
		if reg == "" {
			continue
		}
		if strings.Contains(reg, q) || strings.Contains(q, reg) {
			return s, true
		}
	}
	return models.Student{}, false
}

func tokenSubsetMatch(q, name map[string]struct{}) bool {
	if len(q) == 0 || len(name) == 0 {
		return false
	}
	if !isSubset(q, name) && !isSubset(name, q) {
		return false
	}
	common := intersectionSize(q, name)
	if common >= 2 {
		return true
	}
	return len(q) == 1 && len(name) == 1 && common == 1
}

type memoEntry struct {
	student models.Student
	found   bool
}

// RosterCache owns one roster snapshot together with the match memo built
// against it. The memo lives exactly as long as the snapshot.
type RosterCache struct {
	mu       sync.Mutex
	strategy MatchStrategy
	roster   []models.Student
	memo     map[string]memoEntry
	loaded   bool
}

// NewRosterCache builds an empty cache. A nil strategy selects FirstMatchStrategy.
func NewRosterCache(strategy MatchStrategy) *RosterCache {
	if strategy == nil {
		strategy = FirstMatchStrategy{}
	}
	return &RosterCache{strategy: strategy, memo: make(map[string]memoEntry)}
}

// Load replaces the roster snapshot and clears the memo.
func (c *RosterCache) Load(roster []models.Student) {
	snapshot := make([]models.Student, len(roster))
	copy(snapshot, roster)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.roster = snapshot
	c.memo = make(map[string]memoEntry)
	c.loaded = true
}

// Invalidate drops both the snapshot and the memo.
func (c *RosterCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roster = nil
	c.memo = make(map[string]memoEntry)
	c.loaded = false
}

// Loaded reports whether a snapshot is present.
func (c *RosterCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Students returns a copy of the current snapshot.
func (c *RosterCache) Students() []models.Student {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Student, len(c.roster))
	copy(out, c.roster)
	return out
}

// Resolve implements Matcher. Both hits and misses are memoized per
// normalized query.
func (c *RosterCache) Resolve(query string) (models.Student, bool) {
	key := Normalize(query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.memo[key]; ok {
		return entry.student, entry.found
	}
	student, found := c.strategy.Match(key, c.roster)
	c.memo[key] = memoEntry{student: student, found: found}
	return student, found
}

// MemoSize reports the number of memoized queries.
func (c *RosterCache) MemoSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.memo)
}

// Resolve matches query against roster without memoization.
func Resolve(query string, roster []models.Student) (models.Student, bool) {
	return FirstMatchStrategy{}.Match(query, roster)
}

// StudentKey returns the identity used to count a name in aggregations: the
// normalized roster name when the matcher resolves it, the normalized raw
// name otherwise.
func StudentKey(m Matcher, raw string) (string, models.Student, bool) {
	if m != nil {
		if s, ok := m.Resolve(raw); ok {
			return Normalize(s.Name), s, true
		}
	}
	return Normalize(raw), models.Student{}, false
}

package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// TermsLibrary is an in-memory catalog of reusable special terms. Presets
// are seeded at startup; terms saved from contracts accumulate alongside
// them and rise in search results as they get used.
type TermsLibrary struct {
	mu    sync.RWMutex
	terms map[string]*model.SpecialTerm
}

func NewTermsLibrary() *TermsLibrary {
	return &TermsLibrary{
		terms: make(map[string]*model.SpecialTerm),
	}
}

// SeedDefaults loads the preset terms. Presets already in the library keep
// their usage counts.
func (l *TermsLibrary) SeedDefaults() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, preset := range model.DefaultSpecialTerms {
		if _, ok := l.terms[preset.ID]; ok {
			continue
		}
		term := preset
		term.CreatedAt = time.Now()
		l.terms[term.ID] = &term
	}
}

// Save stores a term in the library. An empty ID gets a generated one.
func (l *TermsLibrary) Save(term model.SpecialTerm) *model.SpecialTerm {
	l.mu.Lock()
	defer l.mu.Unlock()

	if term.ID == "" {
		term.ID = uuid.New().String()
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now()
	}
	term.IsActive = true
	l.terms[term.ID] = &term

	saved := term
	return &saved
}

// Search returns active terms matching the keyword or category, most used
// first. Empty keyword and category return the whole library.
func (l *TermsLibrary) Search(keyword, category string) []model.SpecialTerm {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	results := make([]model.SpecialTerm, 0)
	for _, term := range l.terms {
		if !term.IsActive {
			continue
		}
		if category != "" && term.Category != category {
			continue
		}
		if keyword != "" && !termMatchesKeyword(term, keyword) {
			continue
		}
		results = append(results, *term)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].UsageCount != results[j].UsageCount {
			return results[i].UsageCount > results[j].UsageCount
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func termMatchesKeyword(term *model.SpecialTerm, keyword string) bool {
	if strings.Contains(strings.ToLower(term.Title), keyword) ||
		strings.Contains(strings.ToLower(term.Content), keyword) {
		return true
	}
	for _, k := range term.Keywords {
		if strings.Contains(strings.ToLower(k), keyword) {
			return true
		}
	}
	return false
}

// IncrementUsage bumps a term's usage count. Unknown IDs are ignored.
func (l *TermsLibrary) IncrementUsage(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if term, ok := l.terms[id]; ok {
		term.UsageCount++
	}
}

// Get returns a term by ID, or nil.
func (l *TermsLibrary) Get(id string) *model.SpecialTerm {
	l.mu.RLock()
	defer l.mu.RUnlock()

	term, ok := l.terms[id]
	if !ok {
		return nil
	}
	copied := *term
	return &copied
}

// Defaults returns the preset terms currently in the library.
func (l *TermsLibrary) Defaults() []model.SpecialTerm {
	l.mu.RLock()
	defer l.mu.RUnlock()

	results := make([]model.SpecialTerm, 0)
	for _, term := range l.terms {
		if term.Source == model.TermSourceDefault && term.IsActive {
			results = append(results, *term)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// Fixed returns the clauses included in every final document regardless of
// selection.
func (l *TermsLibrary) Fixed() []string {
	return model.FixedSpecialTerms
}

// Count returns the number of terms in the library.
func (l *TermsLibrary) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.terms)
}

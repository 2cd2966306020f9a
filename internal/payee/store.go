package payee

import (
	"strings"
	"sync"
	"time"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
)

// Store is the in-memory three-tier learned payee memory. The key space is a
// shallow fixed-depth hierarchy, so three flat keys in one map replace a
// tree: (payee, iban), (iban), (payee).
//
// Learn and Forget serialize against Lookup so a reader never observes a
// partially written tier set.
type Store struct {
	entries map[string]model.LearnedPayee
	mu      sync.RWMutex
}

// NewStore creates an empty learned payee store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]model.LearnedPayee),
	}
}

// compositeKey builds the stable key used for the in-memory map and for
// export/import round-trips.
func compositeKey(tier model.PayeeTier, normalizedPayee, iban string) string {
	return string(tier) + "|" + normalizedPayee + "|" + iban
}

// Lookup resolves a category for the given payee and IBAN, trying tiers in
// order: combined, IBAN-only, payee-only. Returns the first hit.
func (s *Store) Lookup(payeeName, iban string) (model.LearnedPayee, bool) {
	normalized := Normalize(payeeName)
	normalizedIBAN := NormalizeIBAN(iban)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if normalized != "" && normalizedIBAN != "" {
		if entry, ok := s.entries[compositeKey(model.TierPayeeIBAN, normalized, normalizedIBAN)]; ok {
			return entry, true
		}
	}
	if normalizedIBAN != "" {
		if entry, ok := s.entries[compositeKey(model.TierIBANOnly, "", normalizedIBAN)]; ok {
			return entry, true
		}
	}
	if normalized != "" {
		if entry, ok := s.entries[compositeKey(model.TierPayeeOnly, normalized, "")]; ok {
			return entry, true
		}
	}

	return model.LearnedPayee{}, false
}

// Learn records a user correction in every tier the supplied keys cover, so
// later partial-key lookups still benefit. Returns the entries written.
// At least one of payeeName and iban must be present.
func (s *Store) Learn(payeeName, iban, category string) ([]model.LearnedPayee, error) {
	normalized := Normalize(payeeName)
	normalizedIBAN := NormalizeIBAN(iban)

	if normalized == "" && normalizedIBAN == "" {
		return nil, common.ErrInvalidLearnInput
	}

	now := time.Now()
	var written []model.LearnedPayee

	if normalized != "" && normalizedIBAN != "" {
		written = append(written, model.LearnedPayee{
			Tier:        model.TierPayeeIBAN,
			Payee:       normalized,
			IBAN:        normalizedIBAN,
			Category:    category,
			LastUpdated: now,
		})
	}
	if normalizedIBAN != "" {
		written = append(written, model.LearnedPayee{
			Tier:        model.TierIBANOnly,
			IBAN:        normalizedIBAN,
			Category:    category,
			LastUpdated: now,
		})
	}
	if normalized != "" {
		written = append(written, model.LearnedPayee{
			Tier:        model.TierPayeeOnly,
			Payee:       normalized,
			Category:    category,
			LastUpdated: now,
		})
	}

	s.mu.Lock()
	for _, entry := range written {
		s.entries[compositeKey(entry.Tier, entry.Payee, entry.IBAN)] = entry
	}
	s.mu.Unlock()

	return written, nil
}

// Forget removes every tier keyed by the given normalized payee, including
// combined entries for any IBAN. Returns true iff anything was removed.
func (s *Store) Forget(payeeName string) bool {
	normalized := Normalize(payeeName)
	if normalized == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for key, entry := range s.entries {
		if entry.Payee == normalized {
			delete(s.entries, key)
			removed = true
		}
	}
	return removed
}

// Export returns the full memory keyed by composite string, suitable for
// backup. Import(Export()) leaves the store unchanged.
func (s *Store) Export() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.entries))
	for key, entry := range s.entries {
		out[key] = entry.Category
	}
	return out
}

// Import restores entries from an Export-shaped map and returns the number
// of entries applied. Keys that do not parse are skipped.
func (s *Store) Import(backup map[string]string) int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key, category := range backup {
		entry, ok := parseCompositeKey(key)
		if !ok {
			continue
		}
		entry.Category = category
		entry.LastUpdated = now
		s.entries[compositeKey(entry.Tier, entry.Payee, entry.IBAN)] = entry
		count++
	}
	return count
}

// Load replaces the store contents with entries from the persistent store.
// Returns the number of entries loaded.
func (s *Store) Load(entries []model.LearnedPayee) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]model.LearnedPayee, len(entries))
	for _, entry := range entries {
		s.entries[compositeKey(entry.Tier, entry.Payee, entry.IBAN)] = entry
	}
	return len(s.entries)
}

// Entries returns a snapshot of all learned entries.
func (s *Store) Entries() []model.LearnedPayee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.LearnedPayee, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	return out
}

// Size returns the number of distinct learned keys across all tiers.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// parseCompositeKey inverts compositeKey. The tier is everything before the
// first '|' and the IBAN everything after the last, so a payee containing
// '|' still round-trips.
func parseCompositeKey(key string) (model.LearnedPayee, bool) {
	first := strings.Index(key, "|")
	last := strings.LastIndex(key, "|")
	if first < 0 || last <= first {
		return model.LearnedPayee{}, false
	}

	entry := model.LearnedPayee{
		Tier:  model.PayeeTier(key[:first]),
		Payee: key[first+1 : last],
		IBAN:  key[last+1:],
	}

	switch entry.Tier {
	case model.TierPayeeIBAN:
		if entry.Payee == "" || entry.IBAN == "" {
			return model.LearnedPayee{}, false
		}
	case model.TierIBANOnly:
		if entry.Payee != "" || entry.IBAN == "" {
			return model.LearnedPayee{}, false
		}
	case model.TierPayeeOnly:
		if entry.Payee == "" || entry.IBAN != "" {
			return model.LearnedPayee{}, false
		}
	default:
		return model.LearnedPayee{}, false
	}

	return entry, true
}

// Package srs implements the fixed-ladder spaced repetition scheduler.
//
// Every mutating operation loads the whole store from the backend,
// changes it in memory and writes it back. There is no cross-process
// isolation: two writers racing the cycle overwrite each other
// (last-writer-wins), which is accepted for a single-device setup.
package srs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/reviewbox/internal/storage"
	"github.com/example/reviewbox/pkg/models"
)

// Intervals is the review ladder in days, indexed by review count and
// clamped at the last entry. An item sitting on the last rung is
// considered mastered.
var Intervals = []int{1, 3, 7, 14, 30}

// Confirmer asks the user to approve a destructive operation
type Confirmer interface {
	Confirm(message string) bool
}

// Scheduler owns the review store and all item lifecycle logic
type Scheduler struct {
	mu      sync.Mutex
	backend storage.Backend
	confirm Confirmer
	clock   Clock
	log     *zap.Logger
}

// New creates a scheduler backed by the given store. A nil clock falls
// back to the system clock.
func New(backend storage.Backend, confirm Confirmer, clock Clock, log *zap.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		backend: backend,
		confirm: confirm,
		clock:   clock,
		log:     log,
	}
}

// SaveItem creates the item if its key is new, otherwise replaces only
// the payload and refreshes LastModified. Scheduling state of an
// existing item is never touched by a re-save.
func (s *Scheduler) SaveItem(level models.Level, typ models.ItemType, id int, data map[string]interface{}) error {
	if !level.Valid() {
		return fmt.Errorf("unknown level %q", level)
	}
	if !typ.Valid() {
		return fmt.Errorf("unknown item type %q", typ)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	now := s.clock.Now()
	key := models.ItemKey(level, typ, id)

	if item, ok := store[key]; ok {
		item.Data = data
		item.LastModified = now
		store[key] = item
	} else {
		store[key] = models.ReviewItem{
			Level:          level,
			Type:           typ,
			ID:             id,
			Data:           data,
			SavedDate:      now,
			ReviewCount:    0,
			NextReviewDate: nextReview(now, 0),
			LastModified:   now,
		}
	}

	return s.backend.Save(store)
}

// AddItem is an alias for SaveItem
func (s *Scheduler) AddItem(level models.Level, typ models.ItemType, id int, data map[string]interface{}) error {
	return s.SaveItem(level, typ, id, data)
}

// CalculateNextReview returns the next review timestamp for an item
// with the given review count, measured from the current time
func (s *Scheduler) CalculateNextReview(reviewCount int) time.Time {
	return nextReview(s.clock.Now(), reviewCount)
}

// nextReview applies the interval ladder, clamped at the last rung
func nextReview(now time.Time, reviewCount int) time.Time {
	idx := reviewCount
	if idx > len(Intervals)-1 {
		idx = len(Intervals) - 1
	}
	return now.AddDate(0, 0, Intervals[idx])
}

// ReviewItem records a review outcome for the item under key.
// remembered advances the ladder by one rung; forgetting resets it to
// the start. A missing key is logged and ignored.
func (s *Scheduler) ReviewItem(key string, remembered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	item, ok := store[key]
	if !ok {
		s.log.Warn("review for unknown item", zap.String("key", key))
		return nil
	}

	now := s.clock.Now()
	if remembered {
		item.ReviewCount++
	} else {
		item.ReviewCount = 0
	}
	item.NextReviewDate = nextReview(now, item.ReviewCount)
	item.LastReviewed = &now
	item.LastModified = now
	store[key] = item

	return s.backend.Save(store)
}

// GetDueItems returns the items due at or before now, most overdue
// first. Empty level or type means no filter on that field.
func (s *Scheduler) GetDueItems(level models.Level, typ models.ItemType) ([]models.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	now := s.clock.Now()
	var due []models.ReviewItem
	for _, item := range filterItems(store, level, typ) {
		if !item.NextReviewDate.After(now) {
			due = append(due, item)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})
	return due, nil
}

// GetAllItems returns every item matching the filters, most recently
// added first
func (s *Scheduler) GetAllItems(level models.Level, typ models.ItemType) ([]models.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	items := filterItems(store, level, typ)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SavedDate.After(items[j].SavedDate)
	})
	return items, nil
}

// filterItems collects matching items in key order, so callers get a
// deterministic tie order out of the map
func filterItems(store models.Store, level models.Level, typ models.ItemType) []models.ReviewItem {
	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []models.ReviewItem
	for _, k := range keys {
		item := store[k]
		if level != "" && item.Level != level {
			continue
		}
		if typ != "" && item.Type != typ {
			continue
		}
		items = append(items, item)
	}
	return items
}

// GetStatistics aggregates progress counters. The level filter applies
// to the top-level counters only; ByLevel always fans out over all six
// levels regardless of the filter.
func (s *Scheduler) GetStatistics(level models.Level) (models.StatsReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return models.StatsReport{}, fmt.Errorf("failed to load store: %w", err)
	}

	now := s.clock.Now()
	report := models.StatsReport{
		ByLevel: make(map[models.Level]models.LevelStats, len(models.Levels)),
	}

	for _, item := range store {
		if level != "" && item.Level != level {
			continue
		}
		report.Total++
		if !item.NextReviewDate.After(now) {
			report.DueToday++
		}
		if item.ReviewCount > 0 {
			report.Reviewed++
		}
		if item.ReviewCount >= len(Intervals)-1 {
			report.Mastered++
		}
	}

	for _, lvl := range models.Levels {
		var ls models.LevelStats
		for _, item := range store {
			if item.Level != lvl {
				continue
			}
			ls.Total++
			if !item.NextReviewDate.After(now) {
				ls.DueToday++
			}
			switch item.Type {
			case models.TypeVocab:
				ls.Vocab++
			case models.TypeSentence:
				ls.Sentences++
			}
		}
		report.ByLevel[lvl] = ls
	}

	return report, nil
}

// RemoveItem deletes the item addressed by its composite identity
func (s *Scheduler) RemoveItem(level models.Level, typ models.ItemType, id int) error {
	return s.DeleteItem(models.ItemKey(level, typ, id))
}

// DeleteItem removes the entry under key. A missing key is a silent
// no-op; the store is persisted only when something was removed.
func (s *Scheduler) DeleteItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	if _, ok := store[key]; !ok {
		return nil
	}
	delete(store, key)
	return s.backend.Save(store)
}

// ResetAll wipes the whole store after user confirmation. It reports
// whether the wipe actually happened; a declined prompt is a normal
// negative outcome, not an error.
func (s *Scheduler) ResetAll() (bool, error) {
	if !s.confirm.Confirm("Delete all saved items and review progress? This cannot be undone.") {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(models.Store{}); err != nil {
		return false, fmt.Errorf("failed to clear store: %w", err)
	}
	s.log.Info("review store cleared")
	return true, nil
}

// Snapshot returns an independent copy of the current store, for
// export and bulk-import bookkeeping
func (s *Scheduler) Snapshot() (models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return store.Clone(), nil
}

// ReplaceAll overwrites the whole store with the given one after user
// confirmation, with the same gating semantics as ResetAll
func (s *Scheduler) ReplaceAll(store models.Store) (bool, error) {
	if !s.confirm.Confirm("Importing will overwrite all existing items and review progress. Continue?") {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(store); err != nil {
		return false, fmt.Errorf("failed to replace store: %w", err)
	}
	s.log.Info("review store replaced", zap.Int("items", len(store)))
	return true, nil
}

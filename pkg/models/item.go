package models

import (
	"fmt"
	"time"
)

// Level is the CEFR difficulty grade of a learning item
type Level string

const (
	LevelA1 Level = "a1"
	LevelA2 Level = "a2"
	LevelB1 Level = "b1"
	LevelB2 Level = "b2"
	LevelC1 Level = "c1"
	LevelC2 Level = "c2"
)

// Levels lists every supported level in ascending difficulty order
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// Valid reports whether l is one of the six supported levels
func (l Level) Valid() bool {
	for _, lvl := range Levels {
		if l == lvl {
			return true
		}
	}
	return false
}

// ItemType is the kind of learning unit an item tracks
type ItemType string

const (
	TypeVocab    ItemType = "vocab"
	TypeSentence ItemType = "sentence"
)

// Valid reports whether t is a supported item type
func (t ItemType) Valid() bool {
	return t == TypeVocab || t == TypeSentence
}

// ReviewItem represents one tracked learning unit with its scheduling state
type ReviewItem struct {
	Level          Level                  `json:"level"`
	Type           ItemType               `json:"type"`
	ID             int                    `json:"id"`
	Data           map[string]interface{} `json:"data"`             // Caller-supplied payload, stored verbatim
	SavedDate      time.Time              `json:"saved_date"`       // Set once at creation
	LastReviewed   *time.Time             `json:"last_reviewed"`    // Nil until the first review
	ReviewCount    int                    `json:"review_count"`
	NextReviewDate time.Time              `json:"next_review_date"`
	LastModified   time.Time              `json:"last_modified"`
}

// Key returns the composite identity "level_type_id" for the item
func (i ReviewItem) Key() string {
	return ItemKey(i.Level, i.Type, i.ID)
}

// ItemKey builds the composite key addressing one tracked item
func ItemKey(level Level, typ ItemType, id int) string {
	return fmt.Sprintf("%s_%s_%d", level, typ, id)
}

// Store is the full mapping of composite key to item, persisted as one blob
type Store map[string]ReviewItem

// Clone returns an independent copy of the store. Payload maps and
// timestamp pointers are duplicated so callers can't alias state.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	for key, item := range s {
		if item.Data != nil {
			data := make(map[string]interface{}, len(item.Data))
			for k, v := range item.Data {
				data[k] = v
			}
			item.Data = data
		}
		if item.LastReviewed != nil {
			t := *item.LastReviewed
			item.LastReviewed = &t
		}
		out[key] = item
	}
	return out
}

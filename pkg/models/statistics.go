package models

// LevelStats summarizes the items of a single level
type LevelStats struct {
	Total     int `json:"total"`
	DueToday  int `json:"due_today"`
	Vocab     int `json:"vocab"`
	Sentences int `json:"sentences"`
}

// StatsReport aggregates review progress across the store.
// ByLevel always carries all six levels, independent of any level
// filter applied to the top-level counters.
type StatsReport struct {
	Total    int                  `json:"total"`
	DueToday int                  `json:"due_today"`
	Reviewed int                  `json:"reviewed"`
	Mastered int                  `json:"mastered"`
	ByLevel  map[Level]LevelStats `json:"by_level"`
}

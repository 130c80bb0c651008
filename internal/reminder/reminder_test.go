package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/reviewbox/internal/srs"
	"github.com/example/reviewbox/internal/storage"
	"github.com/example/reviewbox/pkg/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type staticConfirm bool

func (s staticConfirm) Confirm(string) bool { return bool(s) }

func newTestJob(t *testing.T, cfg Config, clock *fakeClock) (*Job, *storage.Memory, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	backend := storage.NewMemory()
	sched := srs.New(backend, staticConfirm(true), clock, log)
	return New(sched, cfg, clock, log), backend, logs
}

func overdueStore(now time.Time) models.Store {
	return models.Store{
		"a1_vocab_1": {
			Level: models.LevelA1, Type: models.TypeVocab, ID: 1,
			SavedDate: now.AddDate(0, 0, -2), NextReviewDate: now.AddDate(0, 0, -1),
		},
		"b1_vocab_2": {
			Level: models.LevelB1, Type: models.TypeVocab, ID: 2,
			SavedDate: now.AddDate(0, 0, -2), NextReviewDate: now.AddDate(0, 0, 1),
		},
	}
}

func TestJob_RunManualCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	job, backend, logs := newTestJob(t, Config{}, &fakeClock{now: now})
	require.NoError(t, backend.Save(overdueStore(now)))

	require.NoError(t, job.RunManualCheck())

	entries := logs.FilterMessage("items due for review").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["total"])

	// The check is read-only
	store, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, overdueStore(now), store)
}

func TestJob_RunManualCheck_NothingDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	job, _, logs := newTestJob(t, Config{}, &fakeClock{now: now})

	require.NoError(t, job.RunManualCheck())
	assert.Empty(t, logs.FilterMessage("items due for review").All())
}

func TestJob_CheckDueItems_OutsideWindow(t *testing.T) {
	t.Parallel()

	// 03:00 is outside the default 8-22 window
	now := time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)
	job, backend, logs := newTestJob(t, Config{}, &fakeClock{now: now})
	require.NoError(t, backend.Save(overdueStore(now)))

	job.checkDueItems()

	assert.Empty(t, logs.FilterMessage("items due for review").All())
	assert.Len(t, logs.FilterMessage("outside notification hours, skipping reminder").All(), 1)
}

func TestJob_CheckDueItems_InsideWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	job, backend, logs := newTestJob(t, Config{StartHour: 8, EndHour: 22}, &fakeClock{now: now})
	require.NoError(t, backend.Save(overdueStore(now)))

	job.checkDueItems()

	assert.Len(t, logs.FilterMessage("items due for review").All(), 1)
}

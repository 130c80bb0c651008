package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/reviewbox/internal/srs"
	mock_srs "github.com/example/reviewbox/internal/srs/mock"
	"github.com/example/reviewbox/internal/storage"
	"github.com/example/reviewbox/pkg/models"
)

var testBase = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type staticConfirm bool

func (s staticConfirm) Confirm(string) bool { return bool(s) }

func newTestManager(t *testing.T, confirm srs.Confirmer) (*Manager, *storage.Memory) {
	t.Helper()
	backend := storage.NewMemory()
	sched := srs.New(backend, confirm, fixedClock{now: testBase}, zap.NewNop())
	return NewManager(sched, fixedClock{now: testBase}, zap.NewNop()), backend
}

func seedStore(t *testing.T, backend *storage.Memory) models.Store {
	t.Helper()
	store := models.Store{
		"a1_vocab_1": {
			Level: models.LevelA1, Type: models.TypeVocab, ID: 1,
			Data:      map[string]interface{}{"english": "cat"},
			SavedDate: testBase, ReviewCount: 2,
			NextReviewDate: testBase.AddDate(0, 0, 7), LastModified: testBase,
		},
		"b1_sentence_2": {
			Level: models.LevelB1, Type: models.TypeSentence, ID: 2,
			Data:      map[string]interface{}{"text": "Birds of a feather flock together."},
			SavedDate: testBase, ReviewCount: 0,
			NextReviewDate: testBase.AddDate(0, 0, 1), LastModified: testBase,
		},
	}
	require.NoError(t, backend.Save(store))
	return store
}

func TestManager_ExportToFile(t *testing.T) {
	t.Parallel()

	mgr, backend := newTestManager(t, staticConfirm(true))
	seedStore(t, backend)

	dir := t.TempDir()
	path, err := mgr.ExportToFile(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "spaced-repetition-backup-2024-03-15.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a1_vocab_1")
	// Pretty-printed, not a single line
	assert.Greater(t, strings.Count(string(data), "\n"), 2)
}

func TestManager_RoundTrip(t *testing.T) {
	t.Parallel()

	mgr, backend := newTestManager(t, staticConfirm(true))
	want := seedStore(t, backend)

	var buf bytes.Buffer
	require.NoError(t, mgr.ExportJSON(&buf))

	// Wipe, then import the backup into the same scheduler
	require.NoError(t, backend.Save(models.Store{}))

	ok, err := mgr.ImportJSON(&buf)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManager_ImportJSON_ParseFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "definitely not json"},
		{name: "array", input: `[{"level":"a1"}]`},
		{name: "null", input: "null"},
		{name: "bad item", input: `{"x9_vocab_1":{"level":"x9","type":"vocab","id":1}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// Confirm must never be reached on a parse failure
			confirm := mock_srs.NewMockConfirmer(ctrl)

			mgr, backend := newTestManager(t, confirm)
			seedStore(t, backend)

			ok, err := mgr.ImportJSON(strings.NewReader(tt.input))
			assert.Error(t, err)
			assert.False(t, ok)

			store, err := backend.Load()
			require.NoError(t, err)
			assert.Len(t, store, 2)
		})
	}
}

func TestManager_ImportJSON_Declined(t *testing.T) {
	t.Parallel()

	mgr, backend := newTestManager(t, staticConfirm(false))
	seedStore(t, backend)

	ok, err := mgr.ImportJSON(strings.NewReader("{}"))
	require.NoError(t, err)
	assert.False(t, ok)

	store, err := backend.Load()
	require.NoError(t, err)
	assert.Len(t, store, 2)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBCounter atomic.Int64

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{slotsTable, playLogTable, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestSlot_GetAbsent(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get(context.Background(), "p1", SlotStats)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSlot_SetReplacesWholeValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "p1", SlotStats, []byte(`{"a":1}`)))
	require.NoError(t, s.Set(ctx, "p1", SlotStats, []byte(`{"b":2}`)))

	got, err := s.Get(ctx, "p1", SlotStats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(got))

	other, err := s.Get(ctx, "p2", SlotStats)
	require.NoError(t, err)
	assert.Nil(t, other, "profiles must not share slots")
}

func TestSlot_SetAllAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAll(ctx, "p1", map[Slot][]byte{
		SlotUserInfo: []byte(`{"grade":"2"}`),
		SlotStats:    []byte(`{"level":3}`),
		SlotMastery:  []byte(`{}`),
	}))
	all, err := s.GetAll(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// A nil payload deletes within the same transaction.
	require.NoError(t, s.SetAll(ctx, "p1", map[Slot][]byte{
		SlotMastery: nil,
		SlotStats:   []byte(`{"level":4}`),
	}))
	all, err = s.GetAll(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.JSONEq(t, `{"level":4}`, string(all[SlotStats]))

	require.NoError(t, s.Delete(ctx, "p1", SlotStats, SlotMissions))
	all, err = s.GetAll(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, SlotUserInfo)
}

func TestSlot_SetAllRollsBackOnCanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SetAll(ctx, "p1", map[Slot][]byte{SlotStats: []byte(`{}`)})
	require.Error(t, err)

	got, err := s.Get(context.Background(), "p1", SlotStats)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLearnerRepo_SaveLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.LearnerRepo()
	ctx := context.Background()

	snap, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, snap.Stats)
	assert.Nil(t, snap.UserInfo)
	assert.Empty(t, snap.Corrupt)

	err = repo.Save(ctx, "p1", &LearnerSnapshot{
		UserInfo: &UserInfoData{Grade: "2", Class: "3", StudentID: "15"},
		Stats: &StatsData{Level: 2, Exp: 40, CategoryStats: map[string]CategoryStatData{
			"未来": {Correct: 3, Total: 5},
		}},
		Mastery: &MasteryData{Records: map[string]MasteryRecordData{
			"12": {Level: "learning", Stage: 2, NextReviewDate: "2025-04-13"},
		}},
		Missions: &MissionData{Date: "2025-04-10", Missions: []MissionEntryData{
			{ID: "total_1", Type: "answer_total", Target: 20, ExpReward: 50},
		}},
		Incorrect: &IncorrectData{Questions: []IncorrectQuestionData{{ID: 12, Prompt: "q", Answer: "a"}}},
	})
	require.NoError(t, err)

	snap, err = repo.Load(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, snap.UserInfo)
	assert.Equal(t, "15", snap.UserInfo.StudentID)
	assert.Equal(t, UserInfoVersion, snap.UserInfo.Version)
	require.NotNil(t, snap.Stats)
	assert.Equal(t, 2, snap.Stats.Level)
	assert.Equal(t, CategoryStatData{Correct: 3, Total: 5}, snap.Stats.CategoryStats["未来"])
	require.NotNil(t, snap.Mastery)
	assert.Equal(t, "2025-04-13", snap.Mastery.Records["12"].NextReviewDate)
	require.NotNil(t, snap.Missions)
	assert.Equal(t, "total_1", snap.Missions.Missions[0].ID)
	require.NotNil(t, snap.Incorrect)
	assert.Equal(t, 12, snap.Incorrect.Questions[0].ID)
	assert.Empty(t, snap.Migrated)

	require.NoError(t, repo.Clear(ctx, "p1", ProgressSlots()...))
	snap, err = repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.NotNil(t, snap.UserInfo, "identity survives a progress clear")
	assert.Nil(t, snap.Stats)
	assert.Nil(t, snap.Mastery)
	assert.Nil(t, snap.Missions)
	assert.Nil(t, snap.Incorrect)
}

func TestLearnerRepo_LegacyAndCorruptSlots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAll(ctx, "p1", map[Slot][]byte{
		SlotMastery:   []byte(`{"3": {"level": "learning", "nextReviewDate": "2025-04-01"}}`),
		SlotIncorrect: []byte(`[{"id": 3, "question": "q", "answer": "a"}]`),
		SlotStats:     []byte(`{"level": 2, "exp": 10, "categoryStats": {}}`),
		SlotMissions:  []byte(`not json`),
		SlotUserInfo:  []byte(`{"version": 9, "grade": "1"}`),
	}))

	snap, err := s.LearnerRepo().Load(ctx, "p1")
	require.NoError(t, err)

	require.NotNil(t, snap.Mastery)
	assert.Equal(t, "learning", snap.Mastery.Records["3"].Level)
	require.NotNil(t, snap.Incorrect)
	assert.Len(t, snap.Incorrect.Questions, 1)
	require.NotNil(t, snap.Stats)
	assert.Equal(t, 2, snap.Stats.Level)
	assert.ElementsMatch(t, []Slot{SlotMastery, SlotIncorrect, SlotStats}, snap.Migrated)

	assert.Nil(t, snap.Missions)
	assert.Nil(t, snap.UserInfo)
	require.Len(t, snap.Corrupt, 2)
	for slot, err := range snap.Corrupt {
		assert.True(t, errors.Is(err, ErrCorruptSlot), "slot %s: %v", slot, err)
	}
}

func TestDecodeMastery_Versioned(t *testing.T) {
	d, legacy, err := DecodeMastery([]byte(`{"version": 1, "records": {"8": {"level": "mastered", "stage": 5, "nextReviewDate": "2025-05-01"}}}`))
	require.NoError(t, err)
	assert.False(t, legacy)
	assert.Equal(t, 5, d.Records["8"].Stage)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestEventRepo_PlayLog(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	entry := func(qid int, correct bool, offset time.Duration) PlayLogEntry {
		return PlayLogEntry{
			Timestamp: base.Add(offset), Grade: "2", Class: "1", StudentID: "7",
			QuestionID: qid, Category: "比較", IsCorrect: correct,
		}
	}

	require.NoError(t, repo.AppendPlayLog(ctx, "p1", "s1", []PlayLogEntry{
		entry(1, true, 0), entry(2, false, 0),
	}))
	require.NoError(t, repo.AppendPlayLog(ctx, "p1", "s2", []PlayLogEntry{
		entry(3, true, 24*time.Hour),
	}))
	require.NoError(t, repo.AppendPlayLog(ctx, "p2", "s3", []PlayLogEntry{
		entry(4, true, 0),
	}))
	require.NoError(t, repo.AppendPlayLog(ctx, "p1", "s4", nil))

	all, err := repo.QueryPlayLogs(ctx, "p1", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].QuestionID, "newest first")
	assert.Equal(t, "s2", all[0].SessionID)
	assert.True(t, all[0].Timestamp.Equal(base.Add(24*time.Hour)))
	assert.False(t, all[1].IsCorrect)
	assert.Greater(t, all[0].Sequence, all[1].Sequence)

	limited, err := repo.QueryPlayLogs(ctx, "p1", QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	firstDay, err := repo.QueryPlayLogs(ctx, "p1", QueryOpts{To: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, firstDay, 2)

	after, err := repo.QueryPlayLogs(ctx, "p1", QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 3, after[0].QuestionID)
}

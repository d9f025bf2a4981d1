package mastery

import (
	"sort"
	"strconv"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/store"
)

// Scheduler owns the mastery records of one learner.
type Scheduler struct {
	records map[int]*Record
}

// NewScheduler creates a scheduler, loading records from the persisted
// payload. Records with an unknown level or an unparseable date are dropped
// and recreated on next encounter.
func NewScheduler(data *store.MasteryData) *Scheduler {
	s := &Scheduler{records: make(map[int]*Record)}
	if data == nil {
		return s
	}
	for key, rd := range data.Records {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		level := Level(rd.Level)
		if !level.Valid() {
			continue
		}
		next, err := calendar.Parse(rd.NextReviewDate)
		if err != nil {
			continue
		}
		var last calendar.Date
		if rd.LastReviewed != "" {
			if d, err := calendar.Parse(rd.LastReviewed); err == nil {
				last = d
			}
		}
		stage := rd.Stage
		if stage < 0 {
			stage = 0
		}
		if level == LevelMastered && stage < MasteredStage {
			stage = MasteredStage
		}
		s.records[id] = &Record{
			QuestionID:     id,
			Level:          level,
			Stage:          stage,
			NextReviewDate: next,
			LastReviewed:   last,
		}
	}
	return s
}

// Record returns the record for a question. Unknown questions get a fresh
// record that is due on today; it is not stored until UpdateMastery runs.
func (s *Scheduler) Record(id int, today calendar.Date) Record {
	if r, ok := s.records[id]; ok {
		return *r
	}
	return Record{QuestionID: id, Level: LevelNew, NextReviewDate: today}
}

// Len returns the number of tracked questions.
func (s *Scheduler) Len() int { return len(s.records) }

// QuestionsDueForReview returns the ids of non-mastered questions whose next
// review date is on or before asOf, in ascending id order.
func (s *Scheduler) QuestionsDueForReview(asOf calendar.Date) []int {
	var ids []int
	for id, r := range s.records {
		if r.Due(asOf) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// UpdateMastery applies one answer to a question's record and returns the
// updated record.
//
// A correct answer advances the stage and pushes the next review out by the
// stage's interval; the date never moves earlier. Reaching MasteredStage
// masters the question. A wrong answer drops one stage, demotes mastered
// questions to learning (or new at stage 0), and pulls the next review to at
// most RelearnDelayDays away.
func (s *Scheduler) UpdateMastery(id int, correct bool, today calendar.Date) Record {
	cur := s.Record(id, today)
	next := cur
	next.LastReviewed = today

	if correct {
		next.Stage++
		if next.Stage >= MasteredStage {
			next.Stage = MasteredStage
			next.Level = LevelMastered
			next.NextReviewDate = calendar.Max(cur.NextReviewDate, today.AddDays(MasteredIntervalDays))
		} else {
			next.Level = LevelLearning
			next.NextReviewDate = calendar.Max(cur.NextReviewDate, today.AddDays(intervalForStage(next.Stage)))
		}
	} else {
		if next.Stage > 0 {
			next.Stage--
		}
		if next.Stage >= MasteredStage {
			next.Stage = MasteredStage - 1
		}
		if next.Stage == 0 {
			next.Level = LevelNew
		} else {
			next.Level = LevelLearning
		}
		relearn := today.AddDays(RelearnDelayDays)
		if cur.NextReviewDate.Before(relearn) {
			next.NextReviewDate = cur.NextReviewDate
		} else {
			next.NextReviewDate = relearn
		}
	}

	s.records[id] = &next
	return next
}

// Apply records a batch of answers and returns the level changes they caused
// in answer order.
func (s *Scheduler) Apply(results map[int]bool, order []int, today calendar.Date) []Transition {
	var transitions []Transition
	for _, id := range order {
		correct, ok := results[id]
		if !ok {
			continue
		}
		before := s.Record(id, today).Level
		after := s.UpdateMastery(id, correct, today).Level
		if before != after {
			transitions = append(transitions, Transition{QuestionID: id, From: before, To: after})
		}
	}
	return transitions
}

// CountByLevel returns how many tracked questions sit at each level.
func (s *Scheduler) CountByLevel() map[Level]int {
	counts := make(map[Level]int, 3)
	for _, r := range s.records {
		counts[r.Level]++
	}
	return counts
}

// SnapshotData exports the records for persistence.
func (s *Scheduler) SnapshotData() *store.MasteryData {
	data := &store.MasteryData{
		Version: store.MasteryVersion,
		Records: make(map[string]store.MasteryRecordData, len(s.records)),
	}
	for id, r := range s.records {
		data.Records[strconv.Itoa(id)] = store.MasteryRecordData{
			Level:          string(r.Level),
			Stage:          r.Stage,
			NextReviewDate: r.NextReviewDate.String(),
			LastReviewed:   r.LastReviewed.String(),
		}
	}
	return data
}

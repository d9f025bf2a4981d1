package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/challenge"
	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/mastery"
	"github.com/kotoba-lab/questcore/internal/mission"
	"github.com/kotoba-lab/questcore/internal/scoring"
	"github.com/kotoba-lab/questcore/internal/selection"
	"github.com/kotoba-lab/questcore/internal/store"
	"github.com/kotoba-lab/questcore/internal/weakness"
)

// Delays a presenter should wait before showing a level-up, depending on
// whether mission completions are shown first.
const (
	LevelUpDelayAfterMissions = 2500 * time.Millisecond
	LevelUpDelay              = 500 * time.Millisecond
)

var (
	// ErrNoAnswers is returned when a session is finished without answers.
	ErrNoAnswers = errors.New("no answers to record")

	// ErrSessionFinished is returned when a session is finished a second time.
	ErrSessionFinished = errors.New("session already finished")
)

// StartRequest describes the session a learner asked for.
type StartRequest struct {
	Mode  selection.Mode
	Scope selection.Scope

	// QuestionIDs replays a fixed question list, such as a challenge.
	QuestionIDs []int

	// ChallengeID binds the session to a received challenge. Finishing the
	// session reports the score to the challenge service.
	ChallengeID string
}

// Session is a drawn set of questions waiting to be answered.
type Session struct {
	ID          string
	Profile     string
	Mode        selection.Mode
	Scope       selection.Scope
	ChallengeID string
	Questions   []catalog.Question
	StartedAt   time.Time

	// finished is set under the profile lock once the session is committed.
	finished bool
}

// Answer is a learner's response to one session question.
type Answer struct {
	QuestionID int
	Response   string
	Elapsed    time.Duration
}

// AnswerResult is an answer after judging.
type AnswerResult struct {
	Question catalog.Question
	Response string
	Correct  bool
	Elapsed  time.Duration
}

// FinishReport is everything a finished session changed.
type FinishReport struct {
	Result            scoring.GameResult
	Answers           []AnswerResult
	CompletedMissions []mission.Mission
	ExpGained         int
	LevelUp           *leveling.LevelUp

	// LevelUpDelay is how long a presenter should wait before announcing
	// LevelUp. Zero when there is no level-up.
	LevelUpDelay time.Duration

	Transitions []mastery.Transition
	PlayLog     []store.PlayLogEntry
	NewBest     bool
}

// StartSession draws the questions for req. Nothing is persisted; an empty
// draw is reported with an error satisfying selection.IsEmptyResult.
func (s *Service) StartSession(ctx context.Context, profile string, req StartRequest) (*Session, error) {
	unlock := s.lock(profile)
	defer unlock()

	l, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	if l.info == nil {
		return nil, ErrNotLoggedIn
	}

	sreq := selection.Request{
		Mode:  req.Mode,
		Scope: req.Scope,
		AsOf:  s.today(),
	}
	if req.QuestionIDs != nil || req.ChallengeID != "" {
		sreq.ExplicitIDs = append([]int{}, req.QuestionIDs...)
	}

	questions, err := s.pipeline(l).Select(sreq)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:          uuid.NewString(),
		Profile:     profile,
		Mode:        req.Mode,
		Scope:       req.Scope,
		ChallengeID: req.ChallengeID,
		Questions:   questions,
		StartedAt:   s.clock.Now(),
	}
	s.logger.Debug("session started",
		zap.String("profile", profile),
		zap.String("session_id", sess.ID),
		zap.String("mode", string(req.Mode)),
		zap.String("scope", string(req.Scope)),
		zap.Int("questions", len(questions)))
	return sess, nil
}

// FinishSession judges the answers and commits the session's effects on
// stats, mastery, the incorrect list and missions in one write. The play
// log and the challenge report follow the commit; their failures are logged
// and do not fail the call.
func (s *Service) FinishSession(ctx context.Context, profile string, sess *Session, answers []Answer) (*FinishReport, error) {
	if sess == nil {
		return nil, errors.New("finish session: nil session")
	}
	if sess.Profile != profile {
		return nil, fmt.Errorf("finish session: session %s belongs to profile %q", sess.ID, sess.Profile)
	}
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	judged, err := judge(sess, answers)
	if err != nil {
		return nil, fmt.Errorf("finish session: %w", err)
	}

	unlock := s.lock(profile)
	if sess.finished {
		unlock()
		return nil, ErrSessionFinished
	}
	report, update, err := s.commit(ctx, profile, sess, judged)
	if err == nil {
		sess.finished = true
	}
	unlock()
	if err != nil {
		return nil, err
	}

	s.appendPlayLog(ctx, profile, sess, report.PlayLog)
	if sess.ChallengeID != "" && s.notifier != nil {
		score := report.Result.Score
		s.notifier.NotifyAsync(ctx, sess.ChallengeID, challenge.StatusCompleted, &score)
	}
	s.observer.Progressed(update)
	return report, nil
}

// judge checks every answer against the session's questions. Each drawn
// question takes at most one answer; a question drawn twice takes two.
func judge(sess *Session, answers []Answer) ([]AnswerResult, error) {
	if len(answers) > len(sess.Questions) {
		return nil, fmt.Errorf("%d answers for %d questions in session %s", len(answers), len(sess.Questions), sess.ID)
	}
	byID := make(map[int]catalog.Question, len(sess.Questions))
	open := make(map[int]int, len(sess.Questions))
	for _, q := range sess.Questions {
		byID[q.ID] = q
		open[q.ID]++
	}
	out := make([]AnswerResult, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question %d is not part of session %s", a.QuestionID, sess.ID)
		}
		if open[a.QuestionID] == 0 {
			return nil, fmt.Errorf("question %d answered more than once in session %s", a.QuestionID, sess.ID)
		}
		open[a.QuestionID]--
		out = append(out, AnswerResult{
			Question: q,
			Response: a.Response,
			Correct:  q.Accepts(a.Response),
			Elapsed:  a.Elapsed,
		})
	}
	return out, nil
}

func (s *Service) commit(ctx context.Context, profile string, sess *Session, judged []AnswerResult) (*FinishReport, Update, error) {
	l, err := s.load(ctx, profile)
	if err != nil {
		return nil, Update{}, err
	}
	now := s.clock.Now()
	today := s.today()
	s.ensureMissions(l)

	timed := make([]scoring.TimedAnswer, len(judged))
	correct := 0
	for i, a := range judged {
		timed[i] = scoring.TimedAnswer{Correct: a.Correct, Elapsed: a.Elapsed}
		if a.Correct {
			correct++
		}
	}
	result := scoring.ComputeResult(scoring.RawScore(timed), correct, len(judged))
	newBest := result.Score > l.stats.BestScore

	results := make(map[int]bool, len(judged))
	order := make([]int, 0, len(judged))
	for _, a := range judged {
		id := a.Question.ID
		if _, seen := results[id]; !seen {
			order = append(order, id)
		}
		results[id] = a.Correct

		l.stats = l.stats.RecordAnswer(a.Question.Category, a.Correct)
		switch {
		case !a.Correct:
			l.missed.Add(weakness.FromQuestion(a.Question))
		case sess.Scope == selection.ScopeWeakness:
			l.missed.Remove(id)
		}
	}
	l.stats = l.stats.RecordGame(result.Score)
	transitions := l.mastery.Apply(results, order, today)

	missions, completed, exp := mission.Apply(*l.missions, result, mission.SessionContext{Scope: sess.Scope})
	l.missions = &missions

	report := &FinishReport{
		Result:            result,
		Answers:           judged,
		CompletedMissions: completed,
		ExpGained:         exp,
		Transitions:       transitions,
		NewBest:           newBest,
	}
	stats, up, _ := leveling.ApplyExp(l.stats, exp)
	if up {
		report.LevelUp = &leveling.LevelUp{From: l.stats.Level, To: stats.Level}
		report.LevelUpDelay = LevelUpDelay
		if len(completed) > 0 {
			report.LevelUpDelay = LevelUpDelayAfterMissions
		}
	}
	l.stats = stats

	if err := s.learners.Save(ctx, profile, l.progressSnapshot()); err != nil {
		return nil, Update{}, fmt.Errorf("finish session: %w", err)
	}

	for _, m := range completed {
		s.logger.Info("mission completed",
			zap.String("profile", profile),
			zap.String("mission_id", m.ID),
			zap.Int("exp", m.ExpReward))
	}
	if report.LevelUp != nil {
		s.logger.Info("level up",
			zap.String("profile", profile),
			zap.Int("from", report.LevelUp.From),
			zap.Int("to", report.LevelUp.To))
	}

	report.PlayLog = playLog(l.info, judged, now)
	return report, Update{
		Profile:   profile,
		Stats:     l.stats,
		Missions:  missions,
		Completed: completed,
		LevelUp:   report.LevelUp,
	}, nil
}

func playLog(info *store.UserInfoData, judged []AnswerResult, at time.Time) []store.PlayLogEntry {
	var who store.UserInfoData
	if info != nil {
		who = *info
	}
	entries := make([]store.PlayLogEntry, len(judged))
	for i, a := range judged {
		entries[i] = store.PlayLogEntry{
			Timestamp:  at,
			Grade:      who.Grade,
			Class:      who.Class,
			StudentID:  who.StudentID,
			QuestionID: a.Question.ID,
			Category:   string(a.Question.Category),
			IsCorrect:  a.Correct,
		}
	}
	return entries
}

func (s *Service) appendPlayLog(ctx context.Context, profile string, sess *Session, entries []store.PlayLogEntry) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendPlayLog(ctx, profile, sess.ID, entries); err != nil {
		s.logger.Warn("append play log failed",
			zap.String("profile", profile),
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}
}

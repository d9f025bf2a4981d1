package progression

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/challenge"
	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/mastery"
	"github.com/kotoba-lab/questcore/internal/mission"
	"github.com/kotoba-lab/questcore/internal/selection"
	"github.com/kotoba-lab/questcore/internal/store"
	"github.com/kotoba-lab/questcore/internal/weakness"
)

// ErrNotLoggedIn is returned when a session is started for a profile with
// no stored user identity.
var ErrNotLoggedIn = errors.New("ログインしてください。")

// Shuffler permutes n elements through swap.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Notifier reports challenge outcomes. *challenge.Client satisfies it.
type Notifier interface {
	NotifyAsync(ctx context.Context, id string, status challenge.Status, score *int)
}

// Options configures a Service. Learners and Catalog are required.
type Options struct {
	Learners store.LearnerRepo
	Events   store.EventRepo // optional; play logs are skipped when nil
	Catalog  catalog.Provider
	Clock    calendar.Clock
	Rand     Shuffler
	Logger   *zap.Logger
	Observer Observer
	Notifier Notifier

	// SessionSize caps drawn sessions. Zero means selection.DefaultSessionSize.
	SessionSize int
}

// Service runs the learner progression cycle: missions, sessions, mastery,
// stats and levels. Every read-modify-write of one profile is serialized;
// different profiles proceed in parallel.
type Service struct {
	learners store.LearnerRepo
	events   store.EventRepo
	catalog  catalog.Provider
	clock    calendar.Clock
	rnd      Shuffler
	logger   *zap.Logger
	observer Observer
	notifier Notifier
	size     int

	locks sync.Map // profile -> *sync.Mutex
}

// NewService creates a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Learners == nil {
		return nil, errors.New("progression: learner repo is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("progression: catalog is required")
	}
	s := &Service{
		learners: opts.Learners,
		events:   opts.Events,
		catalog:  opts.Catalog,
		clock:    opts.Clock,
		rnd:      opts.Rand,
		logger:   opts.Logger,
		observer: opts.Observer,
		notifier: opts.Notifier,
		size:     opts.SessionSize,
	}
	if s.clock == nil {
		s.clock = calendar.SystemClock{}
	}
	if s.rnd == nil {
		s.rnd = globalRand{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	s.logger = s.logger.Named("progression")
	return s, nil
}

// globalRand shuffles with the process-wide source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

var validate = validator.New(validator.WithRequiredStructEnabled())

// lock serializes work on one profile. Call the returned func to release.
func (s *Service) lock(profile string) func() {
	m, _ := s.locks.LoadOrStore(profile, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) today() calendar.Date {
	return calendar.Today(s.clock)
}

// learner is the working copy of one profile's persisted state.
type learner struct {
	info     *store.UserInfoData
	stats    leveling.Stats
	mastery  *mastery.Scheduler
	missions *mission.State
	missed   *weakness.List
}

func (s *Service) load(ctx context.Context, profile string) (*learner, error) {
	snap, err := s.learners.Load(ctx, profile)
	if err != nil {
		return nil, err
	}
	for slot, cerr := range snap.Corrupt {
		s.logger.Warn("ignoring unreadable slot",
			zap.String("profile", profile),
			zap.String("slot", string(slot)),
			zap.Error(cerr))
	}
	for _, slot := range snap.Migrated {
		s.logger.Info("migrating legacy slot",
			zap.String("profile", profile),
			zap.String("slot", string(slot)))
	}
	return &learner{
		info:     snap.UserInfo,
		stats:    leveling.FromData(snap.Stats),
		mastery:  mastery.NewScheduler(snap.Mastery),
		missions: mission.FromData(snap.Missions),
		missed:   weakness.NewList(snap.Incorrect),
	}, nil
}

// progressSnapshot exports every progress slot of l for one commit.
func (l *learner) progressSnapshot() *store.LearnerSnapshot {
	snap := &store.LearnerSnapshot{
		Stats:     l.stats.Data(),
		Mastery:   l.mastery.SnapshotData(),
		Incorrect: l.missed.Data(),
	}
	if l.missions != nil {
		snap.Missions = l.missions.Data()
	}
	return snap
}

// ensureMissions regenerates l's missions when they are missing or stale.
func (s *Service) ensureMissions(l *learner) bool {
	st, changed := mission.EnsureToday(l.missions, l.stats, s.today(), s.rnd)
	l.missions = &st
	return changed
}

// Login stores the learner identity and prepares today's missions.
func (s *Service) Login(ctx context.Context, profile string, info store.UserInfoData) (*Home, error) {
	if err := validate.Struct(info); err != nil {
		return nil, fmt.Errorf("invalid user info: %w", err)
	}

	unlock := s.lock(profile)
	defer unlock()

	l, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	l.info = &info
	snap := &store.LearnerSnapshot{UserInfo: l.info}
	if s.ensureMissions(l) {
		snap.Missions = l.missions.Data()
	}
	if err := s.learners.Save(ctx, profile, snap); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	s.logger.Info("learner logged in",
		zap.String("profile", profile),
		zap.String("student_id", info.StudentID))
	return s.home(l), nil
}

// Logout forgets the learner identity. Progress is kept.
func (s *Service) Logout(ctx context.Context, profile string) error {
	unlock := s.lock(profile)
	defer unlock()

	if err := s.learners.Clear(ctx, profile, store.SlotUserInfo); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Home returns the home screen summary, regenerating today's missions first
// if needed.
func (s *Service) Home(ctx context.Context, profile string) (*Home, error) {
	unlock := s.lock(profile)
	defer unlock()

	l, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	if s.ensureMissions(l) {
		if err := s.learners.Save(ctx, profile, &store.LearnerSnapshot{Missions: l.missions.Data()}); err != nil {
			return nil, fmt.Errorf("save missions: %w", err)
		}
	}
	return s.home(l), nil
}

// EnsureMissions returns today's missions, generating and storing them when
// the stored set is missing or from an earlier day.
func (s *Service) EnsureMissions(ctx context.Context, profile string) (mission.State, error) {
	h, err := s.Home(ctx, profile)
	if err != nil {
		return mission.State{}, err
	}
	return h.Missions, nil
}

// Reset erases the profile's progress. The user identity is kept.
func (s *Service) Reset(ctx context.Context, profile string) error {
	unlock := s.lock(profile)
	err := s.learners.Clear(ctx, profile, store.ProgressSlots()...)
	unlock()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.logger.Info("progress reset", zap.String("profile", profile))
	s.observer.Progressed(Update{Profile: profile, Stats: leveling.NewStats()})
	return nil
}

// DeclineChallenge reports a declined challenge without waiting.
func (s *Service) DeclineChallenge(ctx context.Context, id string) {
	if s.notifier == nil || id == "" {
		return
	}
	s.notifier.NotifyAsync(ctx, id, challenge.StatusDeclined, nil)
}

// History returns the most recent play log entries of a profile.
func (s *Service) History(ctx context.Context, profile string, limit int) ([]store.PlayLogRecord, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.QueryPlayLogs(ctx, profile, store.QueryOpts{Limit: limit})
}

// Missed returns the questions on the learner's incorrect list.
func (s *Service) Missed(ctx context.Context, profile string) ([]weakness.IncorrectQuestion, error) {
	unlock := s.lock(profile)
	defer unlock()

	l, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	return l.missed.Items(), nil
}

func (s *Service) pipeline(l *learner) *selection.Pipeline {
	return &selection.Pipeline{
		Catalog: s.catalog,
		Due:     l.mastery,
		Missed:  l.missed,
		Rand:    s.rnd,
		Size:    s.size,
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/challenge"
	"github.com/kotoba-lab/questcore/internal/config"
	"github.com/kotoba-lab/questcore/internal/logging"
	"github.com/kotoba-lab/questcore/internal/progression"
	"github.com/kotoba-lab/questcore/internal/store"
)

// app bundles the dependencies a command needs.
type app struct {
	cfg        config.Config
	profile    string
	logger     *zap.Logger
	store      *store.Store
	catalog    *catalog.Catalog
	challenges *challenge.Client
	svc        *progression.Service
}

// openApp loads configuration, opens the store and builds the service.
// Callers must call close when done.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		cfg.Profile = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat))
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := challenge.New(cfg.Challenge, challenge.WithLogger(logger))
	svc, err := progression.NewService(progression.Options{
		Learners:    st.LearnerRepo(),
		Events:      st.EventRepo(),
		Catalog:     cat,
		Clock:       calendar.SystemClock{Loc: loc},
		Logger:      logger,
		Notifier:    client,
		SessionSize: cfg.SessionSize,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &app{
		cfg:        cfg,
		profile:    cfg.Profile,
		logger:     logger,
		store:      st,
		catalog:    cat,
		challenges: client,
		svc:        svc,
	}, nil
}

// close waits for background challenge reports and releases the store.
func (a *app) close() {
	a.challenges.Wait()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// learnerOf returns the challenge identity of the logged-in user.
func learnerOf(info *store.UserInfoData) challenge.Learner {
	if info == nil {
		return challenge.Learner{}
	}
	return challenge.Learner{Grade: info.Grade, Class: info.Class, StudentID: info.StudentID}
}

package store

import (
	"context"
	"fmt"
)

// LearnerSnapshot holds every persisted value of one profile. A nil field
// means the slot is absent (never written, cleared, or corrupt).
type LearnerSnapshot struct {
	UserInfo  *UserInfoData
	Stats     *StatsData
	Mastery   *MasteryData
	Missions  *MissionData
	Incorrect *IncorrectData

	// Migrated lists slots that held a legacy payload. They are rewritten in
	// the current format on the next save that includes them.
	Migrated []Slot

	// Corrupt holds the decode error of each slot that could not be read.
	// Each error wraps ErrCorruptSlot.
	Corrupt map[Slot]error
}

// LearnerRepo reads and writes the learner slots of a profile.
type LearnerRepo interface {
	// Load reads all slots of a profile. Absent and corrupt slots are left
	// nil; only storage failures are returned as errors.
	Load(ctx context.Context, profile string) (*LearnerSnapshot, error)

	// Save writes every non-nil payload of snap in one transaction.
	Save(ctx context.Context, profile string, snap *LearnerSnapshot) error

	// Clear removes the given slots.
	Clear(ctx context.Context, profile string, slots ...Slot) error
}

// learnerRepo implements LearnerRepo on the slot table.
type learnerRepo struct {
	store *Store
}

func (r *learnerRepo) Load(ctx context.Context, profile string) (*LearnerSnapshot, error) {
	raw, err := r.store.GetAll(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("load learner %s: %w", profile, err)
	}

	snap := &LearnerSnapshot{Corrupt: make(map[Slot]error)}
	note := func(slot Slot, legacy bool, err error) bool {
		if err != nil {
			snap.Corrupt[slot] = err
			return false
		}
		if legacy {
			snap.Migrated = append(snap.Migrated, slot)
		}
		return true
	}

	if b, ok := raw[SlotUserInfo]; ok {
		d, legacy, err := DecodeUserInfo(b)
		if note(SlotUserInfo, legacy, err) {
			snap.UserInfo = d
		}
	}
	if b, ok := raw[SlotStats]; ok {
		d, legacy, err := DecodeStats(b)
		if note(SlotStats, legacy, err) {
			snap.Stats = d
		}
	}
	if b, ok := raw[SlotMastery]; ok {
		d, legacy, err := DecodeMastery(b)
		if note(SlotMastery, legacy, err) {
			snap.Mastery = d
		}
	}
	if b, ok := raw[SlotMissions]; ok {
		d, legacy, err := DecodeMissions(b)
		if note(SlotMissions, legacy, err) {
			snap.Missions = d
		}
	}
	if b, ok := raw[SlotIncorrect]; ok {
		d, legacy, err := DecodeIncorrect(b)
		if note(SlotIncorrect, legacy, err) {
			snap.Incorrect = d
		}
	}
	return snap, nil
}

func (r *learnerRepo) Save(ctx context.Context, profile string, snap *LearnerSnapshot) error {
	if snap == nil {
		return nil
	}

	payloads := make(map[Slot][]byte)
	add := func(slot Slot, v any) error {
		b, err := Encode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
		payloads[slot] = b
		return nil
	}

	if snap.UserInfo != nil {
		snap.UserInfo.Version = UserInfoVersion
		if err := add(SlotUserInfo, snap.UserInfo); err != nil {
			return err
		}
	}
	if snap.Stats != nil {
		snap.Stats.Version = StatsVersion
		if err := add(SlotStats, snap.Stats); err != nil {
			return err
		}
	}
	if snap.Mastery != nil {
		snap.Mastery.Version = MasteryVersion
		if err := add(SlotMastery, snap.Mastery); err != nil {
			return err
		}
	}
	if snap.Missions != nil {
		snap.Missions.Version = MissionsVersion
		if err := add(SlotMissions, snap.Missions); err != nil {
			return err
		}
	}
	if snap.Incorrect != nil {
		snap.Incorrect.Version = IncorrectVersion
		if err := add(SlotIncorrect, snap.Incorrect); err != nil {
			return err
		}
	}

	if err := r.store.SetAll(ctx, profile, payloads); err != nil {
		return fmt.Errorf("save learner %s: %w", profile, err)
	}
	return nil
}

func (r *learnerRepo) Clear(ctx context.Context, profile string, slots ...Slot) error {
	return r.store.Delete(ctx, profile, slots...)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Slot names one persisted learner value.
type Slot string

const (
	SlotUserInfo  Slot = "user_info"
	SlotStats     Slot = "stats"
	SlotMastery   Slot = "mastery"
	SlotMissions  Slot = "missions"
	SlotIncorrect Slot = "incorrect_questions"
)

// AllSlots returns every slot in a fixed order.
func AllSlots() []Slot {
	return []Slot{SlotUserInfo, SlotStats, SlotMastery, SlotMissions, SlotIncorrect}
}

// ProgressSlots are the slots cleared by a progress reset. The user identity
// is kept.
func ProgressSlots() []Slot {
	return []Slot{SlotStats, SlotMastery, SlotMissions, SlotIncorrect}
}

// execer is the subset of *sql.DB and *sql.Tx the slot writes need.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Get returns the raw payload stored in a slot, or nil with no error when
// the slot has never been written.
func (s *Store) Get(ctx context.Context, profile string, slot Slot) ([]byte, error) {
	query, args := builder().
		Select(slotDataCol).
		From(builder().Table(slotsTable)).
		Where(entsql.And(
			entsql.EQ(slotProfileCol, profile),
			entsql.EQ(slotNameCol, string(slot)),
		)).
		Query()

	var data []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return data, nil
}

// GetAll returns every written slot of a profile. Absent slots are missing
// from the map.
func (s *Store) GetAll(ctx context.Context, profile string) (map[Slot][]byte, error) {
	query, args := builder().
		Select(slotNameCol, slotDataCol).
		From(builder().Table(slotsTable)).
		Where(entsql.EQ(slotProfileCol, profile)).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}
	defer rows.Close()

	out := make(map[Slot][]byte)
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out[Slot(name)] = data
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return out, nil
}

// Set replaces the payload of one slot.
func (s *Store) Set(ctx context.Context, profile string, slot Slot, data []byte) error {
	if err := upsertSlot(ctx, s.db, profile, slot, data, time.Now()); err != nil {
		return fmt.Errorf("set slot %s: %w", slot, err)
	}
	return nil
}

// SetAll replaces several slots in one transaction. A nil payload deletes
// the slot. Either every slot is written or none is.
func (s *Store) SetAll(ctx context.Context, profile string, slots map[Slot][]byte) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, slot := range sortedSlots(slots) {
		data := slots[slot]
		if data == nil {
			err = deleteSlots(ctx, tx, profile, slot)
		} else {
			err = upsertSlot(ctx, tx, profile, slot, data, now)
		}
		if err != nil {
			return fmt.Errorf("write slot %s: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit slots: %w", err)
	}
	return nil
}

// Delete removes slots of a profile. Deleting an absent slot is not an error.
func (s *Store) Delete(ctx context.Context, profile string, slots ...Slot) error {
	if len(slots) == 0 {
		return nil
	}
	if err := deleteSlots(ctx, s.db, profile, slots...); err != nil {
		return fmt.Errorf("delete slots: %w", err)
	}
	return nil
}

func upsertSlot(ctx context.Context, ex execer, profile string, slot Slot, data []byte, now time.Time) error {
	query, args := builder().
		Insert(slotsTable).
		Columns(slotProfileCol, slotNameCol, slotDataCol, slotUpdatedAtCol).
		Values(profile, string(slot), data, now.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(slotProfileCol, slotNameCol),
			entsql.ResolveWithNewValues(),
		).
		Query()
	_, err := ex.ExecContext(ctx, query, args...)
	return err
}

func deleteSlots(ctx context.Context, ex execer, profile string, slots ...Slot) error {
	names := make([]any, len(slots))
	for i, slot := range slots {
		names[i] = string(slot)
	}
	query, args := builder().
		Delete(slotsTable).
		Where(entsql.And(
			entsql.EQ(slotProfileCol, profile),
			entsql.In(slotNameCol, names...),
		)).
		Query()
	_, err := ex.ExecContext(ctx, query, args...)
	return err
}

// sortedSlots returns the keys of slots in a stable order so writes within a
// transaction always happen in the same sequence.
func sortedSlots(slots map[Slot][]byte) []Slot {
	keys := make([]Slot, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

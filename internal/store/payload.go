package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Current payload versions. A payload without a version field is a legacy
// payload and is migrated on read.
const (
	UserInfoVersion  = 1
	StatsVersion     = 1
	MasteryVersion   = 1
	MissionsVersion  = 1
	IncorrectVersion = 1
)

// ErrCorruptSlot is returned when a stored payload cannot be decoded.
var ErrCorruptSlot = errors.New("corrupt slot")

// UserInfoData identifies the learner signed in on this profile.
type UserInfoData struct {
	Version   int    `json:"version"`
	Grade     string `json:"grade" validate:"required,max=16"`
	Class     string `json:"class" validate:"required,max=16"`
	StudentID string `json:"studentId" validate:"required,max=32"`
}

// CategoryStatData counts answers in one category.
type CategoryStatData struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// StatsData is the persisted form of a learner's level and answer counts.
type StatsData struct {
	Version       int                         `json:"version"`
	Level         int                         `json:"level"`
	Exp           int                         `json:"exp"`
	CategoryStats map[string]CategoryStatData `json:"categoryStats"`
	Plays         int                         `json:"plays,omitempty"`
	BestScore     int                         `json:"bestScore,omitempty"`
}

// MasteryRecordData is the persisted form of one question's mastery.
type MasteryRecordData struct {
	Level          string `json:"level"`
	Stage          int    `json:"stage,omitempty"`
	NextReviewDate string `json:"nextReviewDate"`
	LastReviewed   string `json:"lastReviewed,omitempty"`
}

// MasteryData maps question ids (decimal strings) to mastery records.
type MasteryData struct {
	Version int                          `json:"version"`
	Records map[string]MasteryRecordData `json:"records"`
}

// MissionEntryData is the persisted form of one daily mission.
type MissionEntryData struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
	Category    string `json:"category,omitempty"`
	Rank        string `json:"rank,omitempty"`
	ExpReward   int    `json:"expReward"`
}

// MissionData is the persisted daily mission set.
type MissionData struct {
	Version  int                `json:"version"`
	Date     string             `json:"date"`
	Missions []MissionEntryData `json:"missions"`
}

// IncorrectQuestionData is a snapshot of a missed question.
type IncorrectQuestionData struct {
	ID     int    `json:"id"`
	Prompt string `json:"question"`
	Answer string `json:"answer"`
}

// IncorrectData is the persisted list of missed questions.
type IncorrectData struct {
	Version   int                     `json:"version"`
	Questions []IncorrectQuestionData `json:"questions"`
}

// versionHeader reads only the version field of a payload.
type versionHeader struct {
	Version *int `json:"version"`
}

// decodeVersioned unmarshals raw into v after checking its version. It
// reports whether the payload was legacy (no version field).
func decodeVersioned(raw []byte, current int, v any) (bool, error) {
	var hdr versionHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return false, err
	}
	if hdr.Version != nil && *hdr.Version > current {
		return false, fmt.Errorf("unsupported version %d", *hdr.Version)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return hdr.Version == nil || *hdr.Version == 0, nil
}

// DecodeUserInfo decodes the user identity slot.
func DecodeUserInfo(raw []byte) (*UserInfoData, bool, error) {
	var d UserInfoData
	legacy, err := decodeVersioned(raw, UserInfoVersion, &d)
	if err != nil {
		return nil, false, corrupt(SlotUserInfo, err)
	}
	d.Version = UserInfoVersion
	return &d, legacy, nil
}

// DecodeStats decodes the stats slot.
func DecodeStats(raw []byte) (*StatsData, bool, error) {
	var d StatsData
	legacy, err := decodeVersioned(raw, StatsVersion, &d)
	if err != nil {
		return nil, false, corrupt(SlotStats, err)
	}
	d.Version = StatsVersion
	if d.CategoryStats == nil {
		d.CategoryStats = make(map[string]CategoryStatData)
	}
	return &d, legacy, nil
}

// DecodeMastery decodes the mastery slot. Legacy payloads are a bare map of
// question id to record with no envelope.
func DecodeMastery(raw []byte) (*MasteryData, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false, corrupt(SlotMastery, err)
	}

	if _, ok := fields["version"]; !ok {
		records := make(map[string]MasteryRecordData, len(fields))
		for id, rec := range fields {
			var r MasteryRecordData
			if err := json.Unmarshal(rec, &r); err != nil {
				return nil, false, corrupt(SlotMastery, fmt.Errorf("record %s: %w", id, err))
			}
			records[id] = r
		}
		return &MasteryData{Version: MasteryVersion, Records: records}, true, nil
	}

	var d MasteryData
	if _, err := decodeVersioned(raw, MasteryVersion, &d); err != nil {
		return nil, false, corrupt(SlotMastery, err)
	}
	if d.Records == nil {
		d.Records = make(map[string]MasteryRecordData)
	}
	return &d, false, nil
}

// DecodeMissions decodes the mission slot.
func DecodeMissions(raw []byte) (*MissionData, bool, error) {
	var d MissionData
	legacy, err := decodeVersioned(raw, MissionsVersion, &d)
	if err != nil {
		return nil, false, corrupt(SlotMissions, err)
	}
	d.Version = MissionsVersion
	return &d, legacy, nil
}

// DecodeIncorrect decodes the incorrect-question slot. Legacy payloads are a
// bare JSON array.
func DecodeIncorrect(raw []byte) (*IncorrectData, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var qs []IncorrectQuestionData
		if err := json.Unmarshal(trimmed, &qs); err != nil {
			return nil, false, corrupt(SlotIncorrect, err)
		}
		return &IncorrectData{Version: IncorrectVersion, Questions: qs}, true, nil
	}

	var d IncorrectData
	legacy, err := decodeVersioned(raw, IncorrectVersion, &d)
	if err != nil {
		return nil, false, corrupt(SlotIncorrect, err)
	}
	d.Version = IncorrectVersion
	return &d, legacy, nil
}

// Encode marshals a payload for storage.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

func corrupt(slot Slot, err error) error {
	return fmt.Errorf("%w %s: %v", ErrCorruptSlot, slot, err)
}

package mission

import (
	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/scoring"
	"github.com/kotoba-lab/questcore/internal/store"
)

// FromData builds a State from the persisted payload. It returns nil when
// there is no usable payload, which EnsureToday treats as absent.
func FromData(data *store.MissionData) *State {
	if data == nil {
		return nil
	}
	date, err := calendar.Parse(data.Date)
	if err != nil {
		return nil
	}
	st := &State{Date: date, Missions: make([]Mission, 0, len(data.Missions))}
	for _, md := range data.Missions {
		st.Missions = append(st.Missions, Mission{
			ID:          md.ID,
			Type:        Type(md.Type),
			Description: md.Description,
			Target:      md.Target,
			Progress:    md.Progress,
			Completed:   md.Completed,
			Category:    md.Category,
			Rank:        scoring.Rank(md.Rank),
			ExpReward:   md.ExpReward,
		})
	}
	return st
}

// Data exports s for persistence.
func (s State) Data() *store.MissionData {
	data := &store.MissionData{
		Version:  store.MissionsVersion,
		Date:     s.Date.String(),
		Missions: make([]store.MissionEntryData, len(s.Missions)),
	}
	for i, m := range s.Missions {
		data.Missions[i] = store.MissionEntryData{
			ID:          m.ID,
			Type:        string(m.Type),
			Description: m.Description,
			Target:      m.Target,
			Progress:    m.Progress,
			Completed:   m.Completed,
			Category:    m.Category,
			Rank:        string(m.Rank),
			ExpReward:   m.ExpReward,
		}
	}
	return data
}

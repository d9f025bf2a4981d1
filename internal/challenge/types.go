package challenge

import "github.com/kotoba-lab/questcore/internal/selection"

// Status is the outcome reported for a challenge.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// Learner identifies who pending challenges are listed for.
type Learner struct {
	Grade     string `json:"grade"`
	Class     string `json:"class"`
	StudentID string `json:"studentId"`
}

// Entry is a pending challenge sent by another learner.
type Entry struct {
	ID             string
	Mode           selection.Mode
	Scope          selection.Scope
	QuestionIDs    []int
	TargetScore    int
	ChallengerName string
}

// Settings are remotely managed switches for the client UI.
type Settings struct {
	ShowLogoutButton bool
	ShowResetButton  bool
}

// wire shapes

type challengeWire struct {
	ChallengeID string `json:"challengeId"`
	Mode        string `json:"mode"`
	Category    string `json:"category"`
	QuestionIDs []int  `json:"questionIds"`
	TargetScore int    `json:"targetScore"`
	Challenger  struct {
		Name string `json:"name"`
	} `json:"challenger"`
}

type listResponse struct {
	Success    bool            `json:"success"`
	Challenges []challengeWire `json:"challenges"`
	Message    string          `json:"message"`
}

type settingsResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Settings struct {
		ShowLogoutButton bool `json:"showLogoutButton"`
		ShowResetButton  bool `json:"showResetButton"`
	} `json:"settings"`
}

type updateRequest struct {
	Action      string `json:"action"`
	ChallengeID string `json:"challengeId"`
	Status      Status `json:"status"`
	ResultScore *int   `json:"resultScore,omitempty"`
}

func (w challengeWire) entry() Entry {
	return Entry{
		ID:             w.ChallengeID,
		Mode:           selection.Mode(w.Mode),
		Scope:          selection.Scope(w.Category),
		QuestionIDs:    w.QuestionIDs,
		TargetScore:    w.TargetScore,
		ChallengerName: w.Challenger.Name,
	}
}

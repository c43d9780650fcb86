package domain

import "time"

// Status is the lifecycle state of a presentation.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Valid reports whether s is one of the four known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusActive, StatusFinished:
		return true
	}
	return false
}

// Presentation is a single quiz session with its own lifecycle and audience.
type Presentation struct {
	ID          int64
	UserID      *int64
	Title       string
	Description string
	AdminCode   string
	Status      Status
}

func (p Presentation) IsWaiting() bool  { return p.Status == StatusWaiting }
func (p Presentation) IsActive() bool   { return p.Status == StatusActive }
func (p Presentation) IsDraft() bool    { return p.Status == StatusDraft }
func (p Presentation) IsFinished() bool { return p.Status == StatusFinished }

// QuestionContent is the displayable payload of a question.
type QuestionContent struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// Question models a timed multiple-choice question within a presentation.
type Question struct {
	ID               int64
	PresentationID   int64
	GroupName        string
	Content          QuestionContent
	TimeLimitSeconds int
	Order            int
	Options          []Option
}

// CorrectOption returns the option flagged correct, or nil if none exists.
func (q Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// Option is a possible answer. IsCorrect is never sent to participants
// before the question ends.
type Option struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// Participant is a member of a presentation's live audience. The ID is an
// opaque UUID handed out at join time; Score only ever grows.
type Participant struct {
	ID             string
	PresentationID int64
	DisplayName    string
	Score          int
	UpdatedAt      time.Time
}

// ActiveQuestion marks the currently open question of a presentation.
// Its absence means no question is accepting answers.
type ActiveQuestion struct {
	QuestionID int64     `json:"question_id"`
	StartedAt  time.Time `json:"started_at"`
}

// LeaderboardRow is one ranked line of a presentation's leaderboard.
type LeaderboardRow struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Score         int    `json:"score"`
}

// OptionCount is the per-option answer tally reported when a question ends.
type OptionCount struct {
	OptionID  int64  `json:"option_id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Count     int    `json:"count"`
}

// QuestionStatistics summarizes how a question was answered.
type QuestionStatistics struct {
	TotalAnswers   int           `json:"total_answers"`
	CorrectAnswers int           `json:"correct_answers"`
	Options        []OptionCount `json:"options"`
}

package domain

import "time"

// Event is a notification emitted on a presentation's topic.
type Event interface {
	EventName() string
}

// OptionView is the participant-facing projection of an option. It has no
// correctness field at all, so a started-question payload cannot leak the
// answer.
type OptionView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// QuestionStartedEvent announces the newly opened question. StartedAt is the
// authoritative server timestamp clients measure elapsed time against.
type QuestionStartedEvent struct {
	QuestionID       int64           `json:"question_id"`
	Content          QuestionContent `json:"content"`
	TimeLimitSeconds int             `json:"time_limit_seconds"`
	Options          []OptionView    `json:"options"`
	StartedAt        time.Time       `json:"started_at"`
}

func (QuestionStartedEvent) EventName() string { return "question_started" }

// NewQuestionStartedEvent projects q into its participant-facing form.
func NewQuestionStartedEvent(q Question, startedAt time.Time) QuestionStartedEvent {
	views := make([]OptionView, 0, len(q.Options))
	for _, opt := range q.Options {
		views = append(views, OptionView{ID: opt.ID, Text: opt.Text})
	}
	return QuestionStartedEvent{
		QuestionID:       q.ID,
		Content:          q.Content,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Options:          views,
		StartedAt:        startedAt,
	}
}

// QuestionEndedEvent reveals the correct option and the answer tallies.
type QuestionEndedEvent struct {
	QuestionID      int64              `json:"question_id"`
	CorrectOptionID int64              `json:"correct_option_id"`
	Statistics      QuestionStatistics `json:"statistics"`
}

func (QuestionEndedEvent) EventName() string { return "question_ended" }

// LeaderboardUpdatedEvent carries the current top-N standings.
type LeaderboardUpdatedEvent struct {
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

func (LeaderboardUpdatedEvent) EventName() string { return "leaderboard_updated" }

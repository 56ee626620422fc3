package quiz

import "github.com/KirkDiggler/pokedex/internal/entities"

// State is the lifecycle of a quiz session
type State int

// Session states
const (
	StateInProgress State = iota
	StateComplete
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is one run through a creature's questions
type Session struct {
	ID           string
	CreatureID   entities.CreatureID
	CreatureName string
	Questions    []Question
	// Current is the index of the next question to answer
	Current int
	Score   int
	Answers []bool
	State   State
}

// CurrentQuestion returns the next question, or nil once complete
func (s *Session) CurrentQuestion() *Question {
	if s.State == StateComplete || s.Current >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.Current]
	return &q
}

// Total is the number of questions
func (s *Session) Total() int {
	return len(s.Questions)
}

func (s *Session) clone() *Session {
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	out.Answers = append([]bool(nil), s.Answers...)
	return &out
}

// StartQuizInput defines the input for starting a quiz
type StartQuizInput struct {
	Creature *entities.Creature
	// Chain skips the catalog lookup when already known
	Chain *entities.EvolutionChain
}

// StartQuizOutput defines the output for starting a quiz
type StartQuizOutput struct {
	Session *Session
}

// AnswerInput defines the input for answering the current question
type AnswerInput struct {
	SessionID string
	// Choice is the zero-based option index
	Choice int
}

// AnswerOutput defines the output for answering a question
type AnswerOutput struct {
	Correct         bool
	CorrectOption   string
	PointsAwarded   int
	AlreadyCredited bool
	Completed       bool
	// BestScore and BadgeGranted are set on the answer that completes the session
	BestScore    int
	BadgeGranted string
	Session      *Session
}

// GetSessionInput defines the input for reading a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput defines the output for reading a session
type GetSessionOutput struct {
	Session *Session
}

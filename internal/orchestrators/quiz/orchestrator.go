// Package quiz runs per-creature quizzes and reports answers to the progress store
package quiz

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/pokedex/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/progress"
	"github.com/KirkDiggler/pokedex/internal/pkg/idgen"
)

// Service defines the interface for quiz operations
type Service interface {
	// StartQuiz builds a new session for a creature
	StartQuiz(ctx context.Context, input *StartQuizInput) (*StartQuizOutput, error)

	// Answer records the answer to the session's current question
	// Returns errors.NotFound for unknown sessions
	// Returns errors.FailedPrecondition when the session is already complete
	// Returns errors.InvalidArgument for an out-of-range choice
	Answer(ctx context.Context, input *AnswerInput) (*AnswerOutput, error)

	// GetSession returns a copy of a session
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}

// Recorder is the slice of the progress store the quiz reports to
type Recorder interface {
	RecordQuestionAnswer(ctx context.Context, id entities.CreatureID, questionIndex int, correct bool) (progress.AnswerResult, error)
	UpdateQuizBestScore(ctx context.Context, id entities.CreatureID, score int) (int, error)
	GrantPerfectScoreBadge(ctx context.Context, id entities.CreatureID, name string, score, total int) (progress.BadgeResult, error)
}

// DefaultMaxSessions bounds how many sessions the orchestrator retains
const DefaultMaxSessions = 32

// Config holds the dependencies for the quiz orchestrator
type Config struct {
	Recorder    Recorder
	Roller      dice.Roller
	IDGenerator idgen.Generator
	// Catalog is optional; without it evolution questions have no chain data
	Catalog pokeapi.Client
	// MaxSessions caps retained sessions; zero means DefaultMaxSessions.
	// Complete sessions are evicted before in-progress ones, oldest first.
	MaxSessions int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Recorder == nil {
		vb.RequiredField("Recorder")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.MaxSessions < 0 {
		vb.InvalidField("MaxSessions", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	recorder Recorder
	roller   dice.Roller
	idGen    idgen.Generator
	catalog  pokeapi.Client

	mu          sync.Mutex
	sessions    map[string]*Session
	order       []string
	maxSessions int
}

// NewOrchestrator creates a new quiz orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxSessions := cfg.MaxSessions
	if maxSessions == 0 {
		maxSessions = DefaultMaxSessions
	}

	return &orchestrator{
		recorder:    cfg.Recorder,
		roller:      cfg.Roller,
		idGen:       cfg.IDGenerator,
		catalog:     cfg.Catalog,
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
	}, nil
}

func (o *orchestrator) StartQuiz(ctx context.Context, input *StartQuizInput) (*StartQuizOutput, error) {
	if input == nil || input.Creature == nil {
		return nil, errors.InvalidArgument("creature is required")
	}
	creature := input.Creature
	if creature.ID <= 0 {
		return nil, errors.InvalidArgumentf("invalid creature id %d", creature.ID)
	}

	chain := input.Chain
	if chain == nil && o.catalog != nil && creature.SpeciesURL != "" {
		fetched, err := o.catalog.GetEvolutionChain(ctx, creature.SpeciesURL)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load evolution chain, quizzing without it",
				"creature_id", creature.ID,
				"error", err)
		} else {
			chain = fetched
		}
	}

	questions, err := BuildQuestions(creature, chain, o.roller)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:           o.idGen.Generate(),
		CreatureID:   creature.ID,
		CreatureName: creature.Name,
		Questions:    questions,
		State:        StateInProgress,
	}

	o.mu.Lock()
	o.sessions[session.ID] = session
	o.order = append(o.order, session.ID)
	o.evictLocked(ctx, session.ID)
	o.mu.Unlock()

	slog.InfoContext(ctx, "Quiz started",
		"session_id", session.ID,
		"creature_id", creature.ID,
		"questions", len(questions))

	return &StartQuizOutput{Session: session.clone()}, nil
}

func (o *orchestrator) Answer(ctx context.Context, input *AnswerInput) (*AnswerOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session id is required")
	}

	// The session lock is held across the store calls so a session's
	// answers reach the store in order.
	o.mu.Lock()
	defer o.mu.Unlock()

	session, ok := o.sessions[input.SessionID]
	if !ok {
		return nil, errors.NotFoundf("quiz session %s not found", input.SessionID)
	}
	if session.State == StateComplete {
		return nil, errors.FailedPreconditionf("quiz session %s is already complete", input.SessionID)
	}

	question := &session.Questions[session.Current]
	if input.Choice < 0 || input.Choice >= len(question.Options) {
		return nil, errors.InvalidArgumentf("choice %d out of range [0,%d)", input.Choice, len(question.Options))
	}

	correct := question.IsCorrect(input.Choice)
	recorded, err := o.recorder.RecordQuestionAnswer(ctx, session.CreatureID, question.Index, correct)
	if err != nil && !progress.IsFlushFailure(err) {
		return nil, errors.Wrap(err, "failed to record answer")
	}
	flushErr := err

	session.Answers = append(session.Answers, correct)
	if correct {
		session.Score++
	}
	session.Current++

	out := &AnswerOutput{
		Correct:         correct,
		CorrectOption:   question.CorrectOption(),
		PointsAwarded:   recorded.PointsAwarded,
		AlreadyCredited: recorded.AlreadyCredited,
	}

	if session.Current == len(session.Questions) {
		if err := o.complete(ctx, session, out); err != nil {
			flushErr = err
		}
	}

	out.Session = session.clone()
	return out, flushErr
}

// complete runs the completion effects. It is reached once per session because
// a complete session rejects further answers.
func (o *orchestrator) complete(ctx context.Context, session *Session, out *AnswerOutput) error {
	session.State = StateComplete
	out.Completed = true

	var firstErr error
	best, err := o.recorder.UpdateQuizBestScore(ctx, session.CreatureID, session.Score)
	if err != nil {
		firstErr = err
	}
	badge, err := o.recorder.GrantPerfectScoreBadge(ctx, session.CreatureID, session.CreatureName, session.Score, len(session.Questions))
	if err != nil && firstErr == nil {
		firstErr = err
	}

	out.BestScore = best
	if badge.Granted {
		out.BadgeGranted = badge.Badge
	}

	slog.InfoContext(ctx, "Quiz completed",
		"session_id", session.ID,
		"creature_id", session.CreatureID,
		"score", session.Score,
		"total", len(session.Questions),
		"badge", out.BadgeGranted)

	return firstErr
}

// evictLocked drops sessions until the cap holds, preferring the oldest
// complete session and falling back to the oldest abandoned one. keep is
// never evicted.
func (o *orchestrator) evictLocked(ctx context.Context, keep string) {
	for len(o.sessions) > o.maxSessions {
		victim := -1
		for i, id := range o.order {
			if id != keep && o.sessions[id].State == StateComplete {
				victim = i
				break
			}
		}
		if victim < 0 {
			for i, id := range o.order {
				if id != keep {
					victim = i
					break
				}
			}
		}
		if victim < 0 {
			return
		}

		id := o.order[victim]
		slog.DebugContext(ctx, "Evicting quiz session",
			"session_id", id,
			"state", o.sessions[id].State)
		delete(o.sessions, id)
		o.order = append(o.order[:victim], o.order[victim+1:]...)
	}
}

func (o *orchestrator) GetSession(_ context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session id is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	session, ok := o.sessions[input.SessionID]
	if !ok {
		return nil, errors.NotFoundf("quiz session %s not found", input.SessionID)
	}
	return &GetSessionOutput{Session: session.clone()}, nil
}

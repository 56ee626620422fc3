package quiz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	pokeapimock "github.com/KirkDiggler/pokedex/internal/clients/pokeapi/mock"
	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/progress"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/quiz"
	"github.com/KirkDiggler/pokedex/internal/pkg/idgen"
	"github.com/KirkDiggler/pokedex/internal/progression"
	progressrepo "github.com/KirkDiggler/pokedex/internal/repositories/progress"
	"github.com/KirkDiggler/pokedex/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockCatalog *pokeapimock.MockClient
	store       *progress.Store
	service     quiz.Service
	ctx         context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCatalog = pokeapimock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	var err error
	s.store, err = progress.New(s.ctx, &progress.Config{Repository: progressrepo.NewInMemoryRepository()})
	s.Require().NoError(err)

	s.service, err = quiz.NewOrchestrator(&quiz.Config{
		Recorder:    s.store,
		Roller:      &stubRoller{},
		IDGenerator: idgen.NewSequential("quiz"),
		Catalog:     s.mockCatalog,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) start(creature *entities.Creature) *quiz.Session {
	out, err := s.service.StartQuiz(s.ctx, &quiz.StartQuizInput{Creature: creature, Chain: pikachuChain()})
	s.Require().NoError(err)
	s.Require().Equal(quiz.StateInProgress, out.Session.State)
	return out.Session
}

func correctChoice(q *quiz.Question) int {
	for i := range q.Options {
		if q.IsCorrect(i) {
			return i
		}
	}
	return -1
}

func wrongChoice(q *quiz.Question) int {
	for i := range q.Options {
		if !q.IsCorrect(i) {
			return i
		}
	}
	return -1
}

// answerAll answers every question, missing the ones listed
func (s *OrchestratorTestSuite) answerAll(session *quiz.Session, miss map[int]bool) *quiz.AnswerOutput {
	var last *quiz.AnswerOutput
	for i := 0; i < session.Total(); i++ {
		q := session.CurrentQuestion()
		s.Require().NotNil(q)

		choice := correctChoice(q)
		if miss[i] {
			choice = wrongChoice(q)
		}

		out, err := s.service.Answer(s.ctx, &quiz.AnswerInput{SessionID: session.ID, Choice: choice})
		s.Require().NoError(err)
		s.Equal(!miss[i], out.Correct)
		session = out.Session
		last = out
	}
	return last
}

func (s *OrchestratorTestSuite) TestPerfectQuiz() {
	session := s.start(testutils.CreatePikachu())
	s.Equal(5, session.Total())

	last := s.answerAll(session, nil)

	s.True(last.Completed)
	s.Equal(quiz.StateComplete, last.Session.State)
	s.Equal(5, last.Session.Score)
	s.Equal(5, last.BestScore)
	s.Equal("Pikachu Master", last.BadgeGranted)
	s.Nil(last.Session.CurrentQuestion())

	snap := s.store.Snapshot()
	s.Equal(5*progression.PointsPerCorrectAnswer, snap.State.Points)
	s.Equal(5, snap.State.QuizBestScore[25])
	s.Equal([]string{"Pikachu Master"}, snap.State.BadgeNames())
	s.Equal([]entities.CreatureID{25}, snap.State.CompletedQuizIDs())
}

func (s *OrchestratorTestSuite) TestRetakeEarnsNothingNew() {
	s.answerAll(s.start(testutils.CreatePikachu()), nil)
	points := s.store.Snapshot().State.Points

	last := s.answerAll(s.start(testutils.CreatePikachu()), nil)

	s.Equal(0, last.PointsAwarded)
	s.True(last.AlreadyCredited)
	s.Empty(last.BadgeGranted)
	s.Equal(points, s.store.Snapshot().State.Points)
	s.Len(s.store.Snapshot().State.Badges, 1)
}

func (s *OrchestratorTestSuite) TestImperfectQuiz() {
	last := s.answerAll(s.start(testutils.CreatePikachu()), map[int]bool{2: true})

	s.True(last.Completed)
	s.Equal(4, last.Session.Score)
	s.Equal(4, last.BestScore)
	s.Empty(last.BadgeGranted)
	s.Equal([]bool{true, true, false, true, true}, last.Session.Answers)

	snap := s.store.Snapshot()
	s.Equal(4*progression.PointsPerCorrectAnswer, snap.State.Points)
	s.Empty(snap.State.BadgeNames())
	s.Empty(snap.State.CompletedQuizIDs())
	s.False(snap.State.IsCredited(entities.QuestionID{CreatureID: 25, Index: 2}))
}

func (s *OrchestratorTestSuite) TestBestScoreIsKeptAcrossRuns() {
	s.answerAll(s.start(testutils.CreatePikachu()), map[int]bool{0: true})
	last := s.answerAll(s.start(testutils.CreatePikachu()), map[int]bool{0: true, 1: true, 2: true})

	s.Equal(2, last.Session.Score)
	s.Equal(4, last.BestScore)
}

func (s *OrchestratorTestSuite) TestAnswerCompleteSession() {
	session := s.start(testutils.CreatePikachu())
	s.answerAll(session, nil)

	_, err := s.service.Answer(s.ctx, &quiz.AnswerInput{SessionID: session.ID, Choice: 0})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestAnswerUnknownSession() {
	_, err := s.service.Answer(s.ctx, &quiz.AnswerInput{SessionID: "quiz_404"})
	s.True(errors.IsNotFound(err))

	_, err = s.service.Answer(s.ctx, &quiz.AnswerInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestAnswerChoiceOutOfRange() {
	session := s.start(testutils.CreatePikachu())

	_, err := s.service.Answer(s.ctx, &quiz.AnswerInput{SessionID: session.ID, Choice: 4})
	s.True(errors.IsInvalidArgument(err))

	got, err := s.service.GetSession(s.ctx, &quiz.GetSessionInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.Equal(0, got.Session.Current)
}

func (s *OrchestratorTestSuite) TestSessionCopiesAreDetached() {
	session := s.start(testutils.CreatePikachu())
	session.Questions[0].Options[0] = "tampered"
	session.Score = 99

	got, err := s.service.GetSession(s.ctx, &quiz.GetSessionInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.NotEqual("tampered", got.Session.Questions[0].Options[0])
	s.Equal(0, got.Session.Score)
}

func (s *OrchestratorTestSuite) TestStartFetchesEvolutionChain() {
	pikachu := testutils.CreatePikachu()
	s.mockCatalog.EXPECT().
		GetEvolutionChain(s.ctx, pikachu.SpeciesURL).
		Return(pikachuChain(), nil)

	out, err := s.service.StartQuiz(s.ctx, &quiz.StartQuizInput{Creature: pikachu})
	s.Require().NoError(err)
	s.Equal("Pichu → Pikachu → Raichu", out.Session.Questions[4].CorrectOption())
}

func (s *OrchestratorTestSuite) TestStartWithoutEvolutionData() {
	pikachu := testutils.CreatePikachu()
	s.mockCatalog.EXPECT().
		GetEvolutionChain(s.ctx, pikachu.SpeciesURL).
		Return(nil, errors.Unavailable("pokeapi down"))

	out, err := s.service.StartQuiz(s.ctx, &quiz.StartQuizInput{Creature: pikachu})
	s.Require().NoError(err)
	s.Equal("Pikachu (No evolution data)", out.Session.Questions[4].CorrectOption())
}

func (s *OrchestratorTestSuite) TestStartValidation() {
	_, err := s.service.StartQuiz(s.ctx, &quiz.StartQuizInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.StartQuiz(s.ctx, &quiz.StartQuizInput{Creature: &entities.Creature{Name: "nobody"}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestSessionsAreBounded() {
	var err error
	s.service, err = quiz.NewOrchestrator(&quiz.Config{
		Recorder:    s.store,
		Roller:      &stubRoller{},
		IDGenerator: idgen.NewSequential("quiz"),
		MaxSessions: 2,
	})
	s.Require().NoError(err)

	exists := func(id string) bool {
		_, err := s.service.GetSession(s.ctx, &quiz.GetSessionInput{SessionID: id})
		if err != nil {
			s.Require().True(errors.IsNotFound(err))
			return false
		}
		return true
	}

	finished := s.start(testutils.CreatePikachu())
	s.answerAll(finished, nil)
	abandoned := s.start(testutils.CreatePikachu())

	// the complete session goes first even though it is not the oldest in-progress
	third := s.start(testutils.CreatePikachu())
	s.False(exists(finished.ID))
	s.True(exists(abandoned.ID))
	s.True(exists(third.ID))

	fourth := s.start(testutils.CreatePikachu())
	s.False(exists(abandoned.ID))
	s.True(exists(third.ID))
	s.True(exists(fourth.ID))

	out, err := s.service.Answer(s.ctx, &quiz.AnswerInput{SessionID: fourth.ID, Choice: correctChoice(fourth.CurrentQuestion())})
	s.Require().NoError(err)
	s.Equal(1, out.Session.Current)
}

func (s *OrchestratorTestSuite) TestConfigValidate() {
	_, err := quiz.NewOrchestrator(&quiz.Config{})
	s.Error(err)

	_, err = quiz.NewOrchestrator(&quiz.Config{
		Recorder:    s.store,
		Roller:      &stubRoller{},
		IDGenerator: idgen.NewSequential("quiz"),
		MaxSessions: -1,
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = quiz.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	pokeapimock "github.com/KirkDiggler/pokedex/internal/clients/pokeapi/mock"
	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	mockclock "github.com/KirkDiggler/pokedex/internal/pkg/clock/mock"
	progressrepo "github.com/KirkDiggler/pokedex/internal/repositories/progress"
	"github.com/KirkDiggler/pokedex/internal/testutils"
	"github.com/KirkDiggler/pokedex/internal/testutils/mocks"
)

// firstRoller rolls the maximum so quiz options keep their built order,
// which puts the correct answer first.
type firstRoller struct{}

func (firstRoller) Roll(size int) (int, error) { return size, nil }
func (firstRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = size
	}
	return out, nil
}

type CLITestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockFetcher *pokeapimock.MockClient
	mockClock   *mockclock.MockClock
	repo        progressrepo.Repository
	now         time.Time
	env         map[string]string
}

func (s *CLITestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockFetcher = pokeapimock.NewMockClient(s.ctrl)
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.repo = progressrepo.NewInMemoryRepository()
	s.now = time.Date(2024, 3, 10, 9, 30, 0, 0, time.Local)
	s.env = map[string]string{
		"POKEDEX_STORAGE_BACKEND": "memory",
		"POKEDEX_LOG_LEVEL":       "error",
	}

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
}

func (s *CLITestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// run executes one CLI invocation against the shared repository
func (s *CLITestSuite) run(stdin string, args ...string) (string, error) {
	c := newCLI(deps{
		Getenv:     func(key string) string { return s.env[key] },
		Fetcher:    s.mockFetcher,
		Repository: s.repo,
		Clock:      s.mockClock,
		Roller:     firstRoller{},
	})

	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(io.Discard)
	c.root.SetIn(strings.NewReader(stdin))
	c.root.SetArgs(args)

	err := c.execute(context.Background())
	return out.String(), err
}

func (s *CLITestSuite) mustRun(stdin string, args ...string) string {
	out, err := s.run(stdin, args...)
	s.Require().NoError(err, out)
	return out
}

func (s *CLITestSuite) snapshot() *entities.ProgressState {
	out, err := s.repo.Load(context.Background(), progressrepo.LoadInput{})
	s.Require().NoError(err)
	return out.State
}

func pikachuChain() *entities.EvolutionChain {
	return &entities.EvolutionChain{
		ID: 10,
		Root: &entities.EvolutionNode{
			Stage: entities.EvolutionStage{Name: "pichu", ID: 172},
			EvolvesTo: []*entities.EvolutionNode{{
				Stage: entities.EvolutionStage{Name: "pikachu", ID: 25},
				EvolvesTo: []*entities.EvolutionNode{{
					Stage: entities.EvolutionStage{Name: "raichu", ID: 26, Item: "thunder-stone"},
				}},
			}},
		},
	}
}

func (s *CLITestSuite) TestDailyStreakOncePerDay() {
	out := s.mustRun("", "progress")
	s.Contains(out, "🔥 Day 1 streak! +5 points")
	s.Contains(out, "Level 1 Pokémon Novice")
	s.Contains(out, "5 points, 95 to level 2")

	out = s.mustRun("", "progress")
	s.NotContains(out, "streak!")

	s.now = s.now.AddDate(0, 0, 1)
	out = s.mustRun("", "progress")
	s.Contains(out, "🔥 Day 2 streak! +10 points")
	s.Contains(out, "Daily streak: 2")

	s.Equal(15, s.snapshot().Points)
}

func (s *CLITestSuite) TestShowRecordsDiscovery() {
	mocks.ExpectCreatureDetail(s.mockFetcher, "pikachu", testutils.CreatePikachu(), pikachuChain())

	out := s.mustRun("", "show", "pikachu")
	s.Contains(out, "✨ New discovery: Pikachu! +10 points")
	s.Contains(out, "#025 Pikachu")
	s.Contains(out, "Height:  0.4 m")
	s.Contains(out, "Weight:  6.0 kg")
	s.Contains(out, "lightning-rod (hidden)")
	s.Contains(out, "Species: Test Pokémon")
	s.Contains(out, "Evolution: Pichu → Pikachu → Raichu")

	out = s.mustRun("", "show", "pikachu")
	s.NotContains(out, "New discovery")

	state := s.snapshot()
	s.True(state.IsDiscovered(25))
	s.Equal(15, state.Points)
}

func (s *CLITestSuite) TestShowSurvivesMissingSpecies() {
	pikachu := testutils.CreatePikachu()
	s.mockFetcher.EXPECT().GetCreature(gomock.Any(), "25").Return(pikachu, nil)
	s.mockFetcher.EXPECT().GetSpecies(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("down"))

	out := s.mustRun("", "show", "25")
	s.Contains(out, "#025 Pikachu")
	s.NotContains(out, "Species:")
}

func (s *CLITestSuite) TestShowUnknownCreature() {
	mocks.ExpectCreatureMissing(s.mockFetcher, "missingno", errors.NotFound("creature missingno not found"))

	_, err := s.run("", "show", "missingno")
	s.True(errors.IsNotFound(err))
	s.Empty(retryHint(err))
}

func (s *CLITestSuite) TestDiscover() {
	out := s.mustRun("", "discover", "7")
	s.Contains(out, "New discovery: #007! +10 points")

	out = s.mustRun("", "discover", "7")
	s.Contains(out, "#007 is already discovered")

	_, err := s.run("", "discover", "seven")
	s.True(errors.IsInvalidArgument(err))
}

func (s *CLITestSuite) TestPerfectQuiz() {
	pikachu := testutils.CreatePikachu()
	s.mockFetcher.EXPECT().GetCreature(gomock.Any(), "25").Return(pikachu, nil)
	mocks.ExpectEvolutionChain(s.mockFetcher, pikachu, pikachuChain())

	out := s.mustRun("9\nabc\n1\n1\n1\n1\n1\n", "quiz", "25")

	s.Contains(out, "Please enter a number from 1 to 4.")
	s.Equal(5, strings.Count(out, "✓ Correct! +20 points"))
	s.Contains(out, "Score: 5/5 (best 5)")
	s.Contains(out, "🏅 Badge earned: Pikachu Master")
	s.Contains(out, "⭐ LEVEL UP! 1 → 2")

	state := s.snapshot()
	s.Equal(105, state.Points)
	s.Equal(5, state.QuizBestScore[25])
	s.True(state.HasBadge("Pikachu Master"))
	s.Equal([]entities.CreatureID{25}, state.CompletedQuizIDs())
}

func (s *CLITestSuite) TestQuizRetakeEarnsNothing() {
	pikachu := testutils.CreatePikachu()
	s.mockFetcher.EXPECT().GetCreature(gomock.Any(), "25").Return(pikachu, nil).Times(2)
	s.mockFetcher.EXPECT().GetEvolutionChain(gomock.Any(), gomock.Any()).Return(pikachuChain(), nil).Times(2)

	s.mustRun("1\n1\n1\n1\n1\n", "quiz", "25")
	out := s.mustRun("1\n1\n1\n1\n1\n", "quiz", "25")

	s.Equal(5, strings.Count(out, "✓ Correct!\n"))
	s.NotContains(out, "Badge earned")
	s.Equal(105, s.snapshot().Points)
}

func (s *CLITestSuite) TestQuizWrongAnswer() {
	pikachu := testutils.CreatePikachu()
	s.mockFetcher.EXPECT().GetCreature(gomock.Any(), "25").Return(pikachu, nil)
	s.mockFetcher.EXPECT().GetEvolutionChain(gomock.Any(), gomock.Any()).Return(pikachuChain(), nil)

	out := s.mustRun("2\n1\n1\n1\n1\n", "quiz", "25")

	s.Contains(out, "✗ The answer was electric")
	s.Contains(out, "Score: 4/5 (best 4)")
	s.NotContains(out, "Badge earned")
}

func (s *CLITestSuite) TestQuizAbandoned() {
	pikachu := testutils.CreatePikachu()
	s.mockFetcher.EXPECT().GetCreature(gomock.Any(), "25").Return(pikachu, nil)
	s.mockFetcher.EXPECT().GetEvolutionChain(gomock.Any(), gomock.Any()).Return(pikachuChain(), nil)

	seed := entities.NewProgressState()
	seed.Points = 90
	_, err := s.repo.Save(context.Background(), progressrepo.SaveInput{State: seed})
	s.Require().NoError(err)

	out, err := s.run("1\n", "quiz", "25")
	s.True(errors.IsCanceled(err))

	// the one answer given still counts and its level up is still reported
	s.Contains(out, "✓ Correct! +20 points")
	s.Contains(out, "⭐ LEVEL UP! 1 → 2")
	s.Equal(115, s.snapshot().Points)
}

func (s *CLITestSuite) TestFailedCommandStillTearsDown() {
	seed := entities.NewProgressState()
	seed.Points = 96
	_, err := s.repo.Save(context.Background(), progressrepo.SaveInput{State: seed})
	s.Require().NoError(err)
	mocks.ExpectCreatureMissing(s.mockFetcher, "missingno", errors.NotFound("creature missingno not found"))

	out, err := s.run("", "show", "missingno")
	s.True(errors.IsNotFound(err))
	s.Contains(out, "🔥 Day 1 streak! +5 points")
	s.Contains(out, "⭐ LEVEL UP! 1 → 2")
	s.Equal(101, s.snapshot().Points)
}

func (s *CLITestSuite) TestFavorite() {
	s.Contains(s.mustRun("", "favorite"), "No favorites yet.")
	s.Contains(s.mustRun("", "favorite", "25"), "★ #025 added to favorites")
	s.Contains(s.mustRun("", "favorite"), "★ #025")
	s.Contains(s.mustRun("", "favorite", "25"), "#025 removed from favorites")
	s.Empty(s.snapshot().FavoriteIDs())
}

func (s *CLITestSuite) TestFilterSearchAndBrowse() {
	mocks.ExpectRoster(s.mockFetcher, 151, testutils.CreateRoster(151)).Times(3)

	s.Contains(s.mustRun("", "filter", "Electric", "fire"), "Type filter: electric, fire")
	s.Contains(s.mustRun("", "filter", "fire"), "Type filter: electric")

	out := s.mustRun("", "browse")
	s.Contains(out, "#004 Creature 004")
	s.Contains(out, "Page 1/2 (30 results)")

	s.Contains(s.mustRun("", "search", "creature-15"), `Searching for "creature-15"`)
	out = s.mustRun("", "browse", "--type", "grass")
	s.Contains(out, "#151 Creature 151")
	s.Contains(out, "Page 1/1 (1 results)")

	out = s.mustRun("", "browse", "--search", "", "--type", "", "--page", "99")
	s.Contains(out, "Page 8/8 (151 results)")

	s.Contains(s.mustRun("", "filter", "--clear"), "Type filter: all types")
	s.Contains(s.mustRun("", "search"), "Search cleared")
	s.Empty(s.snapshot().SearchTerm)
}

func (s *CLITestSuite) TestBrowseCatalogUnavailable() {
	s.mockFetcher.EXPECT().ListCreatures(gomock.Any(), 151).Return(nil, errors.Unavailable("pokeapi down"))

	_, err := s.run("", "browse")
	s.True(errors.IsUnavailable(err))
	s.NotEmpty(retryHint(err))
}

func (s *CLITestSuite) TestTheme() {
	s.Contains(s.mustRun("", "theme"), "Theme: dark")
	s.Contains(s.mustRun("", "theme"), "Theme: light")
	s.Contains(s.mustRun("", "theme", "DARK"), "Theme: dark")

	_, err := s.run("", "theme", "blue")
	s.True(errors.IsInvalidArgument(err))
	s.Equal(entities.ThemeDark, s.snapshot().Theme)
}

func (s *CLITestSuite) TestInvalidFlags() {
	_, err := s.run("", "--storage", "s3", "progress")
	s.True(errors.IsInvalidArgument(err))

	_, err = s.run("", "--log-level", "loud", "progress")
	s.True(errors.IsInvalidArgument(err))
}

func (s *CLITestSuite) TestRepair() {
	mr := miniredis.RunT(s.T())
	s.Require().NoError(mr.Set("pokemon-store", `{"state":{"userPoints":40,"discoveredPokemon":[1,4]},"version":0}`))
	s.Require().NoError(mr.Set("pokemon-store-guest", `{not json`))
	s.env["POKEDEX_REDIS_ENDPOINT"] = mr.Addr()

	out := s.mustRun("", "repair", "--pattern", "pokemon-store*", "--dry-run")
	s.Contains(out, "Scanned 2 keys: 0 current, 1 migrated, 1 corrupt")
	s.Contains(out, "Dry run")

	out = s.mustRun("", "repair", "--pattern", "pokemon-store*", "--reset-corrupt")
	s.Contains(out, "Reset:    pokemon-store-guest")

	out = s.mustRun("", "repair", "--pattern", "pokemon-store*")
	s.Contains(out, "Scanned 2 keys: 2 current, 0 migrated, 0 corrupt")

	// repair does not open a session
	s.Zero(s.snapshot().DailyStreak)
}

func (s *CLITestSuite) TestRepairRequiresRedis() {
	_, err := s.run("", "repair")
	s.True(errors.IsFailedPrecondition(err))
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

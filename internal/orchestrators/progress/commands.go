package progress

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	"github.com/KirkDiggler/pokedex/internal/pkg/clock"
	"github.com/KirkDiggler/pokedex/internal/progression"
)

// Command is one state transition. Commands are applied to a private copy of
// the state which replaces the live state only when the command marks it changed.
type Command interface {
	Name() string
	apply(m *mutation) error
}

type mutation struct {
	state      *entities.ProgressState
	thresholds []int
	clock      clock.Clock
	changed    bool
	levelUp    *LevelUp
	events     []pendingEvent
	result     any
}

func (m *mutation) emit(eventType string, creature entities.CreatureID, data map[string]any) {
	m.events = append(m.events, pendingEvent{eventType: eventType, creature: creature, data: data})
}

// award adds points and records a level-up when the level increases
func (m *mutation) award(amount int, creature entities.CreatureID) AwardResult {
	before := m.state.Points
	from := progression.LevelForPoints(before, m.thresholds)
	res := AwardResult{FromLevel: from, ToLevel: from}

	if amount <= 0 {
		return res
	}

	m.state.Points = before + amount
	m.changed = true
	res.PointsAwarded = amount
	res.ToLevel = progression.LevelForPoints(m.state.Points, m.thresholds)

	m.emit(EventPointsAwarded, creature, map[string]any{
		KeyPoints: amount,
		KeyTotal:  m.state.Points,
	})

	if res.ToLevel > from {
		lu := &LevelUp{From: from, To: res.ToLevel}
		m.levelUp = lu.mergeInto(m.levelUp)
		m.emit(EventLevelUp, 0, map[string]any{
			KeyFromLevel: from,
			KeyToLevel:   res.ToLevel,
		})
	}
	return res
}

func (m *mutation) grantBadge(name string, creature entities.CreatureID) bool {
	if m.state.HasBadge(name) {
		return false
	}
	m.state.Badges[name] = struct{}{}
	m.changed = true
	m.emit(EventBadgeGranted, creature, map[string]any{KeyBadge: name})
	return true
}

// AwardResult reports a point award
type AwardResult struct {
	PointsAwarded int
	FromLevel     int
	ToLevel       int
}

// LeveledUp reports whether the award crossed at least one threshold
func (r AwardResult) LeveledUp() bool {
	return r.ToLevel > r.FromLevel
}

// DiscoveryResult reports a discovery
type DiscoveryResult struct {
	FirstTime bool
	Award     AwardResult
}

// StreakResult reports a daily streak refresh
type StreakResult struct {
	Streak int
	// Refreshed is false when the trainer already visited today
	Refreshed bool
	Award     AwardResult
}

// AnswerResult reports a recorded quiz answer
type AnswerResult struct {
	Correct         bool
	PointsAwarded   int
	AlreadyCredited bool
	Award           AwardResult
}

// BadgeResult reports a badge grant
type BadgeResult struct {
	Badge   string
	Granted bool
}

// RecordDiscovery marks a creature as discovered, awarding the bonus the first time
type RecordDiscovery struct {
	CreatureID entities.CreatureID
}

// Name implements Command
func (RecordDiscovery) Name() string { return "record_discovery" }

func (c RecordDiscovery) apply(m *mutation) error {
	if c.CreatureID <= 0 {
		return errors.InvalidArgumentf("invalid creature id %d", c.CreatureID)
	}

	if m.state.IsDiscovered(c.CreatureID) {
		m.result = DiscoveryResult{}
		return nil
	}

	m.state.Discovered[c.CreatureID] = struct{}{}
	m.changed = true
	m.emit(EventCreatureDiscovered, c.CreatureID, nil)
	m.result = DiscoveryResult{
		FirstTime: true,
		Award:     m.award(progression.DiscoveryBonus, c.CreatureID),
	}
	return nil
}

// AwardPoints adds points; negative amounts are treated as zero
type AwardPoints struct {
	Amount int
}

// Name implements Command
func (AwardPoints) Name() string { return "award_points" }

func (c AwardPoints) apply(m *mutation) error {
	m.result = m.award(c.Amount, 0)
	return nil
}

// ToggleFavorite flips a creature's favorite flag
type ToggleFavorite struct {
	CreatureID entities.CreatureID
}

// Name implements Command
func (ToggleFavorite) Name() string { return "toggle_favorite" }

func (c ToggleFavorite) apply(m *mutation) error {
	if c.CreatureID <= 0 {
		return errors.InvalidArgumentf("invalid creature id %d", c.CreatureID)
	}

	if m.state.IsFavorite(c.CreatureID) {
		delete(m.state.Favorites, c.CreatureID)
		m.result = false
	} else {
		m.state.Favorites[c.CreatureID] = struct{}{}
		m.result = true
	}
	m.changed = true
	return nil
}

// ToggleTypeFilter flips a type in the active filter
type ToggleTypeFilter struct {
	TypeName string
}

// Name implements Command
func (ToggleTypeFilter) Name() string { return "toggle_type_filter" }

func (c ToggleTypeFilter) apply(m *mutation) error {
	t := strings.ToLower(strings.TrimSpace(c.TypeName))
	if t == "" {
		return errors.InvalidArgument("type name is required")
	}

	if _, ok := m.state.SelectedTypes[t]; ok {
		delete(m.state.SelectedTypes, t)
		m.result = false
	} else {
		m.state.SelectedTypes[t] = struct{}{}
		m.result = true
	}
	m.changed = true
	return nil
}

// GrantBadge adds a badge; granting an owned badge is a no-op
type GrantBadge struct {
	Badge string
}

// Name implements Command
func (GrantBadge) Name() string { return "grant_badge" }

func (c GrantBadge) apply(m *mutation) error {
	badge := strings.TrimSpace(c.Badge)
	if badge == "" {
		return errors.InvalidArgument("badge name is required")
	}
	m.result = BadgeResult{Badge: badge, Granted: m.grantBadge(badge, 0)}
	return nil
}

// RefreshDailyStreak credits today's visit. Calling it again on the same day is a no-op.
type RefreshDailyStreak struct{}

// Name implements Command
func (RefreshDailyStreak) Name() string { return "refresh_daily_streak" }

func (RefreshDailyStreak) apply(m *mutation) error {
	now := m.clock.Now()
	today := clock.Day(now)

	if m.state.LastLoginDate == today {
		m.result = StreakResult{Streak: m.state.DailyStreak}
		return nil
	}

	var bonus int
	if m.state.LastLoginDate == clock.PreviousDay(now) {
		bonus = progression.StreakBonus(m.state.DailyStreak)
		m.state.DailyStreak++
	} else {
		bonus = progression.FirstDayBonus
		m.state.DailyStreak = 1
	}
	m.state.LastLoginDate = today
	m.changed = true

	m.emit(EventStreakRefreshed, 0, map[string]any{KeyStreak: m.state.DailyStreak})
	m.result = StreakResult{
		Streak:    m.state.DailyStreak,
		Refreshed: true,
		Award:     m.award(bonus, 0),
	}
	return nil
}

// RecordQuestionAnswer credits a correct answer once per question, ever
type RecordQuestionAnswer struct {
	CreatureID    entities.CreatureID
	QuestionIndex int
	Correct       bool
}

// Name implements Command
func (RecordQuestionAnswer) Name() string { return "record_question_answer" }

func (c RecordQuestionAnswer) apply(m *mutation) error {
	if c.CreatureID <= 0 {
		return errors.InvalidArgumentf("invalid creature id %d", c.CreatureID)
	}
	if c.QuestionIndex < 0 {
		return errors.InvalidArgumentf("invalid question index %d", c.QuestionIndex)
	}

	q := entities.QuestionID{CreatureID: c.CreatureID, Index: c.QuestionIndex}
	res := AnswerResult{Correct: c.Correct, AlreadyCredited: m.state.IsCredited(q)}

	if c.Correct && !res.AlreadyCredited {
		m.state.QuestionLedger[q] = true
		m.changed = true
		res.Award = m.award(progression.PointsPerCorrectAnswer, c.CreatureID)
		res.PointsAwarded = res.Award.PointsAwarded
	}

	m.result = res
	return nil
}

// UpdateQuizBestScore raises the best score for a creature's quiz; lower scores are ignored
type UpdateQuizBestScore struct {
	CreatureID entities.CreatureID
	Score      int
}

// Name implements Command
func (UpdateQuizBestScore) Name() string { return "update_quiz_best_score" }

func (c UpdateQuizBestScore) apply(m *mutation) error {
	if c.CreatureID <= 0 {
		return errors.InvalidArgumentf("invalid creature id %d", c.CreatureID)
	}
	if c.Score < 0 {
		return errors.InvalidArgumentf("invalid score %d", c.Score)
	}

	best, ok := m.state.QuizBestScore[c.CreatureID]
	if !ok || c.Score > best {
		m.state.QuizBestScore[c.CreatureID] = c.Score
		m.changed = true
		best = c.Score
	}
	m.result = best
	return nil
}

// GrantPerfectScoreBadge grants the creature's mastery badge when every question was answered correctly
type GrantPerfectScoreBadge struct {
	CreatureID   entities.CreatureID
	CreatureName string
	Score        int
	Total        int
}

// Name implements Command
func (GrantPerfectScoreBadge) Name() string { return "grant_perfect_score_badge" }

func (c GrantPerfectScoreBadge) apply(m *mutation) error {
	if c.CreatureID <= 0 {
		return errors.InvalidArgumentf("invalid creature id %d", c.CreatureID)
	}

	badge := MasteryBadge(c.CreatureID, c.CreatureName)
	res := BadgeResult{Badge: badge}
	if c.Total > 0 && c.Score == c.Total {
		res.Granted = m.grantBadge(badge, c.CreatureID)
		if _, done := m.state.CompletedQuizzes[c.CreatureID]; !done {
			m.state.CompletedQuizzes[c.CreatureID] = struct{}{}
			m.changed = true
		}
	}
	m.result = res
	return nil
}

// MasteryBadge is the badge name for a perfect quiz on a creature
func MasteryBadge(id entities.CreatureID, name string) string {
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("#%d Master", id)
	}
	return entities.DisplayName(name) + " Master"
}

// SetSearchTerm stores the catalog search term
type SetSearchTerm struct {
	Term string
}

// Name implements Command
func (SetSearchTerm) Name() string { return "set_search_term" }

func (c SetSearchTerm) apply(m *mutation) error {
	if m.state.SearchTerm != c.Term {
		m.state.SearchTerm = c.Term
		m.changed = true
	}
	m.result = c.Term
	return nil
}

// SetTheme selects the color theme
type SetTheme struct {
	Theme entities.Theme
}

// Name implements Command
func (SetTheme) Name() string { return "set_theme" }

func (c SetTheme) apply(m *mutation) error {
	if !c.Theme.Valid() {
		return errors.InvalidArgumentf("unknown theme %q", c.Theme)
	}
	if m.state.Theme != c.Theme {
		m.state.Theme = c.Theme
		m.changed = true
	}
	m.result = c.Theme
	return nil
}

// ToggleTheme switches between light and dark
type ToggleTheme struct{}

// Name implements Command
func (ToggleTheme) Name() string { return "toggle_theme" }

func (ToggleTheme) apply(m *mutation) error {
	if m.state.Theme == entities.ThemeDark {
		m.state.Theme = entities.ThemeLight
	} else {
		m.state.Theme = entities.ThemeDark
	}
	m.changed = true
	m.result = m.state.Theme
	return nil
}

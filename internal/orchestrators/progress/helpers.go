package progress

import (
	"context"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// dispatchAs runs a command and unpacks its typed result. The result is
// returned alongside a flush error so callers can still show what happened.
func dispatchAs[T any](ctx context.Context, s *Store, cmd Command) (T, error) {
	var zero T
	out, err := s.Dispatch(ctx, cmd)
	if out == nil {
		return zero, err
	}
	res, ok := out.Result.(T)
	if !ok {
		return zero, err
	}
	return res, err
}

// RecordDiscovery marks a creature as discovered
func (s *Store) RecordDiscovery(ctx context.Context, id entities.CreatureID) (DiscoveryResult, error) {
	return dispatchAs[DiscoveryResult](ctx, s, RecordDiscovery{CreatureID: id})
}

// AwardPoints adds points to the trainer
func (s *Store) AwardPoints(ctx context.Context, amount int) (AwardResult, error) {
	return dispatchAs[AwardResult](ctx, s, AwardPoints{Amount: amount})
}

// ToggleFavorite flips the favorite flag and reports the new value
func (s *Store) ToggleFavorite(ctx context.Context, id entities.CreatureID) (bool, error) {
	return dispatchAs[bool](ctx, s, ToggleFavorite{CreatureID: id})
}

// ToggleTypeFilter flips a type in the filter and reports whether it is now selected
func (s *Store) ToggleTypeFilter(ctx context.Context, typeName string) (bool, error) {
	return dispatchAs[bool](ctx, s, ToggleTypeFilter{TypeName: typeName})
}

// GrantBadge adds a badge
func (s *Store) GrantBadge(ctx context.Context, badge string) (BadgeResult, error) {
	return dispatchAs[BadgeResult](ctx, s, GrantBadge{Badge: badge})
}

// RefreshDailyStreak credits today's visit
func (s *Store) RefreshDailyStreak(ctx context.Context) (StreakResult, error) {
	return dispatchAs[StreakResult](ctx, s, RefreshDailyStreak{})
}

// RecordQuestionAnswer records one quiz answer
func (s *Store) RecordQuestionAnswer(ctx context.Context, id entities.CreatureID, questionIndex int, correct bool) (AnswerResult, error) {
	return dispatchAs[AnswerResult](ctx, s, RecordQuestionAnswer{
		CreatureID:    id,
		QuestionIndex: questionIndex,
		Correct:       correct,
	})
}

// UpdateQuizBestScore ratchets the best score and returns the stored best
func (s *Store) UpdateQuizBestScore(ctx context.Context, id entities.CreatureID, score int) (int, error) {
	return dispatchAs[int](ctx, s, UpdateQuizBestScore{CreatureID: id, Score: score})
}

// GrantPerfectScoreBadge grants the mastery badge for a perfect quiz
func (s *Store) GrantPerfectScoreBadge(ctx context.Context, id entities.CreatureID, name string, score, total int) (BadgeResult, error) {
	return dispatchAs[BadgeResult](ctx, s, GrantPerfectScoreBadge{
		CreatureID:   id,
		CreatureName: name,
		Score:        score,
		Total:        total,
	})
}

// SetSearchTerm stores the catalog search term
func (s *Store) SetSearchTerm(ctx context.Context, term string) error {
	_, err := s.Dispatch(ctx, SetSearchTerm{Term: term})
	return err
}

// SetTheme selects the color theme
func (s *Store) SetTheme(ctx context.Context, theme entities.Theme) error {
	_, err := s.Dispatch(ctx, SetTheme{Theme: theme})
	return err
}

// ToggleTheme switches theme and returns the new one
func (s *Store) ToggleTheme(ctx context.Context) (entities.Theme, error) {
	return dispatchAs[entities.Theme](ctx, s, ToggleTheme{})
}

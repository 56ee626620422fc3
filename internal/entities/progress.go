package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Theme is the UI color scheme preference
type Theme string

// Supported themes
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// QuestionID identifies one question of one creature's quiz
type QuestionID struct {
	CreatureID CreatureID
	Index      int
}

// String renders the ID as "<creature>:<index>"
func (q QuestionID) String() string {
	return fmt.Sprintf("%d:%d", q.CreatureID, q.Index)
}

// ParseQuestionID accepts "<creature>:<index>" as well as the older
// "<creature>-<index>" and "<creature>_<index>" spellings.
func ParseQuestionID(s string) (QuestionID, error) {
	sep := strings.IndexAny(s, ":-_")
	if sep <= 0 || sep == len(s)-1 {
		return QuestionID{}, fmt.Errorf("malformed question id %q", s)
	}

	id, err := strconv.Atoi(s[:sep])
	if err != nil || id <= 0 {
		return QuestionID{}, fmt.Errorf("malformed creature id in question id %q", s)
	}
	idx, err := strconv.Atoi(s[sep+1:])
	if err != nil || idx < 0 {
		return QuestionID{}, fmt.Errorf("malformed question index in question id %q", s)
	}

	return QuestionID{CreatureID: CreatureID(id), Index: idx}, nil
}

// ProgressState is the single persisted gamification and preference aggregate.
// Level is deliberately absent: it is always derived from Points.
type ProgressState struct {
	Points           int
	Discovered       map[CreatureID]struct{}
	Favorites        map[CreatureID]struct{}
	Badges           map[string]struct{}
	DailyStreak      int
	LastLoginDate    string
	CompletedQuizzes map[CreatureID]struct{}
	QuestionLedger   map[QuestionID]bool
	QuizBestScore    map[CreatureID]int
	SelectedTypes    map[string]struct{}
	SearchTerm       string
	Theme            Theme
}

// NewProgressState returns the all-zero default state
func NewProgressState() *ProgressState {
	s := &ProgressState{}
	s.Normalize()
	return s
}

// Normalize fills nil collections and clamps values a hand-edited or older blob may carry
func (s *ProgressState) Normalize() {
	if s.Discovered == nil {
		s.Discovered = make(map[CreatureID]struct{})
	}
	if s.Favorites == nil {
		s.Favorites = make(map[CreatureID]struct{})
	}
	if s.Badges == nil {
		s.Badges = make(map[string]struct{})
	}
	if s.CompletedQuizzes == nil {
		s.CompletedQuizzes = make(map[CreatureID]struct{})
	}
	if s.QuestionLedger == nil {
		s.QuestionLedger = make(map[QuestionID]bool)
	}
	if s.QuizBestScore == nil {
		s.QuizBestScore = make(map[CreatureID]int)
	}
	if s.SelectedTypes == nil {
		s.SelectedTypes = make(map[string]struct{})
	}
	if s.Points < 0 {
		s.Points = 0
	}
	if s.DailyStreak < 0 {
		s.DailyStreak = 0
	}
	if !s.Theme.Valid() {
		s.Theme = ThemeLight
	}
}

// Clone returns a deep copy
func (s *ProgressState) Clone() *ProgressState {
	out := &ProgressState{
		Points:           s.Points,
		Discovered:       cloneSet(s.Discovered),
		Favorites:        cloneSet(s.Favorites),
		Badges:           cloneSet(s.Badges),
		DailyStreak:      s.DailyStreak,
		LastLoginDate:    s.LastLoginDate,
		CompletedQuizzes: cloneSet(s.CompletedQuizzes),
		QuestionLedger:   make(map[QuestionID]bool, len(s.QuestionLedger)),
		QuizBestScore:    make(map[CreatureID]int, len(s.QuizBestScore)),
		SelectedTypes:    cloneSet(s.SelectedTypes),
		SearchTerm:       s.SearchTerm,
		Theme:            s.Theme,
	}
	for k, v := range s.QuestionLedger {
		out.QuestionLedger[k] = v
	}
	for k, v := range s.QuizBestScore {
		out.QuizBestScore[k] = v
	}
	return out
}

// IsDiscovered reports whether the creature has been opened before
func (s *ProgressState) IsDiscovered(id CreatureID) bool {
	_, ok := s.Discovered[id]
	return ok
}

// IsFavorite reports whether the creature is a favorite
func (s *ProgressState) IsFavorite(id CreatureID) bool {
	_, ok := s.Favorites[id]
	return ok
}

// HasBadge reports whether the badge was granted
func (s *ProgressState) HasBadge(name string) bool {
	_, ok := s.Badges[name]
	return ok
}

// IsCredited reports whether the question was ever answered correctly
func (s *ProgressState) IsCredited(q QuestionID) bool {
	return s.QuestionLedger[q]
}

// DiscoveredIDs returns discovered creatures in ascending order
func (s *ProgressState) DiscoveredIDs() []CreatureID {
	return sortedIDs(s.Discovered)
}

// FavoriteIDs returns favorites in ascending order
func (s *ProgressState) FavoriteIDs() []CreatureID {
	return sortedIDs(s.Favorites)
}

// CompletedQuizIDs returns creatures with a perfect quiz in ascending order
func (s *ProgressState) CompletedQuizIDs() []CreatureID {
	return sortedIDs(s.CompletedQuizzes)
}

// BadgeNames returns badges sorted by name
func (s *ProgressState) BadgeNames() []string {
	return sortedStrings(s.Badges)
}

// SelectedTypeNames returns the active type filter sorted by name
func (s *ProgressState) SelectedTypeNames() []string {
	return sortedStrings(s.SelectedTypes)
}

// CreditedQuestions returns every credited question ordered by creature then index
func (s *ProgressState) CreditedQuestions() []QuestionID {
	out := make([]QuestionID, 0, len(s.QuestionLedger))
	for q, ok := range s.QuestionLedger {
		if ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatureID != out[j].CreatureID {
			return out[i].CreatureID < out[j].CreatureID
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func cloneSet[K comparable](in map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func sortedIDs(in map[CreatureID]struct{}) []CreatureID {
	out := make([]CreatureID, 0, len(in))
	for id := range in {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedStrings(in map[string]struct{}) []string {
	out := make([]string, 0, len(in))
	for s := range in {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

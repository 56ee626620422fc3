package progress

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
)

// CurrentVersion is the blob version written by Encode
const CurrentVersion = 2

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// stateV0 is the layout written by the original browser app
type stateV0 struct {
	SearchTerm        string          `json:"searchTerm"`
	SelectedTypes     []string        `json:"selectedTypes"`
	Favorites         []int           `json:"favorites"`
	DiscoveredPokemon []int           `json:"discoveredPokemon"`
	UserPoints        int             `json:"userPoints"`
	Badges            []string        `json:"badges"`
	DailyStreak       int             `json:"dailyStreak"`
	LastLoginDate     string          `json:"lastLoginDate"`
	QuizAnswers       map[string]bool `json:"quizAnswers"`
	Theme             string          `json:"theme"`
}

type stateV1 struct {
	Points           int             `json:"points"`
	Discovered       []int           `json:"discovered"`
	Favorites        []int           `json:"favorites"`
	Badges           []string        `json:"badges"`
	DailyStreak      int             `json:"dailyStreak"`
	LastLoginDate    string          `json:"lastLoginDate"`
	CompletedQuizzes []int           `json:"completedQuizzes"`
	QuestionLedger   map[string]bool `json:"questionLedger"`
	SelectedTypes    []string        `json:"selectedTypes"`
	SearchTerm       string          `json:"searchTerm"`
	Theme            string          `json:"theme"`
}

type ledgerEntry struct {
	CreatureID    int `json:"creatureId"`
	QuestionIndex int `json:"questionIndex"`
}

type stateV2 struct {
	Points           int            `json:"points"`
	Discovered       []int          `json:"discovered"`
	Favorites        []int          `json:"favorites"`
	Badges           []string       `json:"badges"`
	DailyStreak      int            `json:"dailyStreak"`
	LastLoginDate    string         `json:"lastLoginDate"`
	CompletedQuizzes []int          `json:"completedQuizzes"`
	QuestionLedger   []ledgerEntry  `json:"questionLedger"`
	QuizBestScore    map[string]int `json:"quizBestScore"`
	SelectedTypes    []string       `json:"selectedTypes"`
	SearchTerm       string         `json:"searchTerm"`
	Theme            string         `json:"theme"`
}

// Decoded is the result of decoding a blob
type Decoded struct {
	State         *entities.ProgressState
	SourceVersion int
	// Migrated is true when the blob was not stored at CurrentVersion
	Migrated bool
	// Skipped lists state keys that failed to decode and were left at their default
	Skipped []string
}

// Encode serializes state at CurrentVersion
func Encode(state *entities.ProgressState) ([]byte, error) {
	if state == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}

	raw, err := json.Marshal(fromEntity(state))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal progress state")
	}

	data, err := json.Marshal(envelope{Version: CurrentVersion, State: raw})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal progress envelope")
	}
	return data, nil
}

// Decode parses a blob of any known version and migrates it forward.
// Returns errors.DataLoss for unparseable or unknown-version blobs. A field
// with the wrong type falls back to its default without failing the blob.
func Decode(data []byte) (*Decoded, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "progress blob is not valid JSON")
	}
	if len(env.State) == 0 || string(env.State) == "null" {
		return nil, errors.DataLoss("progress blob has no state")
	}

	v2, skipped, err := migrate(env.Version, env.State)
	if err != nil {
		return nil, err
	}

	return &Decoded{
		State:         v2.toEntity(),
		SourceVersion: env.Version,
		Migrated:      env.Version != CurrentVersion,
		Skipped:       skipped,
	}, nil
}

func migrate(version int, raw json.RawMessage) (*stateV2, []string, error) {
	switch version {
	case 0:
		var v0 stateV0
		skipped, err := decodeFields(raw, v0.fields())
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to parse v0 state")
		}
		return migrateV1(migrateV0(&v0)), skipped, nil
	case 1:
		var v1 stateV1
		skipped, err := decodeFields(raw, v1.fields())
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to parse v1 state")
		}
		return migrateV1(&v1), skipped, nil
	case CurrentVersion:
		var v2 stateV2
		skipped, err := decodeFields(raw, v2.fields())
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to parse v2 state")
		}
		return &v2, skipped, nil
	default:
		return nil, nil, errors.DataLossf("unsupported progress version %d", version)
	}
}

type fieldDecoder func(json.RawMessage) error

// field decodes into a scratch value so a failed key leaves dst at its zero value
func field[T any](dst *T) fieldDecoder {
	return func(raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// decodeFields decodes each known key of a state object on its own. Keys that
// fail to decode keep their default and are returned sorted. Only a state that
// is not an object at all is an error.
func decodeFields(raw json.RawMessage, fields map[string]fieldDecoder) ([]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	var skipped []string
	for key, value := range obj {
		decode, ok := fields[key]
		if !ok {
			continue
		}
		if err := decode(value); err != nil {
			skipped = append(skipped, key)
		}
	}
	sort.Strings(skipped)
	return skipped, nil
}

func (s *stateV0) fields() map[string]fieldDecoder {
	return map[string]fieldDecoder{
		"searchTerm":        field(&s.SearchTerm),
		"selectedTypes":     field(&s.SelectedTypes),
		"favorites":         field(&s.Favorites),
		"discoveredPokemon": field(&s.DiscoveredPokemon),
		"userPoints":        field(&s.UserPoints),
		"badges":            field(&s.Badges),
		"dailyStreak":       field(&s.DailyStreak),
		"lastLoginDate":     field(&s.LastLoginDate),
		"quizAnswers":       field(&s.QuizAnswers),
		"theme":             field(&s.Theme),
	}
}

func (s *stateV1) fields() map[string]fieldDecoder {
	return map[string]fieldDecoder{
		"points":           field(&s.Points),
		"discovered":       field(&s.Discovered),
		"favorites":        field(&s.Favorites),
		"badges":           field(&s.Badges),
		"dailyStreak":      field(&s.DailyStreak),
		"lastLoginDate":    field(&s.LastLoginDate),
		"completedQuizzes": field(&s.CompletedQuizzes),
		"questionLedger":   field(&s.QuestionLedger),
		"selectedTypes":    field(&s.SelectedTypes),
		"searchTerm":       field(&s.SearchTerm),
		"theme":            field(&s.Theme),
	}
}

func (s *stateV2) fields() map[string]fieldDecoder {
	return map[string]fieldDecoder{
		"points":           field(&s.Points),
		"discovered":       field(&s.Discovered),
		"favorites":        field(&s.Favorites),
		"badges":           field(&s.Badges),
		"dailyStreak":      field(&s.DailyStreak),
		"lastLoginDate":    field(&s.LastLoginDate),
		"completedQuizzes": field(&s.CompletedQuizzes),
		"questionLedger":   field(&s.QuestionLedger),
		"quizBestScore":    field(&s.QuizBestScore),
		"selectedTypes":    field(&s.SelectedTypes),
		"searchTerm":       field(&s.SearchTerm),
		"theme":            field(&s.Theme),
	}
}

// migrateV0 renames the browser fields. The original never recorded completed
// quizzes, so badges are all that survives of them.
func migrateV0(in *stateV0) *stateV1 {
	return &stateV1{
		Points:         in.UserPoints,
		Discovered:     in.DiscoveredPokemon,
		Favorites:      in.Favorites,
		Badges:         in.Badges,
		DailyStreak:    in.DailyStreak,
		LastLoginDate:  in.LastLoginDate,
		QuestionLedger: in.QuizAnswers,
		SelectedTypes:  in.SelectedTypes,
		SearchTerm:     in.SearchTerm,
		Theme:          in.Theme,
	}
}

// migrateV1 turns the string-keyed ledger into credited entries. Keys that do
// not parse and entries recorded as false carry no credit and are dropped.
func migrateV1(in *stateV1) *stateV2 {
	out := &stateV2{
		Points:           in.Points,
		Discovered:       in.Discovered,
		Favorites:        in.Favorites,
		Badges:           in.Badges,
		DailyStreak:      in.DailyStreak,
		LastLoginDate:    in.LastLoginDate,
		CompletedQuizzes: in.CompletedQuizzes,
		SelectedTypes:    in.SelectedTypes,
		SearchTerm:       in.SearchTerm,
		Theme:            in.Theme,
	}
	for key, credited := range in.QuestionLedger {
		if !credited {
			continue
		}
		q, err := entities.ParseQuestionID(key)
		if err != nil {
			continue
		}
		out.QuestionLedger = append(out.QuestionLedger, ledgerEntry{
			CreatureID:    int(q.CreatureID),
			QuestionIndex: q.Index,
		})
	}
	return out
}

func (s *stateV2) toEntity() *entities.ProgressState {
	out := &entities.ProgressState{
		Points:           s.Points,
		Discovered:       idSet(s.Discovered),
		Favorites:        idSet(s.Favorites),
		Badges:           stringSet(s.Badges),
		DailyStreak:      s.DailyStreak,
		LastLoginDate:    s.LastLoginDate,
		CompletedQuizzes: idSet(s.CompletedQuizzes),
		QuestionLedger:   make(map[entities.QuestionID]bool, len(s.QuestionLedger)),
		QuizBestScore:    make(map[entities.CreatureID]int, len(s.QuizBestScore)),
		SelectedTypes:    stringSet(s.SelectedTypes),
		SearchTerm:       s.SearchTerm,
		Theme:            entities.Theme(s.Theme),
	}
	for _, e := range s.QuestionLedger {
		if e.CreatureID <= 0 || e.QuestionIndex < 0 {
			continue
		}
		out.QuestionLedger[entities.QuestionID{
			CreatureID: entities.CreatureID(e.CreatureID),
			Index:      e.QuestionIndex,
		}] = true
	}
	for key, score := range s.QuizBestScore {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 || score < 0 {
			continue
		}
		out.QuizBestScore[entities.CreatureID(id)] = score
	}
	out.Normalize()
	return out
}

func fromEntity(s *entities.ProgressState) *stateV2 {
	out := &stateV2{
		Points:           s.Points,
		Discovered:       idList(s.DiscoveredIDs()),
		Favorites:        idList(s.FavoriteIDs()),
		Badges:           s.BadgeNames(),
		DailyStreak:      s.DailyStreak,
		LastLoginDate:    s.LastLoginDate,
		CompletedQuizzes: idList(s.CompletedQuizIDs()),
		QuestionLedger:   []ledgerEntry{},
		QuizBestScore:    make(map[string]int, len(s.QuizBestScore)),
		SelectedTypes:    s.SelectedTypeNames(),
		SearchTerm:       s.SearchTerm,
		Theme:            string(s.Theme),
	}
	for _, q := range s.CreditedQuestions() {
		out.QuestionLedger = append(out.QuestionLedger, ledgerEntry{
			CreatureID:    int(q.CreatureID),
			QuestionIndex: q.Index,
		})
	}
	for id, score := range s.QuizBestScore {
		out.QuizBestScore[fmt.Sprint(int(id))] = score
	}
	return out
}

func idSet(ids []int) map[entities.CreatureID]struct{} {
	out := make(map[entities.CreatureID]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			out[entities.CreatureID(id)] = struct{}{}
		}
	}
	return out
}

func stringSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func idList(ids []entities.CreatureID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	sort.Ints(out)
	return out
}

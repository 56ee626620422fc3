package quiz

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
)

// QuestionKind identifies what a question asks about
type QuestionKind string

// Question kinds in the order they are asked
const (
	KindTypes     QuestionKind = "types"
	KindWeakness  QuestionKind = "weakness"
	KindMove      QuestionKind = "move"
	KindAbility   QuestionKind = "ability"
	KindEvolution QuestionKind = "evolution"
)

// NoneOfThese is offered when a creature has nothing to ask about
const NoneOfThese = "None of these"

const optionsPerQuestion = 4

// Question is one multiple choice question. Exactly one option is correct.
type Question struct {
	Index   int
	Kind    QuestionKind
	Prompt  string
	Options []string
	correct int
}

// CorrectOption returns the text of the correct option
func (q *Question) CorrectOption() string {
	return q.Options[q.correct]
}

// IsCorrect reports whether the zero-based choice is the correct option
func (q *Question) IsCorrect(choice int) bool {
	return choice == q.correct
}

// typeWeaknesses lists the attacking types each defending type is weak to
var typeWeaknesses = map[string][]string{
	"normal":   {"fighting"},
	"fire":     {"water", "ground", "rock"},
	"water":    {"electric", "grass"},
	"electric": {"ground"},
	"grass":    {"fire", "ice", "poison", "flying", "bug"},
	"ice":      {"fire", "fighting", "rock", "steel"},
	"fighting": {"flying", "psychic", "fairy"},
	"poison":   {"ground", "psychic"},
	"ground":   {"water", "grass", "ice"},
	"flying":   {"electric", "ice", "rock"},
	"psychic":  {"bug", "ghost", "dark"},
	"bug":      {"fire", "flying", "rock"},
	"rock":     {"water", "grass", "fighting", "ground", "steel"},
	"ghost":    {"ghost", "dark"},
	"dragon":   {"ice", "dragon", "fairy"},
	"dark":     {"fighting", "bug", "fairy"},
	"steel":    {"fire", "fighting", "ground"},
	"fairy":    {"poison", "steel"},
}

var allTypes = []string{
	"normal", "fire", "water", "electric", "grass", "ice", "fighting", "poison", "ground",
	"flying", "psychic", "bug", "rock", "ghost", "dragon", "dark", "steel", "fairy",
}

var typeComboDistractors = []string{
	"fire/flying", "water/psychic", "ground/rock", "grass/poison", "bug/steel",
	"dragon/ice", "ghost/dark", "normal/fairy",
}

var moveDistractors = []string{
	"hydro-pump", "solar-beam", "earthquake", "hyper-beam", "shadow-ball", "ice-beam",
	"thunderbolt", "flamethrower", "psychic", "dragon-claw", "sludge-bomb", "aerial-ace",
	"close-combat", "moonblast", "rock-slide", "iron-tail",
}

var abilityDistractors = []string{
	"levitate", "intimidate", "swift-swim", "chlorophyll", "pressure", "sturdy",
	"blaze", "torrent", "overgrow", "static", "synchronize", "keen-eye",
	"inner-focus", "thick-fat",
}

// Weaknesses returns the attacking types the creature is weak to, in type order
func Weaknesses(types []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range types {
		for _, w := range typeWeaknesses[strings.ToLower(t)] {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	return out
}

// EvolutionAnswer renders the primary evolution path the quiz expects
func EvolutionAnswer(creatureName string, chain *entities.EvolutionChain) string {
	path := chain.PrimaryPath()
	switch len(path) {
	case 0:
		return fmt.Sprintf("%s (No evolution data)", entities.DisplayName(creatureName))
	case 1:
		return fmt.Sprintf("%s (No evolution)", entities.DisplayName(path[0].Name))
	default:
		return entities.FormatPath(path[:min(len(path), 3)])
	}
}

// builder assembles questions, shuffling options with a roller
type builder struct {
	roller dice.Roller
}

// BuildQuestions generates the five questions for a creature
func BuildQuestions(creature *entities.Creature, chain *entities.EvolutionChain, roller dice.Roller) ([]Question, error) {
	if creature == nil {
		return nil, errors.InvalidArgument("creature cannot be nil")
	}
	if roller == nil {
		return nil, errors.InvalidArgument("roller cannot be nil")
	}

	b := &builder{roller: roller}
	name := entities.DisplayName(creature.Name)

	steps := []func() (Question, error){
		func() (Question, error) { return b.typesQuestion(name, creature) },
		func() (Question, error) { return b.weaknessQuestion(name, creature) },
		func() (Question, error) { return b.moveQuestion(name, creature) },
		func() (Question, error) { return b.abilityQuestion(name, creature) },
		func() (Question, error) { return b.evolutionQuestion(creature, chain) },
	}

	questions := make([]Question, 0, len(steps))
	for i, step := range steps {
		q, err := step()
		if err != nil {
			return nil, err
		}
		q.Index = i
		questions = append(questions, q)
	}
	return questions, nil
}

func (b *builder) typesQuestion(name string, c *entities.Creature) (Question, error) {
	correct := strings.ToLower(strings.Join(c.Types, "/"))
	if correct == "" {
		correct = NoneOfThese
	}
	return b.assemble(KindTypes, fmt.Sprintf("What type(s) is %s?", name), correct, typeComboDistractors)
}

func (b *builder) weaknessQuestion(name string, c *entities.Creature) (Question, error) {
	weaknesses := Weaknesses(c.Types)
	correct := NoneOfThese
	if len(weaknesses) > 0 {
		correct = weaknesses[0]
	}

	// every weakness is a right answer, so none may appear as a distractor
	exclude := map[string]bool{}
	for _, w := range weaknesses {
		exclude[w] = true
	}
	var pool []string
	for _, t := range allTypes {
		if !exclude[t] {
			pool = append(pool, t)
		}
	}
	return b.assemble(KindWeakness, fmt.Sprintf("What is %s's main weakness?", name), correct, pool)
}

func (b *builder) moveQuestion(name string, c *entities.Creature) (Question, error) {
	correct := NoneOfThese
	if len(c.Moves) > 0 {
		correct = c.Moves[0]
	}
	pool := without(moveDistractors, c.Moves)
	return b.assemble(KindMove, fmt.Sprintf("Which of these moves can %s learn?", name), correct, pool)
}

func (b *builder) abilityQuestion(name string, c *entities.Creature) (Question, error) {
	correct := NoneOfThese
	names := make([]string, 0, len(c.Abilities))
	for _, a := range c.Abilities {
		names = append(names, a.Name)
	}
	for _, a := range c.Abilities {
		if !a.IsHidden {
			correct = a.Name
			break
		}
	}
	if correct == NoneOfThese && len(names) > 0 {
		correct = names[0]
	}
	pool := without(abilityDistractors, names)
	return b.assemble(KindAbility, fmt.Sprintf("Which ability can %s have?", name), correct, pool)
}

func (b *builder) evolutionQuestion(c *entities.Creature, chain *entities.EvolutionChain) (Question, error) {
	correct := EvolutionAnswer(c.Name, chain)

	path := chain.PrimaryPath()
	first := entities.DisplayName(c.Name)
	var second, third string
	if len(path) > 0 {
		first = entities.DisplayName(path[0].Name)
	}
	if len(path) > 1 {
		second = entities.DisplayName(path[1].Name)
	}
	if len(path) > 2 {
		third = entities.DisplayName(path[2].Name)
	}

	var distractors []string
	if second != "" {
		distractors = append(distractors, fmt.Sprintf("%s → %s", second, first))
	}
	if third != "" {
		distractors = append(distractors,
			fmt.Sprintf("%s → %s", first, third),
			fmt.Sprintf("%s → %s", second, third))
	}
	distractors = append(distractors,
		fmt.Sprintf("%s (Solo)", first),
		fmt.Sprintf("%s → Unknown", first),
		fmt.Sprintf("%s → Mystery", first))

	prompt := fmt.Sprintf("What is the correct evolution chain for %s?", entities.DisplayName(c.Name))
	return b.assembleOrdered(KindEvolution, prompt, correct, distractors)
}

// assemble picks distractors at random from the pool
func (b *builder) assemble(kind QuestionKind, prompt, correct string, pool []string) (Question, error) {
	candidates := dedupe(correct, pool)
	if err := b.shuffle(candidates); err != nil {
		return Question{}, err
	}
	return b.finish(kind, prompt, correct, candidates)
}

// assembleOrdered takes distractors in the given preference order
func (b *builder) assembleOrdered(kind QuestionKind, prompt, correct string, distractors []string) (Question, error) {
	return b.finish(kind, prompt, correct, dedupe(correct, distractors))
}

func (b *builder) finish(kind QuestionKind, prompt, correct string, candidates []string) (Question, error) {
	options := []string{correct}
	for _, c := range candidates {
		if len(options) == optionsPerQuestion {
			break
		}
		options = append(options, c)
	}
	if correct != NoneOfThese && len(options) < optionsPerQuestion {
		options = append(options, NoneOfThese)
	}
	if err := b.shuffle(options); err != nil {
		return Question{}, err
	}

	q := Question{Kind: kind, Prompt: prompt, Options: options}
	for i, o := range options {
		if o == correct {
			q.correct = i
		}
	}
	return q, nil
}

// shuffle is a Fisher-Yates shuffle driven by the roller
func (b *builder) shuffle(items []string) error {
	for i := len(items) - 1; i > 0; i-- {
		roll, err := b.roller.Roll(i + 1)
		if err != nil {
			return errors.Wrap(err, "failed to shuffle options")
		}
		j := roll - 1
		if j < 0 || j > i {
			j = i
		}
		items[i], items[j] = items[j], items[i]
	}
	return nil
}

// dedupe drops empty entries, case-insensitive repeats and anything matching correct
func dedupe(correct string, values []string) []string {
	seen := map[string]bool{strings.ToLower(correct): true}
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func without(pool, exclude []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[strings.ToLower(e)] = true
	}
	out := make([]string, 0, len(pool))
	for _, p := range pool {
		if !skip[p] {
			out = append(out, p)
		}
	}
	return out
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/quiz"
)

func newQuizCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz [number|name]",
		Short: "Take a five question quiz about a Pokémon",
		Long: `Answer five multiple choice questions about a Pokémon. Each question
earns points the first time you answer it correctly, and a perfect score
earns the Pokémon's Master badge.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())

			creature, err := c.app.fetcher.GetCreature(ctx, args[0])
			if err != nil {
				return err
			}

			started, err := c.app.quiz.StartQuiz(ctx, &quiz.StartQuizInput{Creature: creature})
			if err != nil {
				return err
			}
			session := started.Session
			fmt.Fprintf(out, "Quiz: %s\n", entities.DisplayName(creature.Name))

			for {
				q := session.CurrentQuestion()
				if q == nil {
					return nil
				}

				fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", session.Current+1, session.Total(), q.Prompt)
				for i, option := range q.Options {
					fmt.Fprintf(out, "  %d) %s\n", i+1, option)
				}

				choice, err := readChoice(in, out, len(q.Options))
				if err != nil {
					return err
				}

				res, err := c.app.quiz.Answer(ctx, &quiz.AnswerInput{SessionID: session.ID, Choice: choice})
				if err := warnFlush(ctx, err); err != nil {
					return err
				}
				session = res.Session

				switch {
				case res.Correct && res.PointsAwarded > 0:
					fmt.Fprintf(out, "✓ Correct! +%d points\n", res.PointsAwarded)
				case res.Correct:
					fmt.Fprintln(out, "✓ Correct!")
				default:
					fmt.Fprintf(out, "✗ The answer was %s\n", res.CorrectOption)
				}

				if res.Completed {
					fmt.Fprintf(out, "\nScore: %d/%d (best %d)\n", session.Score, session.Total(), res.BestScore)
				}
			}
		},
	}
}

// readChoice prompts until a number in [1, n] is entered and returns it zero-based
func readChoice(in *bufio.Scanner, out io.Writer, n int) (int, error) {
	for {
		fmt.Fprintf(out, "Your answer (1-%d): ", n)
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return 0, errors.Wrap(err, "failed to read answer")
			}
			return 0, errors.Canceled("quiz abandoned")
		}

		choice, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && choice >= 1 && choice <= n {
			return choice - 1, nil
		}
		fmt.Fprintf(out, "Please enter a number from 1 to %d.\n", n)
	}
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/screens"
)

// NewQuizCommand runs the practice-test flow end to end: pick an upcoming
// test, provide notes, answer the generated questions, get scored.
func NewQuizCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate and take a practice test for an upcoming exam",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			gen := screens.NewTestGenerator(a.client)
			if err := gen.LoadTests(cmd.Context()); err != nil {
				return err
			}
			if len(gen.Tests) == 0 {
				fmt.Println("No upcoming tests found in your calendar.")
				return nil
			}

			fmt.Println("Select an upcoming test to prepare:")
			for i, test := range gen.Tests {
				fmt.Printf("  %d. %s (%s)\n", i+1, test.Description, test.Date)
			}
			idx, err := promptIndex("Test number: ", len(gen.Tests))
			if err != nil {
				return err
			}
			if err := gen.SelectTest(idx); err != nil {
				return err
			}

			gen.Context, err = promptLine("Paste notes or topics to cover: ")
			if err != nil {
				return err
			}

			imagePaths, _ := cmd.Flags().GetStringArray("image")
			for _, path := range imagePaths {
				img, err := screens.EncodeImageFile(path)
				if err != nil {
					return err
				}
				if err := gen.AddImage(img); err != nil {
					return err
				}
			}
			if n, _ := cmd.Flags().GetInt("questions"); n > 0 {
				gen.NumQuestions = n
			}

			fmt.Println("Generating your practice test...")
			if err := gen.Generate(cmd.Context()); err != nil {
				return err
			}

			for i, q := range gen.Quiz {
				fmt.Printf("\n%d. %s\n", i+1, q.Question)
				for j, opt := range q.Options {
					fmt.Printf("   %c) %s\n", 'a'+j, opt)
				}
				choice, err := promptOption(len(q.Options))
				if err != nil {
					return err
				}
				if err := gen.Answer(i, q.Options[choice]); err != nil {
					return err
				}
			}

			score, err := gen.CalculateScore(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("\nResult: %d / %d\n", score, len(gen.Quiz))
			if score == len(gen.Quiz) {
				fmt.Println("Perfect! You are ready!")
			} else {
				fmt.Println("Review the questions you missed:")
				for i, q := range gen.Quiz {
					if gen.Answers[i] != q.Correct {
						fmt.Printf("  %d. correct answer: %s\n", i+1, q.Correct)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("questions", screens.DefaultQuestionCount, "number of questions to generate")
	cmd.Flags().StringArray("image", nil, "photo of study notes to attach (max 2, repeatable)")
	return cmd
}

func promptIndex(label string, max int) (int, error) {
	for {
		answer, err := promptLine(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= max {
			return n - 1, nil
		}
		fmt.Printf("Enter a number between 1 and %d.\n", max)
	}
}

func promptOption(count int) (int, error) {
	for {
		answer, err := promptLine("Your answer: ")
		if err != nil {
			return 0, err
		}
		if len(answer) == 1 {
			idx := int(answer[0] - 'a')
			if idx >= 0 && idx < count {
				return idx, nil
			}
		}
		fmt.Printf("Enter a letter between a and %c.\n", 'a'+count-1)
	}
}

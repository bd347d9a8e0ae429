package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/models"
	"github.com/studenthelper/studenthelper/internal/screens"
)

// NewAnalyzeCommand groups the exam and schoolwork analyzer screens.
func NewAnalyzeCommand() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "AI analysis of exams and schoolwork",
	}
	analyzeCmd.AddCommand(newAnalyzeExamCommand(), newAnalyzeSchoolworkCommand(), newAnalyzeShowCommand())
	return analyzeCmd
}

func newAnalyzeExamCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exam <image>",
		Short: "Scan a graded exam photo for mistakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			img, err := screens.EncodeImageFile(args[0])
			if err != nil {
				return err
			}

			scanner := screens.NewExamScanner(a.client)
			scanner.SetImage(img)

			fmt.Println("Analyzing...")
			if err := scanner.Analyze(cmd.Context()); err != nil {
				return err
			}

			fmt.Println("\nAI Feedback")
			fmt.Println(scanner.Feedback)
			return nil
		},
	}
}

func newAnalyzeSchoolworkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schoolwork",
		Short: "Submit structured schoolwork for AI feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			analyzer := screens.NewAnalyzer(a.client)
			analyzer.Form.Type = models.SchoolworkType(mustString(cmd, "type"))
			analyzer.Form.Subject = mustString(cmd, "subject")
			analyzer.Form.Grade = mustString(cmd, "grade")
			analyzer.Form.Mistakes = mustString(cmd, "mistakes")
			analyzer.Form.Notes = mustString(cmd, "notes")
			analyzer.Form.Topic = mustString(cmd, "topic")

			imagePaths, _ := cmd.Flags().GetStringArray("image")
			for _, path := range imagePaths {
				img, err := screens.EncodeImageFile(path)
				if err != nil {
					return err
				}
				analyzer.AddImage(img)
			}

			fmt.Println("Analyzing...")
			if err := analyzer.Submit(cmd.Context()); err != nil {
				return err
			}

			fmt.Println("\n" + analyzer.Title())
			fmt.Println(analyzer.Result.Content)
			if analyzer.Result.ID != "" {
				fmt.Printf("\nSaved as analysis %s\n", analyzer.Result.ID)
			}
			return nil
		},
	}

	cmd.Flags().String("type", string(models.SchoolworkPastExam), "past_exam, project or homework")
	cmd.Flags().String("subject", "", "subject (required)")
	cmd.Flags().String("grade", "", "grade received")
	cmd.Flags().String("mistakes", "", "mistakes you noticed")
	cmd.Flags().String("notes", "", "additional notes")
	cmd.Flags().String("topic", "", "specific topic")
	cmd.Flags().StringArray("image", nil, "image file to attach (repeatable)")
	return cmd
}

func newAnalyzeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a previously saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			analyzer := screens.NewAnalyzer(a.client)
			if err := analyzer.LoadSaved(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Println(analyzer.Title())
			fmt.Println(analyzer.Result.Content)
			return nil
		},
	}
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

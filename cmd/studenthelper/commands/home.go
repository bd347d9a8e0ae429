package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/screens"
)

const agendaLength = 3

// NewHomeCommand shows the dashboard: next deadline, agenda, performance.
func NewHomeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show upcoming deadlines and recent quiz performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			home := screens.NewHome(a.client)
			if err := home.Refresh(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("Welcome back! You have %d upcoming tasks.\n\n", len(home.Upcoming))

			if next := home.NextDeadline(); next != nil {
				fmt.Println("NEXT DEADLINE")
				if next.DaysLeft == 0 {
					fmt.Printf("  TODAY - %s (%s)\n", next.Description, next.Date)
				} else {
					fmt.Printf("  %d days - %s (%s)\n", next.DaysLeft, next.Description, next.Date)
				}
			} else {
				fmt.Println("All caught up!")
			}

			if agenda := home.Agenda(agendaLength); len(agenda) > 0 {
				fmt.Println("\nAgenda")
				for _, item := range agenda {
					fmt.Printf("  %2dd  %-10s %s (%s)\n", item.DaysLeft, item.Type, item.Description, item.Date)
				}
			}

			if home.Scores != nil {
				fmt.Println("\nPerformance")
				fmt.Printf("  Tests completed: %d\n", home.Scores.TotalTests)
				fmt.Printf("  Avg. accuracy:   %.1f%%\n", home.Scores.AvgPercentage)
			}
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/models"
	"github.com/studenthelper/studenthelper/internal/screens"
)

// NewCalendarCommand groups the calendar screen's flows.
func NewCalendarCommand() *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Track homework, tests and projects",
	}
	calendarCmd.AddCommand(
		newCalendarListCommand(),
		newCalendarAddCommand(),
		newCalendarDeleteCommand(),
		newCalendarScanCommand(),
	)
	return calendarCmd
}

func newCalendarListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events grouped by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			cal := screens.NewCalendar(a.client)
			if err := cal.Refresh(cmd.Context()); err != nil {
				return err
			}
			if len(cal.Events) == 0 {
				fmt.Println("No events yet.")
				return nil
			}

			marked := screens.MarkedDates(cal.Events, "")

			dates := make([]string, 0, len(cal.Events))
			for date := range cal.Events {
				dates = append(dates, date)
			}
			sort.Strings(dates)

			for _, date := range dates {
				fmt.Printf("%s [%s]\n", date, marked[date].Color)
				for _, ev := range cal.Events[date] {
					fmt.Printf("  %-10s %s\n", ev.Type, ev.Description)
				}
			}
			return nil
		},
	}
}

func newCalendarAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <date> <description>",
		Short: "Add an event (date as YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			typ, _ := cmd.Flags().GetString("type")

			cal := screens.NewCalendar(a.client)
			if err := cal.AddEvent(cmd.Context(), args[0], models.EventType(typ), args[1], time.Now()); err != nil {
				return err
			}
			fmt.Printf("Added %q on %s.\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().String("type", string(models.EventHomework), "homework, test or project")
	return cmd
}

func newCalendarDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <date> <description>",
		Short: "Delete the event matching date and description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			cal := screens.NewCalendar(a.client)
			err = cal.DeleteEvent(cmd.Context(), args[0], args[1], func(description string) bool {
				return confirmPrompt(fmt.Sprintf("Delete %q on %s?", description, args[0]))
			})
			if err == screens.ErrDeleteNotConfirmed {
				fmt.Println("Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println("Event deleted.")
			return nil
		},
	}
}

func newCalendarScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Extract events from a photo of a schedule",
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

			cal := screens.NewCalendar(a.client)
			added, err := cal.ScanSchedule(cmd.Context(), img)
			if err != nil {
				return err
			}
			fmt.Printf("Added %d events from your schedule.\n", added)
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/screens"
)

// NewProfileCommand groups the account screen's flows.
func NewProfileCommand() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Account details and password change",
	}
	profileCmd.AddCommand(newProfileShowCommand(), newChangePasswordCommand())
	return profileCmd
}

func newProfileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			profile := screens.NewProfile(a.client)
			if err := profile.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Email:", profile.Email)

			if claims, err := a.session.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
				fmt.Println("Session expires:", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newChangePasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			newPassword, err := promptLine("New password: ")
			if err != nil {
				return err
			}
			confirm, err := promptLine("Confirm password: ")
			if err != nil {
				return err
			}

			profile := screens.NewProfile(a.client)
			if err := profile.ChangePassword(cmd.Context(), newPassword, confirm); err != nil {
				return err
			}
			fmt.Println("Password updated.")
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand signs in and persists the session token.
func NewLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			email, password, err := credentialsFromFlags(cmd)
			if err != nil {
				return err
			}

			if err := a.session.SignIn(cmd.Context(), a.client, email, password); err != nil {
				return err
			}
			fmt.Println("Logged in!")
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

// NewRegisterCommand creates a new account.
func NewRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			email, password, err := credentialsFromFlags(cmd)
			if err != nil {
				return err
			}

			if err := a.session.Register(cmd.Context(), a.client, email, password); err != nil {
				return err
			}
			fmt.Println("Account created! You can now log in.")
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

// NewLogoutCommand clears the stored session token.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.session.SignOut(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func credentialsFromFlags(cmd *cobra.Command) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	var err error
	if email == "" {
		if email, err = promptLine("Email: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = promptLine("Password: "); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkozel/shopfloor/internal/auth"
	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
	"github.com/dkozel/shopfloor/internal/shared"
)

// UsersCmd builds the "users" command tree: list, create, reset-password.
// All subcommands open the data file directly.
func UsersCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts in the data file (server must be stopped)",
	}
	cmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "data/shopfloor.json", "path to the JSON data file")

	cmd.AddCommand(usersListCmd(&dataFile))
	cmd.AddCommand(usersCreateCmd(&dataFile))
	cmd.AddCommand(usersResetPasswordCmd(&dataFile))

	return cmd
}

func usersListCmd(dataFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := docstore.Open(cmd.Context(), *dataFile)
			if err != nil {
				return err
			}

			users, err := store.FindAll(cmd.Context(), docstore.CollectionUsers, nil)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-36s  %-20s  %-28s  %-10s  %s\n", "ID", "NAME", "EMAIL", "ROLE", "STATUS")
			for _, u := range users {
				fmt.Fprintf(w, "%-36s  %-20s  %-28s  %-10s  %s\n",
					u.ID(), u.String("name"), u.String("email"), u.String("role"), u.String("status"))
			}
			return nil
		},
	}
}

func usersCreateCmd(dataFile *string) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account (prompts for the password)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" {
				return errors.New("--name and --email are required")
			}
			if role == "" {
				role = common.RoleEmployee
			}

			store, err := docstore.Open(cmd.Context(), *dataFile)
			if err != nil {
				return err
			}

			if _, err := store.FindByField(cmd.Context(), docstore.CollectionUsers, "email", email); err == nil {
				return fmt.Errorf("email %s is already in use", email)
			} else if !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			pw, err := getPassword("Password: ", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer shared.WipeByteArray(pw)

			confirm, err := getPassword("Confirm password: ", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer shared.WipeByteArray(confirm)

			if string(pw) != string(confirm) {
				return errors.New("passwords do not match")
			}

			hash, err := auth.HashPassword(string(pw), 0)
			if err != nil {
				return err
			}

			user, err := store.Create(cmd.Context(), docstore.CollectionUsers, docstore.Record{
				"name":     name,
				"email":    email,
				"password": hash,
				"role":     role,
				"status":   "active",
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.ID(), email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&role, "role", "", "role (default Employee)")

	return cmd
}

func usersResetPasswordCmd(dataFile *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account (prompts for it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}

			store, err := docstore.Open(cmd.Context(), *dataFile)
			if err != nil {
				return err
			}

			user, err := store.FindByField(cmd.Context(), docstore.CollectionUsers, "email", email)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("no account with email %s", email)
				}
				return err
			}

			pw, err := getPassword("New password: ", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer shared.WipeByteArray(pw)

			hash, err := auth.HashPassword(string(pw), 0)
			if err != nil {
				return err
			}

			_, err = store.Update(cmd.Context(), docstore.CollectionUsers, user.ID(), docstore.Record{
				"password":            hash,
				"resetPasswordToken":  "",
				"resetPasswordExpire": "",
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")

	return cmd
}

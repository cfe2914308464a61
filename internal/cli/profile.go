package cli

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "profile",
		Short:             "Show or edit your profile",
		PersistentPreRunE: rt.openWithSession,
	}
	cmd.AddCommand(newProfileShowCmd(rt), newProfileUpdateCmd(rt), newProfilePasswordCmd(rt))
	return cmd
}

func newProfileShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile with bookmark counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := rt.app.API.Users().Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			return printUser(cmd.OutOrStdout(), u, time.Now())
		},
	}
}

func newProfileUpdateCmd(rt *runtime) *cobra.Command {
	var fullName, avatarURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your display name or avatar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.ProfileUpdate
			if cmd.Flags().Changed("full-name") {
				in.FullName = &fullName
			}
			if cmd.Flags().Changed("avatar-url") {
				in.AvatarURL = &avatarURL
			}
			if in.FullName == nil && in.AvatarURL == nil {
				return &domain.ValidationError{Message: "nothing to update, pass --full-name or --avatar-url"}
			}

			u, err := rt.app.API.Users().UpdateProfile(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			if err := rt.app.Session.UpdateUser(cmd.Context(), *u); err != nil {
				rt.app.Logger().Warn("failed to store updated profile in session", logger.Error(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated, hello %s\n", u.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "avatar image URL")
	return cmd
}

func newProfilePasswordCmd(rt *runtime) *cobra.Command {
	var current, next, confirm string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Long:  "Change your password. Missing values are prompted on stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			fields := []struct {
				value *string
				label string
			}{
				{&current, "Current password: "},
				{&next, "New password: "},
				{&confirm, "Confirm new password: "},
			}
			for _, f := range fields {
				if *f.value != "" {
					continue
				}
				v, err := prompt(in, cmd.ErrOrStderr(), f.label)
				if err != nil {
					return err
				}
				*f.value = v
			}
			if err := domain.ValidatePasswordChange(next, confirm); err != nil {
				return err
			}

			err := rt.app.API.Users().ChangePassword(cmd.Context(), domain.PasswordChange{
				CurrentPassword: current,
				NewPassword:     next,
			})
			if err != nil {
				return fmt.Errorf("change password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "current password (prompted if omitted)")
	cmd.Flags().StringVar(&next, "new", "", "new password (prompted if omitted)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password again (prompted if omitted)")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service/rbac"
	"github.com/jwalitptl/client-connect/pkg/security"
)

func newSeedRolesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-roles",
		Short: "Recreate the manager role and its permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			role, err := rbac.NewService(st.RBAC).SeedRoles(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info(fmt.Sprintf("role %q seeded", role.Name), "permissions", len(model.ManagerPermissions))
			return nil
		},
	}
}

func newCreateSuperuserCmd(a *app) *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an active superuser account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			user, err := createSuperuser(cmd.Context(), st.Users, security.NewBcryptHasher(0), email, username, password)
			if err != nil {
				return err
			}
			a.logger.Info("superuser created", "user_id", user.ID.String(), "email", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func createSuperuser(ctx context.Context, users repository.UserRepository, hasher security.PasswordHasher,
	email, username, password string) (*model.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create superuser: %w", err)
	}
	return user, nil
}

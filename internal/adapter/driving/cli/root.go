// Package cli provides the cobra command tree that drives the application.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/canvasdue/internal/application"
	"github.com/ericfisherdev/canvasdue/internal/domain/model"
	"github.com/ericfisherdev/canvasdue/internal/domain/port/driven"
)

// DueReader is the subset of the due service the commands consume.
type DueReader interface {
	Courses(ctx context.Context, opts application.RefreshOptions) ([]model.Course, error)
	Assignments(ctx context.Context, opts application.RefreshOptions) ([]model.ViewRow, error)
	ClearCache(ctx context.Context) error
}

var _ DueReader = (*application.DueService)(nil)

// Deps holds everything the command tree needs.
type Deps struct {
	Due         DueReader
	Credentials driven.CredentialStore
	// TokenURL is the Canvas page where access tokens are generated.
	TokenURL string
	// OpenBrowser opens a URL in the user's browser.
	OpenBrowser func(url string) error
	// Color enables urgency colouring in tables.
	Color bool
}

// NewRootCommand builds the canvasdue command tree. Errors are returned from
// Execute and never printed by cobra itself.
func NewRootCommand(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "canvasdue",
		Short: "List upcoming Canvas assignments across your favorite courses",
		Long: `canvasdue shows what is due next in your favorite Canvas courses.

Quick Start:
  1. Authenticate:       canvasdue login
  2. See what is due:    canvasdue assignments
  3. Bypass the cache:   canvasdue assignments --refresh`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(deps),
		newCoursesCommand(deps),
		newAssignmentsCommand(deps),
		newClearCacheCommand(deps),
	)
	return root
}

func newCoursesCommand(deps Deps) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List favorite courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			courses, err := deps.Due.Courses(cmd.Context(), application.RefreshOptions{Force: refresh})
			if err != nil {
				return err
			}
			RenderCourses(cmd.OutOrStdout(), courses)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "ignore cached data and reload from Canvas")
	return cmd
}

func newAssignmentsCommand(deps Deps) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"due"},
		Short:   "List upcoming assignments, soonest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := deps.Due.Assignments(cmd.Context(), application.RefreshOptions{Force: refresh})
			if err != nil {
				return err
			}
			RenderAssignments(cmd.OutOrStdout(), rows, deps.Color)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "ignore cached data and reload from Canvas")
	return cmd
}

func newClearCacheCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete cached courses and assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.Due.ClearCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}

// ErrorHint returns a follow-up instruction for errors the user can fix,
// or an empty string.
func ErrorHint(err error) string {
	switch {
	case errors.Is(err, driven.ErrConfigMissing):
		return "No access token found. Run `canvasdue login` first."
	case errors.Is(err, driven.ErrUnauthenticated):
		return "Canvas rejected the access token. Run `canvasdue login` to store a new one."
	default:
		return ""
	}
}

// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
	"github.com/ericfisherdev/canvasdue/internal/domain/port/driven"
)

// Progress receives human-readable status while a refresh runs. Step may be
// called from several goroutines at once.
type Progress interface {
	Step(msg string)
	Done()
}

type nopProgress struct{}

func (nopProgress) Step(string) {}
func (nopProgress) Done()       {}

// DueOptions tunes a DueService.
type DueOptions struct {
	// Undated decides what happens to assignments without a due date.
	Undated model.UndatedPolicy
	// Concurrency caps simultaneous per-course fetches. Values below 1 mean sequential.
	Concurrency int
	// Progress is notified while remote data is loaded. May be nil.
	Progress Progress
}

// RefreshOptions alters a single read.
type RefreshOptions struct {
	// Force skips the cache read. A successful refresh is still cached.
	Force bool
}

// DueService serves the course list and the assignment view, either from a
// fresh cache snapshot or by refreshing from the LMS.
type DueService struct {
	client      driven.LMSClient
	cache       driven.CacheStore
	clock       driven.Clock
	undated     model.UndatedPolicy
	concurrency int
	progress    Progress
}

// NewDueService creates a new DueService with all required dependencies.
func NewDueService(client driven.LMSClient, cache driven.CacheStore, clock driven.Clock, opts DueOptions) *DueService {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	undated := opts.Undated
	if undated == "" {
		undated = model.UndatedDrop
	}
	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}

	return &DueService{
		client:      client,
		cache:       cache,
		clock:       clock,
		undated:     undated,
		concurrency: concurrency,
		progress:    progress,
	}
}

// Assignments returns upcoming assignments across all favorite courses,
// soonest first. A fresh snapshot is returned without any remote call.
// Otherwise every course is fetched; any single failure aborts the refresh,
// leaves the existing snapshot untouched and is returned as is.
func (s *DueService) Assignments(ctx context.Context, opts RefreshOptions) ([]model.ViewRow, error) {
	if !opts.Force {
		snap, err := s.cache.LoadRows(ctx)
		if err == nil {
			slog.Info("assignments served from cache",
				"rows", len(snap.Value),
				"age", s.clock.Now().Sub(snap.CreatedAt).Round(time.Second),
			)
			return snap.Value, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("assignments cache unavailable", "error", err)
	}

	rows, err := s.refreshAssignments(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveRows(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Courses returns the favorite course list, from cache when fresh.
func (s *DueService) Courses(ctx context.Context, opts RefreshOptions) ([]model.Course, error) {
	if !opts.Force {
		snap, err := s.cache.LoadCourses(ctx)
		if err == nil {
			slog.Info("courses served from cache",
				"courses", len(snap.Value),
				"age", s.clock.Now().Sub(snap.CreatedAt).Round(time.Second),
			)
			return snap.Value, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("courses cache unavailable", "error", err)
	}

	s.progress.Step("Loading courses...")
	courses, err := s.client.ListFavoriteCourses(ctx)
	s.progress.Done()
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveCourses(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ClearCache drops every cached snapshot so the next read refreshes.
func (s *DueService) ClearCache(ctx context.Context) error {
	for _, kind := range []model.CacheKind{model.CacheKindCourses, model.CacheKindAssignments} {
		if err := s.cache.Clear(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// refreshAssignments fetches courses, then each course's assignments with
// bounded concurrency, and aggregates the normalized rows. The first failure
// cancels the remaining fetches.
func (s *DueService) refreshAssignments(ctx context.Context) ([]model.ViewRow, error) {
	start := time.Now()
	now := s.clock.Now()
	defer s.progress.Done()

	s.progress.Step("Loading courses...")
	courses, err := s.client.ListFavoriteCourses(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([][]model.ViewRow, len(courses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, course := range courses {
		if gctx.Err() != nil {
			break
		}
		i, course := i, course
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			s.progress.Step(fmt.Sprintf("Loading assignments for %s...", course.Name))
			assignments, err := s.client.ListAssignments(gctx, course.ID)
			if err != nil {
				slog.Debug("assignment fetch failed", "course_id", course.ID, "course", course.Name, "error", err)
				return err
			}

			groups[i] = Normalize(course, assignments, now, s.undated)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Aggregate(groups...)

	slog.Info("assignments refreshed",
		"courses", len(courses),
		"rows", len(rows),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return rows, nil
}

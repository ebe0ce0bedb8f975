package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mariusvb/commitfeed/internal/github"
)

// Lister is the slice of the GitHub client the pipeline needs.
type Lister interface {
	ListRepositories(ctx context.Context) ([]github.Repository, error)
	ListRecentCommits(ctx context.Context, repo github.Repository) ([]github.Commit, error)
}

// Service runs poll cycles: enumerate repositories, fan out the per-repo
// commit fetches, merge and rank the results.
type Service struct {
	src        Lister
	logger     *slog.Logger
	maxEntries int
}

func NewService(src Lister, maxEntries int, logger *slog.Logger) *Service {
	if maxEntries < 1 {
		maxEntries = 25
	}
	return &Service{src: src, logger: logger, maxEntries: maxEntries}
}

// Refresh runs one full poll cycle and returns the ranked entries. A
// repository-list failure is fatal to the cycle. A single repository's
// commit failure only zeroes that repository's contribution: it is logged
// and the cycle carries on, so the total latency is bounded by the slowest
// repository rather than the sum.
func (s *Service) Refresh(ctx context.Context) ([]github.Commit, error) {
	repos, err := s.src.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh feed: %w", err)
	}

	perRepo := make([][]github.Commit, len(repos))
	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, repo github.Repository) {
			defer wg.Done()
			commits, err := s.src.ListRecentCommits(ctx, repo)
			if err != nil {
				s.logger.Warn("commit fetch failed", "repo", repo.FullName, "err", err)
				return
			}
			perRepo[i] = commits
		}(i, repo)
	}
	wg.Wait()

	entries := s.merge(perRepo)
	s.logger.Debug("cycle merged", "repos", len(repos), "entries", len(entries))
	return entries, nil
}

// merge flattens the per-repository results, sorts newest first and keeps
// only the top entries; older ones are discarded, not accumulated.
func (s *Service) merge(perRepo [][]github.Commit) []github.Commit {
	var all []github.Commit
	for _, commits := range perRepo {
		all = append(all, commits...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if len(all) > s.maxEntries {
		all = all[:s.maxEntries]
	}
	return all
}

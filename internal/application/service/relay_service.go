package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github-relay/internal/domain/account"
)

// Options tunes the relay's cache behaviour
type Options struct {
	// CacheTTL is the expiry of entries written on a miss; zero defers to the store default
	CacheTTL time.Duration
	// SingleFlight collapses concurrent misses for the same key into one upstream call
	SingleFlight bool
	Logger       *logrus.Entry
}

// RelayService serves the configured account's GitHub data through the cache
type RelayService struct {
	github   account.GitHubService
	cache    account.Cache
	username string
	ttl      time.Duration
	flights  *singleflight.Group
	log      *logrus.Entry

	writes sync.WaitGroup
}

// NewRelayService creates a new relay service
func NewRelayService(github account.GitHubService, cache account.Cache, username string, opts Options) *RelayService {
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &RelayService{
		github:   github,
		cache:    cache,
		username: username,
		ttl:      opts.CacheTTL,
		log:      opts.Logger.WithField("component", "relay"),
	}
	if opts.SingleFlight {
		s.flights = &singleflight.Group{}
	}
	return s
}

// GetProfile returns the account profile, from cache when present
func (s *RelayService) GetProfile(ctx context.Context) (*account.Profile, error) {
	key := account.ProfileKey(s.username)

	profile, cached, err := readThrough(ctx, s, key, s.github.FetchProfile)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch GitHub profile")
		return nil, account.WrapUpstream("Failed to fetch GitHub profile", err)
	}

	if cached {
		s.log.WithField("username", s.username).Info("Retrieved user profile from cache")
	}
	return profile, nil
}

// GetRepository returns one repository's detail, from cache when present
func (s *RelayService) GetRepository(ctx context.Context, repoName string) (*account.RepositoryDetail, error) {
	if repoName == "" {
		return nil, account.ErrValidation(account.MsgRepoNameRequired)
	}

	key := account.RepositoryKey(s.username, repoName)

	detail, cached, err := readThrough(ctx, s, key, func(ctx context.Context) (*account.RepositoryDetail, error) {
		return s.github.FetchRepositoryDetail(ctx, repoName)
	})
	if err != nil {
		s.log.WithError(err).WithField("repo", repoName).Error("Failed to fetch repository data")
		return nil, account.WrapUpstream("Failed to fetch repository data", err)
	}

	if cached {
		s.log.WithField("repo", repoName).Info("Retrieved repository data from cache")
	}
	return detail, nil
}

// CreateIssue opens an issue upstream, then drops the repository's cached detail.
// The profile entry is left alone: it carries no issue data.
func (s *RelayService) CreateIssue(ctx context.Context, repoName string, req account.IssueRequest) (*account.CreatedIssue, error) {
	if repoName == "" {
		return nil, account.ErrValidation(account.MsgRepoNameRequired)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	issue, err := s.github.CreateIssue(ctx, repoName, req)
	if err != nil {
		s.log.WithError(err).WithField("repo", repoName).Error("Failed to create issue")
		return nil, account.WrapUpstream("Failed to create issue", err)
	}

	key := account.RepositoryKey(s.username, repoName)
	if s.cache.Delete(ctx, key) {
		s.log.WithField("repo", repoName).Info("Invalidated cache after creating a new issue")
	} else {
		s.log.WithField("key", key).Warn("Could not invalidate repository cache")
	}

	return issue, nil
}

// Wait blocks until every background cache write has finished
func (s *RelayService) Wait() {
	s.writes.Wait()
}

// readThrough implements the read path: cache hit, or fetch and store in the background.
// The bool result reports a cache hit.
//
// With single-flight on, the shared fetch runs detached from every caller's context and
// each caller waits on its own: one caller going away never fails the others.
func readThrough[T any](ctx context.Context, s *RelayService, key string, fetch func(context.Context) (*T, error)) (*T, bool, error) {
	var cached T
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	load := func(ctx context.Context) (*T, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.storeAsync(ctx, key, v)
		return v, nil
	}

	if s.flights == nil {
		v, err := load(ctx)
		return v, false, err
	}

	detached := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(key, func() (any, error) { return load(detached) })

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*T), false, nil
	}
}

// storeAsync writes value without holding up the response.
// The write outlives the request: a client disconnect must not cancel it.
func (s *RelayService) storeAsync(ctx context.Context, key string, value any) {
	ctx = context.WithoutCancel(ctx)

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if s.cache.Set(ctx, key, value, s.ttl) {
			s.log.WithField("key", key).Info("Stored in cache")
			return
		}
		s.log.WithField("key", key).Warn("Cache write skipped")
	}()
}

package account

import (
	"context"
	"time"
)

// Limits applied when reading from GitHub
const (
	MaxProfileRepositories = 100
	MaxRepositoryIssues    = 10
	MaxContributors        = 10
)

// GitHubService is a domain service interface for the upstream GitHub API.
// Implementations are bound to a single configured account.
type GitHubService interface {
	// FetchProfile fetches the account and up to 100 of its repositories, most recently updated first
	FetchProfile(ctx context.Context) (*Profile, error)
	// FetchRepositoryDetail fetches one repository with languages, open issues and contributors
	FetchRepositoryDetail(ctx context.Context, repoName string) (*RepositoryDetail, error)
	// CreateIssue opens an issue in one of the account's repositories
	CreateIssue(ctx context.Context, repoName string, req IssueRequest) (*CreatedIssue, error)
}

// Cache is a best-effort key/value store holding JSON-encoded snapshots.
// A false result means "not cached" or "not stored" and is never an error for callers.
type Cache interface {
	// Get decodes the value stored under key into dest
	Get(ctx context.Context, key string, dest any) bool
	// Set stores value under key; ttl <= 0 selects the store's default expiry
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	// Delete removes key; a missing key counts as success
	Delete(ctx context.Context, key string) bool
}

package github

import (
	"context"
	"errors"
	"sort"

	gh "github.com/google/go-github/v67/github"
	"golang.org/x/sync/errgroup"

	"github-relay/internal/domain/account"
	"github-relay/internal/metrics"
)

// Operation names used for metrics
const (
	opFetchProfile    = "fetch_profile"
	opFetchRepository = "fetch_repository"
	opCreateIssue     = "create_issue"
)

// GitHubServiceImpl implements the domain account.GitHubService interface
type GitHubServiceImpl struct {
	client   *gh.Client
	username string
	metrics  *metrics.Metrics
}

// NewGitHubService creates a new GitHub service implementation bound to username
func NewGitHubService(client *gh.Client, username string, m *metrics.Metrics) account.GitHubService {
	return &GitHubServiceImpl{client: client, username: username, metrics: m}
}

// FetchProfile fetches the user and up to 100 of their repositories sorted by last update
func (g *GitHubServiceImpl) FetchProfile(ctx context.Context) (profile *account.Profile, err error) {
	defer func() { g.metrics.UpstreamRequest(opFetchProfile, err) }()

	user, _, err := g.client.Users.Get(ctx, g.username)
	if err != nil {
		return nil, upstreamError(err)
	}

	repos, _, err := g.client.Repositories.ListByUser(ctx, g.username, &gh.RepositoryListByUserOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: account.MaxProfileRepositories},
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	return convertProfile(user, repos), nil
}

// FetchRepositoryDetail fetches a repository with its languages, open issues and contributors.
// The four calls run concurrently; the first failure cancels the rest and nothing partial is returned.
func (g *GitHubServiceImpl) FetchRepositoryDetail(ctx context.Context, repoName string) (detail *account.RepositoryDetail, err error) {
	defer func() { g.metrics.UpstreamRequest(opFetchRepository, err) }()

	var (
		repo         *gh.Repository
		languages    map[string]int
		issues       []*gh.Issue
		contributors []*gh.Contributor
	)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		repo, _, err = g.client.Repositories.Get(gctx, g.username, repoName)
		return err
	})
	group.Go(func() error {
		var err error
		languages, _, err = g.client.Repositories.ListLanguages(gctx, g.username, repoName)
		return err
	})
	group.Go(func() error {
		var err error
		issues, _, err = g.client.Issues.ListByRepo(gctx, g.username, repoName, &gh.IssueListByRepoOptions{
			State:       "open",
			ListOptions: gh.ListOptions{PerPage: account.MaxRepositoryIssues},
		})
		return err
	})
	group.Go(func() error {
		var err error
		contributors, _, err = g.client.Repositories.ListContributors(gctx, g.username, repoName, &gh.ListContributorsOptions{
			ListOptions: gh.ListOptions{PerPage: account.MaxContributors},
		})
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, upstreamError(err)
	}

	return convertRepositoryDetail(repo, languages, issues, contributors), nil
}

// CreateIssue opens an issue with the given title and body, unmodified
func (g *GitHubServiceImpl) CreateIssue(ctx context.Context, repoName string, req account.IssueRequest) (created *account.CreatedIssue, err error) {
	defer func() { g.metrics.UpstreamRequest(opCreateIssue, err) }()

	issue, _, err := g.client.Issues.Create(ctx, g.username, repoName, &gh.IssueRequest{
		Title: gh.String(req.Title),
		Body:  gh.String(req.Body),
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	return &account.CreatedIssue{
		ID:        issue.GetID(),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		HTMLURL:   issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
	}, nil
}

// upstreamError keeps the message GitHub sent, falling back to the transport error text
func upstreamError(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Message != "" {
		return account.ErrUpstream(rateErr.Message, err)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Message != "" {
		return account.ErrUpstream(abuseErr.Message, err)
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Message != "" {
		return account.ErrUpstream(respErr.Message, err)
	}
	return account.ErrUpstream(err.Error(), err)
}

// convertProfile converts go-github user and repositories to a Profile
func convertProfile(user *gh.User, repos []*gh.Repository) *account.Profile {
	summaries := make([]account.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		summaries = append(summaries, account.RepositorySummary{
			ID:              r.GetID(),
			Name:            r.GetName(),
			Description:     r.Description,
			HTMLURL:         r.GetHTMLURL(),
			Language:        r.Language,
			StargazersCount: r.GetStargazersCount(),
			ForksCount:      r.GetForksCount(),
			UpdatedAt:       r.GetUpdatedAt().Time,
		})
	}

	// The API already sorts; keep the order guaranteed regardless
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	if len(summaries) > account.MaxProfileRepositories {
		summaries = summaries[:account.MaxProfileRepositories]
	}

	return &account.Profile{
		Login:        user.GetLogin(),
		Name:         user.Name,
		Bio:          user.Bio,
		PublicRepos:  user.GetPublicRepos(),
		Followers:    user.GetFollowers(),
		Following:    user.GetFollowing(),
		CreatedAt:    user.GetCreatedAt().Time,
		UpdatedAt:    user.GetUpdatedAt().Time,
		AvatarURL:    user.GetAvatarURL(),
		HTMLURL:      user.GetHTMLURL(),
		Repositories: summaries,
	}
}

// convertRepositoryDetail converts the four go-github responses to a RepositoryDetail
func convertRepositoryDetail(repo *gh.Repository, languages map[string]int, issues []*gh.Issue, contributors []*gh.Contributor) *account.RepositoryDetail {
	if languages == nil {
		languages = map[string]int{}
	}

	issueSummaries := make([]account.IssueSummary, 0, account.MaxRepositoryIssues)
	for _, issue := range issues {
		if issue == nil || issue.GetState() != "open" {
			continue
		}
		if len(issueSummaries) == account.MaxRepositoryIssues {
			break
		}
		author := issue.GetUser()
		issueSummaries = append(issueSummaries, account.IssueSummary{
			ID:        issue.GetID(),
			Number:    issue.GetNumber(),
			Title:     issue.GetTitle(),
			HTMLURL:   issue.GetHTMLURL(),
			State:     issue.GetState(),
			CreatedAt: issue.GetCreatedAt().Time,
			UpdatedAt: issue.GetUpdatedAt().Time,
			User: account.UserRef{
				Login:     author.GetLogin(),
				AvatarURL: author.GetAvatarURL(),
				HTMLURL:   author.GetHTMLURL(),
			},
		})
	}

	contributorSummaries := make([]account.ContributorSummary, 0, account.MaxContributors)
	for _, c := range contributors {
		if c == nil {
			continue
		}
		if len(contributorSummaries) == account.MaxContributors {
			break
		}
		contributorSummaries = append(contributorSummaries, account.ContributorSummary{
			Login:         c.GetLogin(),
			AvatarURL:     c.GetAvatarURL(),
			HTMLURL:       c.GetHTMLURL(),
			Contributions: c.GetContributions(),
		})
	}

	return &account.RepositoryDetail{
		ID:              repo.GetID(),
		Name:            repo.GetName(),
		FullName:        repo.GetFullName(),
		Description:     repo.Description,
		HTMLURL:         repo.GetHTMLURL(),
		CreatedAt:       repo.GetCreatedAt().Time,
		UpdatedAt:       repo.GetUpdatedAt().Time,
		PushedAt:        repo.PushedAt.GetTime(),
		Language:        repo.Language,
		DefaultBranch:   repo.GetDefaultBranch(),
		Size:            repo.GetSize(),
		StargazersCount: repo.GetStargazersCount(),
		WatchersCount:   repo.GetWatchersCount(),
		ForksCount:      repo.GetForksCount(),
		OpenIssuesCount: repo.GetOpenIssuesCount(),
		Languages:       languages,
		Issues:          issueSummaries,
		Contributors:    contributorSummaries,
	}
}

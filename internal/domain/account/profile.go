package account

import "time"

// Profile is a snapshot of the configured account and its most recently updated repositories.
// Pointer fields are null when GitHub sends null.
type Profile struct {
	Login        string              `json:"login"`
	Name         *string             `json:"name"`
	Bio          *string             `json:"bio"`
	PublicRepos  int                 `json:"public_repos"`
	Followers    int                 `json:"followers"`
	Following    int                 `json:"following"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	AvatarURL    string              `json:"avatar_url"`
	HTMLURL      string              `json:"html_url"`
	Repositories []RepositorySummary `json:"repositories"`
}

// RepositorySummary is the trimmed repository shape nested in a Profile
type RepositorySummary struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RepositoryDetail is a single repository with its languages, open issues and contributors
type RepositoryDetail struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	FullName        string               `json:"full_name"`
	Description     *string              `json:"description"`
	HTMLURL         string               `json:"html_url"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	PushedAt        *time.Time           `json:"pushed_at"`
	Language        *string              `json:"language"`
	DefaultBranch   string               `json:"default_branch"`
	Size            int                  `json:"size"`
	StargazersCount int                  `json:"stargazers_count"`
	WatchersCount   int                  `json:"watchers_count"`
	ForksCount      int                  `json:"forks_count"`
	OpenIssuesCount int                  `json:"open_issues_count"`
	Languages       map[string]int       `json:"languages"`
	Issues          []IssueSummary       `json:"issues"`
	Contributors    []ContributorSummary `json:"contributors"`
}

// IssueSummary is an open issue listed on a RepositoryDetail
type IssueSummary struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	HTMLURL   string    `json:"html_url"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      UserRef   `json:"user"`
}

// UserRef is the minimal author reference embedded in an issue
type UserRef struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// ContributorSummary is a contributor listed on a RepositoryDetail
type ContributorSummary struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	HTMLURL       string `json:"html_url"`
	Contributions int    `json:"contributions"`
}

// CreatedIssue is returned synchronously after an issue is opened
type CreatedIssue struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueRequest carries the fields of a new issue
type IssueRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate checks that both title and body are present.
// Values are otherwise passed upstream untouched.
func (r IssueRequest) Validate() error {
	if r.Title == "" || r.Body == "" {
		return ErrValidation(MsgTitleAndBodyRequired)
	}
	return nil
}

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gh "github.com/google/go-github/v67/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-relay/internal/domain/account"
	"github-relay/internal/metrics"
)

func newTestService(t *testing.T, mux *http.ServeMux) account.GitHubService {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	baseURL, err := client.BaseURL.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	return NewGitHubService(client, "octocat", metrics.New())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
}

func TestFetchProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"login":        "octocat",
			"name":         "The Octocat",
			"bio":          "mascot",
			"public_repos": 8,
			"followers":    10,
			"following":    20,
			"created_at":   "2011-01-25T18:44:36Z",
			"updated_at":   "2024-01-01T00:00:00Z",
			"avatar_url":   "https://avatars.example/octocat",
			"html_url":     "https://github.com/octocat",
		})
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("direction"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "older", "updated_at": "2023-01-01T00:00:00Z", "stargazers_count": 3},
			{"id": 2, "name": "newest", "updated_at": "2024-06-01T00:00:00Z", "language": "Go", "forks_count": 4},
			{"id": 3, "name": "middle", "updated_at": "2023-06-01T00:00:00Z", "description": "desc"},
		})
	})

	svc := newTestService(t, mux)

	profile, err := svc.FetchProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "octocat", profile.Login)
	require.NotNil(t, profile.Name)
	assert.Equal(t, "The Octocat", *profile.Name)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "mascot", *profile.Bio)
	assert.Equal(t, 10, profile.Followers)
	assert.Equal(t, 20, profile.Following)
	assert.Equal(t, 8, profile.PublicRepos)
	assert.Equal(t, time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC), profile.CreatedAt)

	require.Len(t, profile.Repositories, 3)
	assert.Equal(t, []string{"newest", "middle", "older"}, []string{
		profile.Repositories[0].Name, profile.Repositories[1].Name, profile.Repositories[2].Name,
	})
	require.NotNil(t, profile.Repositories[0].Language)
	assert.Equal(t, "Go", *profile.Repositories[0].Language)
	assert.Nil(t, profile.Repositories[0].Description)
	require.NotNil(t, profile.Repositories[1].Description)
	assert.Equal(t, "desc", *profile.Repositories[1].Description)
	assert.Equal(t, 4, profile.Repositories[0].ForksCount)
	for i := 1; i < len(profile.Repositories); i++ {
		assert.False(t, profile.Repositories[i].UpdatedAt.After(profile.Repositories[i-1].UpdatedAt))
	}
}

func TestFetchProfile_CapsRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat"})
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		repos := make([]map[string]any, 0, 120)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 120; i++ {
			repos = append(repos, map[string]any{
				"id":         i,
				"name":       fmt.Sprintf("repo-%d", i),
				"updated_at": base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, repos)
	})

	profile, err := newTestService(t, mux).FetchProfile(context.Background())
	require.NoError(t, err)
	require.Len(t, profile.Repositories, account.MaxProfileRepositories)
	assert.Equal(t, "repo-119", profile.Repositories[0].Name)
}

func TestFetchProfile_UserNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", notFound)

	_, err := newTestService(t, mux).FetchProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Not Found", err.Error())
	assert.True(t, account.HasCode(err, account.CodeUpstream))
}

func repositoryMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":                1296269,
			"name":              "hello-world",
			"full_name":         "octocat/hello-world",
			"html_url":          "https://github.com/octocat/hello-world",
			"created_at":        "2011-01-26T19:01:12Z",
			"pushed_at":         "2011-01-26T19:06:43Z",
			"language":          "C",
			"default_branch":    "master",
			"size":              108,
			"stargazers_count":  80,
			"watchers_count":    80,
			"forks_count":       9,
			"open_issues_count": 12,
		})
	})
	mux.HandleFunc("/repos/octocat/hello-world/languages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"C": 78769, "Python": 7769})
	})
	mux.HandleFunc("/repos/octocat/hello-world/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		issues := make([]map[string]any, 0, 12)
		for i := 1; i <= 12; i++ {
			state := "open"
			if i == 2 {
				state = "closed"
			}
			issues = append(issues, map[string]any{
				"id":       1000 + i,
				"number":   i,
				"title":    fmt.Sprintf("Issue %d", i),
				"state":    state,
				"html_url": fmt.Sprintf("https://github.com/octocat/hello-world/issues/%d", i),
				"user":     map[string]any{"login": "hubot", "avatar_url": "https://avatars.example/hubot", "html_url": "https://github.com/hubot"},
			})
		}
		writeJSON(w, http.StatusOK, issues)
	})
	mux.HandleFunc("/repos/octocat/hello-world/contributors", func(w http.ResponseWriter, _ *http.Request) {
		contributors := make([]map[string]any, 0, 11)
		for i := 0; i < 11; i++ {
			contributors = append(contributors, map[string]any{"login": fmt.Sprintf("user-%d", i), "contributions": 50 - i})
		}
		writeJSON(w, http.StatusOK, contributors)
	})
	return mux
}

func TestFetchRepositoryDetail(t *testing.T) {
	detail, err := newTestService(t, repositoryMux(t)).FetchRepositoryDetail(context.Background(), "hello-world")
	require.NoError(t, err)

	assert.Equal(t, int64(1296269), detail.ID)
	assert.Equal(t, "octocat/hello-world", detail.FullName)
	assert.Equal(t, "master", detail.DefaultBranch)
	assert.Equal(t, 108, detail.Size)
	assert.Equal(t, 12, detail.OpenIssuesCount)
	assert.Equal(t, map[string]int{"C": 78769, "Python": 7769}, detail.Languages)
	require.NotNil(t, detail.PushedAt)
	assert.Equal(t, time.Date(2011, 1, 26, 19, 6, 43, 0, time.UTC), detail.PushedAt.UTC())
	require.NotNil(t, detail.Language)
	assert.Equal(t, "C", *detail.Language)

	require.Len(t, detail.Issues, account.MaxRepositoryIssues)
	for _, issue := range detail.Issues {
		assert.Equal(t, "open", issue.State)
		assert.Equal(t, "hubot", issue.User.Login)
	}
	assert.Equal(t, 1, detail.Issues[0].Number)
	assert.Equal(t, 3, detail.Issues[1].Number)

	require.Len(t, detail.Contributors, account.MaxContributors)
	assert.Equal(t, "user-0", detail.Contributors[0].Login)
	assert.Equal(t, 50, detail.Contributors[0].Contributions)
}

func TestFetchRepositoryDetail_NullFieldsStayNull(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/empty", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          7,
			"name":        "empty",
			"description": nil,
			"language":    nil,
			"pushed_at":   nil,
			"created_at":  "2024-01-01T00:00:00Z",
		})
	})
	mux.HandleFunc("/repos/octocat/empty/languages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{})
	})
	mux.HandleFunc("/repos/octocat/empty/issues", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("/repos/octocat/empty/contributors", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	detail, err := newTestService(t, mux).FetchRepositoryDetail(context.Background(), "empty")
	require.NoError(t, err)

	assert.Nil(t, detail.Description)
	assert.Nil(t, detail.Language)
	assert.Nil(t, detail.PushedAt)
	assert.Empty(t, detail.Contributors)

	data, err := json.Marshal(detail)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	for _, field := range []string{"description", "language", "pushed_at"} {
		value, present := body[field]
		assert.True(t, present, field)
		assert.Nil(t, value, field)
	}
}

func TestFetchProfile_NullFieldsStayNull(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat", "name": nil, "bio": nil})
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "bare", "description": nil, "language": nil, "updated_at": "2024-01-01T00:00:00Z"},
		})
	})

	profile, err := newTestService(t, mux).FetchProfile(context.Background())
	require.NoError(t, err)

	assert.Nil(t, profile.Name)
	assert.Nil(t, profile.Bio)
	require.Len(t, profile.Repositories, 1)
	assert.Nil(t, profile.Repositories[0].Description)
	assert.Nil(t, profile.Repositories[0].Language)

	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bio":null`)
	assert.Contains(t, string(data), `"description":null`)
}

func TestFetchRepositoryDetail_AnyFailureAborts(t *testing.T) {
	paths := []string{
		"/repos/octocat/hello-world",
		"/repos/octocat/hello-world/languages",
		"/repos/octocat/hello-world/issues",
		"/repos/octocat/hello-world/contributors",
	}

	for _, failing := range paths {
		t.Run(failing, func(t *testing.T) {
			full := repositoryMux(t)
			mux := http.NewServeMux()
			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == failing {
					writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server Error"})
					return
				}
				full.ServeHTTP(w, r)
			})

			detail, err := newTestService(t, mux).FetchRepositoryDetail(context.Background(), "hello-world")
			require.Error(t, err)
			assert.Nil(t, detail)
			assert.True(t, account.HasCode(err, account.CodeUpstream))
		})
	}
}

func TestCreateIssue(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		calls.Add(1)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var got map[string]string
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "  Test Issue ", got["title"])
		assert.Equal(t, "body text", got["body"])

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":         123,
			"number":     1,
			"title":      got["title"],
			"html_url":   "https://github.com/octocat/hello-world/issues/1",
			"created_at": "2024-05-01T10:00:00Z",
		})
	})

	created, err := newTestService(t, mux).CreateIssue(context.Background(), "hello-world", account.IssueRequest{
		Title: "  Test Issue ",
		Body:  "body text",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, &account.CreatedIssue{
		ID:        123,
		Number:    1,
		Title:     "  Test Issue ",
		HTMLURL:   "https://github.com/octocat/hello-world/issues/1",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}, created)
}

func TestCreateIssue_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/issues", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Resource not accessible by integration"})
	})

	_, err := newTestService(t, mux).CreateIssue(context.Background(), "hello-world", account.IssueRequest{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.Equal(t, "Resource not accessible by integration", err.Error())
}

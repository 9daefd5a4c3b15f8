package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github-relay/internal/domain/account"
)

// RelayService is what the handler needs from the application layer
type RelayService interface {
	GetProfile(ctx context.Context) (*account.Profile, error)
	GetRepository(ctx context.Context, repoName string) (*account.RepositoryDetail, error)
	CreateIssue(ctx context.Context, repoName string, req account.IssueRequest) (*account.CreatedIssue, error)
}

// GitHubHandler handles the relayed GitHub endpoints
type GitHubHandler struct {
	relay RelayService
}

// NewGitHubHandler creates a new GitHub handler
func NewGitHubHandler(relay RelayService) *GitHubHandler {
	return &GitHubHandler{
		relay: relay,
	}
}

// GetProfile handles GET /github
// @Summary Get the configured account's profile
// @Description Returns profile fields and up to 100 repositories, most recently updated first. Served from cache when present.
// @Tags GitHub
// @Produce json
// @Success 200 {object} account.Profile
// @Failure 500 {object} ErrorResponse
// @Router /github [get]
func (h *GitHubHandler) GetProfile(c *gin.Context) {
	profile, err := h.relay.GetProfile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetRepository handles GET /github/:repoName
// @Summary Get repository detail
// @Description Returns repository metadata with its languages, up to 10 open issues and up to 10 contributors. Served from cache when present.
// @Tags GitHub
// @Produce json
// @Param repoName path string true "Repository name"
// @Success 200 {object} account.RepositoryDetail
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /github/{repoName} [get]
func (h *GitHubHandler) GetRepository(c *gin.Context) {
	repoName := c.Param("repoName")
	if repoName == "" {
		respondError(c, account.ErrValidation(account.MsgRepoNameRequired))
		return
	}

	detail, err := h.relay.GetRepository(c.Request.Context(), repoName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateIssue handles POST /github/:repoName/issues
// @Summary Open an issue
// @Description Creates an issue on the repository and drops its cached detail
// @Tags GitHub
// @Accept json
// @Produce json
// @Param repoName path string true "Repository name"
// @Param request body account.IssueRequest true "Issue title and body"
// @Success 201 {object} CreateIssueResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /github/{repoName}/issues [post]
func (h *GitHubHandler) CreateIssue(c *gin.Context) {
	repoName := c.Param("repoName")
	if repoName == "" {
		respondError(c, account.ErrValidation(account.MsgRepoNameRequired))
		return
	}

	// A malformed or missing body counts as missing fields
	var req account.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, account.ErrValidation(account.MsgTitleAndBodyRequired))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	issue, err := h.relay.CreateIssue(c.Request.Context(), repoName, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateIssueResponse{
		Success: true,
		Message: "Issue created successfully",
		Issue:   issue,
	})
}

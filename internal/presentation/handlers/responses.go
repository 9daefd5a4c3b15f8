package handlers

import (
	"github.com/gin-gonic/gin"

	"github-relay/internal/domain/account"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Failed to fetch GitHub profile: Not Found"`
}

// CreateIssueResponse is returned after an issue is opened
type CreateIssueResponse struct {
	Success bool                  `json:"success" example:"true"`
	Message string                `json:"message" example:"Issue created successfully"`
	Issue   *account.CreatedIssue `json:"issue"`
}

// respondError writes err as an ErrorResponse with the status its code maps to.
// The error is attached to the context for the access log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(account.HTTPStatus(err), ErrorResponse{
		Success: false,
		Message: err.Error(),
	})
}

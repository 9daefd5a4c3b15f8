package middleware

import (
	"github.com/gin-gonic/gin"

	"github-relay/internal/config"
	"github-relay/internal/domain/account"
)

// RequireGitHubConfig rejects requests while the GitHub token or username is unset.
// Missing credentials are not a startup failure; every guarded request answers 500 instead.
func RequireGitHubConfig(cfg config.GitHubConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Token == "" {
			abortWithError(c, account.ErrConfiguration(account.MsgTokenNotConfigured))
			return
		}

		if cfg.Username == "" {
			abortWithError(c, account.ErrConfiguration(account.MsgUserNotConfigured))
			return
		}

		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(account.HTTPStatus(err), gin.H{
		"success": false,
		"message": err.Error(),
	})
}

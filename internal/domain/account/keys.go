package account

import "fmt"

const keyPrefix = "github"

// ProfileKey is the cache key of the profile snapshot for username
func ProfileKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// RepositoryKey is the cache key of the repository detail snapshot for username/repoName
func RepositoryKey(username, repoName string) string {
	return fmt.Sprintf("%s:repo:%s:%s", keyPrefix, username, repoName)
}

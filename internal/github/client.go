package github

import (
	"os"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v81/github"
)

// Client wraps the GitHub API client with rate limiting support.
type Client struct {
	*github.Client
}

// NewClient creates a GitHub client with optional authentication and rate
// limiting. If GITHUB_TOKEN is set, the client is authenticated for higher
// rate limits; unauthenticated access works for small corpora.
func NewClient() (*Client, error) {
	rateLimiter, err := github_ratelimit.NewRateLimitWaiterClient(nil)
	if err != nil {
		return nil, err
	}

	ghClient := github.NewClient(rateLimiter)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ghClient = ghClient.WithAuthToken(token)
	}

	return &Client{Client: ghClient}, nil
}

package embedding

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the OpenAI client used for embeddings and query answering.
type Client struct {
	client *openai.Client
}

// NewClient creates an OpenAI client with the given API key.
// The key gates the whole run; an empty key is a configuration error.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is empty")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &client}, nil
}

// Client returns the underlying OpenAI client for use in other packages
// (e.g. the query engine).
func (c *Client) Client() *openai.Client {
	return c.client
}

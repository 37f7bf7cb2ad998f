// Package query answers benchmark queries against a built vector index:
// embed the query, retrieve the top nodes, and generate an answer.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/bull/chunkbench/internal/config"
	"github.com/bull/chunkbench/internal/index"
	"github.com/bull/chunkbench/internal/splitter"
)

// Embedder turns query text into an embedding vector.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher is the similarity-search surface of a built index.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]index.ScoredNode, error)
}

// Answerer generates an answer to a question from retrieved context.
type Answerer interface {
	Answer(ctx context.Context, question string, contexts []string) (string, error)
}

// Response is the outcome of one query: the generated answer and the number
// of source nodes it was grounded on.
type Response struct {
	Answer      string
	SourceNodes int
}

// Engine runs queries for one benchmark configuration.
type Engine struct {
	embedder      Embedder
	searcher      Searcher
	answerer      Answerer
	topK          int
	replaceWindow bool
}

// NewEngine creates a query engine. When replaceWindow is set (sentence
// window configurations), the stored window text replaces the node text
// before answering.
func NewEngine(embedder Embedder, searcher Searcher, answerer Answerer, topK int, replaceWindow bool) *Engine {
	if topK <= 0 {
		topK = config.TopK
	}
	return &Engine{
		embedder:      embedder,
		searcher:      searcher,
		answerer:      answerer,
		topK:          topK,
		replaceWindow: replaceWindow,
	}
}

// Query answers a single benchmark query against the index.
func (e *Engine) Query(ctx context.Context, question string) (Response, error) {
	embeddings, err := e.embedder.GenerateEmbeddings(ctx, []string{question})
	if err != nil {
		return Response{}, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return Response{}, fmt.Errorf("embed query: expected 1 embedding, got %d", len(embeddings))
	}

	results, err := e.searcher.Search(ctx, embeddings[0], e.topK)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}

	contexts := make([]string, 0, len(results))
	for _, result := range results {
		contexts = append(contexts, e.contextText(result))
	}

	answer, err := e.answerer.Answer(ctx, question, contexts)
	if err != nil {
		return Response{}, fmt.Errorf("answer: %w", err)
	}

	return Response{
		Answer:      answer,
		SourceNodes: len(results),
	}, nil
}

// contextText returns the text the answerer should see for a retrieved node.
// Sentence-window runs substitute the stored window for the single sentence.
func (e *Engine) contextText(result index.ScoredNode) string {
	if e.replaceWindow {
		if window, ok := result.Node.Metadata[splitter.WindowMetadataKey].(string); ok && window != "" {
			return window
		}
	}
	return result.Node.Text
}

// OpenAIAnswerer answers questions with a chat completion over the
// retrieved context.
type OpenAIAnswerer struct {
	client *openai.Client
}

// NewOpenAIAnswerer creates an answerer backed by the given OpenAI client.
func NewOpenAIAnswerer(client *openai.Client) *OpenAIAnswerer {
	return &OpenAIAnswerer{client: client}
}

// Answer generates an answer grounded strictly on the provided contexts.
func (a *OpenAIAnswerer) Answer(ctx context.Context, question string, contexts []string) (string, error) {
	prompt := fmt.Sprintf(`Answer the question using only the context below. If the context does not contain the answer, say so.

Context:
%s

Question: %s`, strings.Join(contexts, "\n\n---\n\n"), question)

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:     config.ChatModel,
		MaxTokens: openai.Int(config.AnswerMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("QDRANT_HOST", "")
	t.Setenv("QDRANT_PORT", "")
	t.Setenv("CHUNKBENCH_DATA_DIR", "")
	t.Setenv("CHUNKBENCH_OUTPUT", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "localhost", cfg.QdrantHost)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "data/documents", cfg.DataDir)
	assert.Equal(t, "experiment_results.json", cfg.OutputFile)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("QDRANT_PORT", "7777")
	t.Setenv("CHUNKBENCH_DATA_DIR", "/corpus")
	t.Setenv("CHUNKBENCH_OUTPUT", "/tmp/out.json")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "qdrant.internal", cfg.QdrantHost)
	assert.Equal(t, 7777, cfg.QdrantPort)
	assert.Equal(t, "/corpus", cfg.DataDir)
	assert.Equal(t, "/tmp/out.json", cfg.OutputFile)
}

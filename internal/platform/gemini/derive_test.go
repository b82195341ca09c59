package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/generation"
)

func TestParseImagePromptResponse(t *testing.T) {
	t.Parallel()

	t.Run("parses a response", func(t *testing.T) {
		t.Parallel()

		raw := `{"description": "Mist rolling over a mountain ridge at dawn.", "keywords": "mountains, mist, dawn"}`

		prompt, err := parseImagePromptResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Mist rolling over a mountain ridge at dawn.", prompt.Description)
		assert.Equal(t, "mountains, mist, dawn", prompt.Keywords)
	})

	t.Run("parses a fenced response", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"description\": \"A lone tree in fog.\", \"keywords\": \"tree, fog\"}\n```"

		prompt, err := parseImagePromptResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, "A lone tree in fog.", prompt.Description)
	})

	t.Run("tolerates missing keywords", func(t *testing.T) {
		t.Parallel()

		prompt, err := parseImagePromptResponse(`{"description": "A quiet lake."}`)
		require.NoError(t, err)
		assert.Equal(t, "A quiet lake.", prompt.Description)
		assert.Empty(t, prompt.Keywords)
	})

	t.Run("rejects a missing description", func(t *testing.T) {
		t.Parallel()

		prompt, err := parseImagePromptResponse(`{"keywords": "tree, fog"}`)
		assert.Nil(t, prompt)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		prompt, err := parseImagePromptResponse("a serene scene")
		assert.Nil(t, prompt)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("rejects empty response text", func(t *testing.T) {
		t.Parallel()

		prompt, err := parseImagePromptResponse("")
		assert.Nil(t, prompt)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}

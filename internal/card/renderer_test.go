package card

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/domain"
)

func testQuote(t *testing.T, text string) *domain.Quote {
	t.Helper()

	quote, err := domain.NewQuote(text, "Epictetus", "resilience")
	require.NoError(t, err)
	return quote
}

func decodeCardPNG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "card output should be a valid PNG")
	return img
}

func TestNewRenderer(t *testing.T) {
	renderer, err := NewRenderer()

	require.NoError(t, err)
	require.NotNil(t, renderer)
	assert.NotNil(t, renderer.quoteFace)
	assert.NotNil(t, renderer.quoteFaceSmall)
	assert.NotNil(t, renderer.authorFace)
}

func TestRenderer_Render(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	t.Run("renders gradient card without background", func(t *testing.T) {
		quote := testQuote(t, "It is not things that disturb us, but our judgments about things.")

		data, err := renderer.Render(quote, nil)

		require.NoError(t, err)
		img := decodeCardPNG(t, data)
		assert.Equal(t, cardWidth, img.Bounds().Dx())
		assert.Equal(t, cardHeight, img.Bounds().Dy())
	})

	t.Run("renders card over a background image", func(t *testing.T) {
		background := image.NewRGBA(image.Rect(0, 0, 64, 32))
		for y := 0; y < 32; y++ {
			for x := 0; x < 64; x++ {
				background.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
			}
		}
		quote := testQuote(t, "The obstacle is the way.")

		data, err := renderer.Render(quote, background)

		require.NoError(t, err)
		img := decodeCardPNG(t, data)
		assert.Equal(t, cardWidth, img.Bounds().Dx())
		assert.Equal(t, cardHeight, img.Bounds().Dy())
	})

	t.Run("renders long quotes in the smaller face", func(t *testing.T) {
		long := strings.Repeat("Choose not to be harmed and you will not feel harmed. ", 5)
		quote := testQuote(t, long)

		data, err := renderer.Render(quote, nil)

		require.NoError(t, err)
		decodeCardPNG(t, data)
	})
}

func TestScaleToCover(t *testing.T) {
	t.Run("wide source fills tall target", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 200, 50))

		got := scaleToCover(src, 100, 100)

		assert.Equal(t, 100, got.Bounds().Dx())
		assert.Equal(t, 100, got.Bounds().Dy())
	})

	t.Run("tall source fills wide target", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 50, 200))

		got := scaleToCover(src, 120, 60)

		assert.Equal(t, 120, got.Bounds().Dx())
		assert.Equal(t, 60, got.Bounds().Dy())
	})
}

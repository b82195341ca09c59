package card

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/phrazzld/sophia-api/internal/domain"
)

// Card canvas dimensions, landscape to match the image chain's orientation.
const (
	cardWidth  = 1200
	cardHeight = 630
	textMargin = 80

	// Quotes longer than this many runes drop to the smaller face so the
	// wrapped block stays inside the canvas.
	longQuoteRunes = 160
)

// Renderer draws quote cards onto a fixed-size canvas.
type Renderer struct {
	quoteFace      font.Face
	quoteFaceSmall font.Face
	authorFace     font.Face
}

// NewRenderer parses the bundled Go fonts and prepares the faces used for
// quote and attribution text.
func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse italic font: %w", err)
	}

	quoteFace, err := newFace(regular, 52)
	if err != nil {
		return nil, err
	}
	quoteFaceSmall, err := newFace(regular, 38)
	if err != nil {
		return nil, err
	}
	authorFace, err := newFace(italic, 30)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		quoteFace:      quoteFace,
		quoteFaceSmall: quoteFaceSmall,
		authorFace:     authorFace,
	}, nil
}

func newFace(ft *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %.0fpt font face: %w", size, err)
	}
	return face, nil
}

// Render draws the card and encodes it as PNG. A nil background gets the
// gradient backdrop.
func (r *Renderer) Render(quote *domain.Quote, background image.Image) ([]byte, error) {
	if quote == nil {
		return nil, errors.New("quote cannot be nil")
	}

	dc := gg.NewContext(cardWidth, cardHeight)

	r.drawBackground(dc, background)

	// Scrim keeps white text readable over any background
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRectangle(0, 0, cardWidth, cardHeight)
	dc.Fill()

	face := r.quoteFace
	if utf8.RuneCountInString(quote.Text) > longQuoteRunes {
		face = r.quoteFaceSmall
	}
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	maxWidth := float64(cardWidth - 2*textMargin)
	dc.DrawStringWrapped(
		"“"+quote.Text+"”",
		cardWidth/2, cardHeight/2-30,
		0.5, 0.5,
		maxWidth, 1.5,
		gg.AlignCenter,
	)

	if quote.Author != "" {
		dc.SetFontFace(r.authorFace)
		dc.SetRGBA(1, 1, 1, 0.85)
		dc.DrawStringAnchored("— "+quote.Author, cardWidth/2, cardHeight-90, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) drawBackground(dc *gg.Context, background image.Image) {
	if background == nil {
		grad := gg.NewLinearGradient(0, 0, 0, cardHeight)
		grad.AddColorStop(0, color.RGBA{R: 0x2b, G: 0x2d, B: 0x42, A: 0xff})
		grad.AddColorStop(1, color.RGBA{R: 0x0f, G: 0x10, B: 0x1c, A: 0xff})
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, cardWidth, cardHeight)
		dc.Fill()
		return
	}

	dc.DrawImage(scaleToCover(background, cardWidth, cardHeight), 0, 0)
}

// scaleToCover resizes src so it covers a w x h canvas, cropping overflow
// equally on both sides.
func scaleToCover(src image.Image, w, h int) image.Image {
	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	if sw == 0 || sh == 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	scale := math.Max(float64(w)/float64(sw), float64(h)/float64(sh))
	tw := int(float64(sw)*scale + 0.5)
	th := int(float64(sh)*scale + 0.5)
	offX := (w - tw) / 2
	offY := (h - th) / 2

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, image.Rect(offX, offY, offX+tw, offY+th), src, bounds, draw.Over, nil)
	return dst
}

// Package composer renders album art and track metadata onto the output
// canvas.
package composer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"coverd/internal/domain"
)

const (
	jpegQuality = 85

	// Split layout: art takes at most 70% of the canvas width, flush right.
	artWidthRatio = 0.7

	textLeft      = 40
	textTop       = 20
	artMargin     = 80 // gap reserved between wrapped text and the art
	labelAdvance  = 35
	largeAdvance  = 45
	mediumAdvance = 38
	sectionGap    = 10

	largeSize  = 36
	mediumSize = 28
	smallSize  = 24
	fontDPI    = 72
)

var (
	backgroundColor = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	labelColor      = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	primaryColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	secondaryColor  = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// Renderer composites album art with wrapped metadata text. Faces are parsed
// once at construction and shared by all renders.
type Renderer struct {
	logger *zap.Logger
	large  font.Face
	medium font.Face
	small  font.Face
}

// New creates a renderer backed by the embedded Go fonts.
func New(logger *zap.Logger) (*Renderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	large, err := newFace(bold, largeSize)
	if err != nil {
		return nil, err
	}
	medium, err := newFace(regular, mediumSize)
	if err != nil {
		return nil, err
	}
	small, err := newFace(regular, smallSize)
	if err != nil {
		return nil, err
	}

	return &Renderer{logger: logger, large: large, medium: medium, small: small}, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %gpt face: %w", size, err)
	}
	return face, nil
}

// Render produces the encoded output bitmap. With metadata it builds the
// split layout; without, a plain aspect-preserving scale to fit the canvas.
func (r *Renderer) Render(artData []byte, size domain.CanvasSize, meta *domain.Track) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(artData))
	if err != nil {
		return nil, fmt.Errorf("decode art: %w", err)
	}

	if meta == nil || (meta.Artist == "" && meta.Album == "" && meta.Title == "") {
		fitted := imaging.Fit(img, size.Width, size.Height, imaging.Lanczos)
		return encodeJPEG(fitted)
	}
	return r.composite(img, size, meta)
}

func (r *Renderer) composite(img image.Image, size domain.CanvasSize, meta *domain.Track) ([]byte, error) {
	artMaxWidth := int(float64(size.Width) * artWidthRatio)
	scaled := imaging.Fit(img, artMaxWidth, size.Height, imaging.Lanczos)
	artBounds := scaled.Bounds()

	// Art flush to the right edge, vertically centered.
	artX := size.Width - artBounds.Dx()
	artY := (size.Height - artBounds.Dy()) / 2

	canvas := imaging.New(size.Width, size.Height, backgroundColor)
	out := imaging.Paste(canvas, scaled, image.Pt(artX, artY))

	maxTextWidth := artX - artMargin

	blocks := []struct {
		label   string
		text    string
		face    font.Face
		advance int
		col     color.Color
	}{
		{"Artist:", meta.Artist, r.large, largeAdvance, primaryColor},
		{"Album:", meta.Album, r.medium, mediumAdvance, secondaryColor},
		{"Track:", meta.Title, r.medium, mediumAdvance, secondaryColor},
	}

	y := textTop
	first := true
	for _, blk := range blocks {
		if blk.text == "" {
			continue
		}
		if !first {
			y += sectionGap
		}
		first = false

		drawString(out, r.small, labelColor, textLeft, y, blk.label)
		y += labelAdvance
		for _, line := range WrapText(blk.face, blk.text, maxTextWidth) {
			drawString(out, blk.face, blk.col, textLeft, y, line)
			y += blk.advance
		}
	}

	r.logger.Debug("composited canvas",
		zap.Int("width", size.Width),
		zap.Int("height", size.Height),
		zap.Int("artWidth", artBounds.Dx()),
		zap.Int("artHeight", artBounds.Dy()))

	return encodeJPEG(out)
}

// drawString draws s with its top edge at y, converting to the baseline the
// drawer expects.
func drawString(dst draw.Image, face font.Face, col color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode canvas: %w", err)
	}
	return buf.Bytes(), nil
}

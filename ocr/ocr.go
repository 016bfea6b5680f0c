// Package ocr recognizes scanned page images into the positioned text model
// used for redaction matching.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"math"

	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"

	"github.com/ivanvanderbyl/pdfredact"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for OCR recognition, e.g. "eng", "fra".
func (c *Client) SetLanguage(langs ...string) error {
	return c.client.SetLanguage(langs...)
}

// RecognizePage performs OCR on image data (PNG, TIFF, JPEG, etc.) and returns
// the recognized characters as a page. Coordinates are image pixels.
func (c *Client) RecognizePage(imageData []byte, pageNumber int) (pdfredact.Page, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return pdfredact.Page{}, errors.Wrap(err, "failed to set image")
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return pdfredact.Page{}, errors.Wrap(err, "failed to recognize symbols")
	}

	symbols := make([]symbol, 0, len(boxes))
	for _, b := range boxes {
		symbols = append(symbols, symbol{
			text: b.Word,
			box: pdfredact.Rect{
				X0: float64(b.Box.Min.X),
				Y0: float64(b.Box.Min.Y),
				X1: float64(b.Box.Max.X),
				Y1: float64(b.Box.Max.Y),
			},
		})
	}

	var width, height float64
	for _, s := range symbols {
		width = math.Max(width, s.box.X1)
		height = math.Max(height, s.box.Y1)
	}

	return pdfredact.NewPage(pageNumber, width, height, symbolsToGlyphs(symbols)), nil
}

// RecognizeDocument recognizes one image per page.
func (c *Client) RecognizeDocument(images [][]byte) (*pdfredact.Document, error) {
	doc := &pdfredact.Document{}
	for i, img := range images {
		page, err := c.RecognizePage(img, i+1)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to recognize page %d", i+1)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// symbol is one Tesseract symbol-level result.
type symbol struct {
	text string
	box  pdfredact.Rect
}

// wordGapRatio is the horizontal gap, relative to symbol height, above which
// two consecutive symbols on a line are treated as separate words.
const wordGapRatio = 0.3

// symbolsToGlyphs converts symbols to glyphs. Tesseract doesn't report spaces,
// so a space glyph is inserted wherever consecutive symbols on the same line
// leave a word-sized gap.
func symbolsToGlyphs(symbols []symbol) []pdfredact.Glyph {
	var glyphs []pdfredact.Glyph
	for i, s := range symbols {
		if i > 0 {
			prev := symbols[i-1].box
			h := math.Max(prev.Height(), s.box.Height())
			sameLine := math.Abs(prev.Y1-s.box.Y1) < 0.5*h
			if sameLine && s.box.X0-prev.X1 > wordGapRatio*h {
				glyphs = append(glyphs, pdfredact.Glyph{
					Text:     ' ',
					Box:      pdfredact.Rect{X0: prev.X1, Y0: s.box.Y0, X1: s.box.X0, Y1: s.box.Y1},
					FontSize: h,
				})
			}
		}

		// A symbol may carry more than one rune (combining marks); split the box evenly.
		runes := []rune(s.text)
		if len(runes) == 0 {
			continue
		}
		step := s.box.Width() / float64(len(runes))
		for j, r := range runes {
			glyphs = append(glyphs, pdfredact.Glyph{
				Text: r,
				Box: pdfredact.Rect{
					X0: s.box.X0 + float64(j)*step,
					Y0: s.box.Y0,
					X1: s.box.X0 + float64(j+1)*step,
					Y1: s.box.Y1,
				},
				FontSize: s.box.Height(),
			})
		}
	}
	return glyphs
}

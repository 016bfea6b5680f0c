package pdfredact

import (
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// ExtractPage extracts all positioned text from a PDF page.
func ExtractPage(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int) (*Page, error) {
	// Get page dimensions
	pageWidth, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	pageHeight, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	// Load text page
	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}

	width := float64(pageWidth.PageWidth)
	height := float64(pageHeight.PageHeight)

	if charCount.Count == 0 {
		return &Page{
			Number: pageNumber,
			Width:  width,
			Height: height,
		}, nil
	}

	glyphs, err := extractGlyphs(instance, textPage.TextPage, charCount.Count, height)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract characters")
	}

	result := NewPage(pageNumber, width, height, glyphs)
	return &result, nil
}

// extractGlyphs extracts every character with its bounding box and font size.
func extractGlyphs(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageHeight float64) ([]Glyph, error) {
	glyphs := make([]Glyph, 0, count)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		r := rune(unicodeRes.Unicode)
		// pdfium reports hard line breaks as characters; lines are rebuilt from geometry.
		if r == '\r' || r == '\n' {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		// Convert PDF coordinates (origin bottom-left) to standard (origin top-left)
		box := Rect{
			X0: charBox.Left,
			Y0: pageHeight - charBox.Top,
			X1: charBox.Right,
			Y1: pageHeight - charBox.Bottom,
		}

		fontSize, err := instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		})
		fontSizeVal := 12.0 // Default
		if err == nil {
			fontSizeVal = fontSize.FontSize
		}

		glyphs = append(glyphs, Glyph{
			Text:     r,
			Box:      box,
			FontSize: fontSizeVal,
		})
	}

	return glyphs, nil
}

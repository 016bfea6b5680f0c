package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/ivanvanderbyl/pdfredact"
	"github.com/ivanvanderbyl/pdfredact/ocr"
	"github.com/ivanvanderbyl/pdfredact/pdftext"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfredact",
		Usage: "Find bracketed text to redact in PDFs, scans and text files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input file path (.pdf, .txt, .png, .jpg, .tif)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output report file path (default: stdout)",
			},
			&cli.BoolFlag{
				Name:  "square",
				Usage: "Match [square] brackets",
			},
			&cli.BoolFlag{
				Name:  "curved",
				Usage: "Match (curved) brackets",
			},
			&cli.BoolFlag{
				Name:  "curly",
				Usage: "Match {curly} brackets",
			},
			&cli.BoolFlag{
				Name:  "fold-width",
				Usage: "Treat full-width brackets as ASCII brackets",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format: markdown or text",
				Value: "markdown",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "PDF text engine: pdfium or pure",
				Value: "pdfium",
			},
			&cli.IntFlag{
				Name:  "start-page",
				Usage: "Start page number (0-indexed, pdfium only)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "end-page",
				Usage: "End page number (0-indexed, pdfium only)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Log extraction timing and statistics",
			},
		},
		Action: scan,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func scan(_ context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	outputPath := cmd.String("output")

	config := pdfredact.Config{
		Brackets: pdfredact.BracketConfig{
			Square:    cmd.Bool("square"),
			Curved:    cmd.Bool("curved"),
			Curly:     cmd.Bool("curly"),
			FoldWidth: cmd.Bool("fold-width"),
		},
		EnableMetricsLogging: cmd.Bool("metrics"),
	}
	if !config.Brackets.Any() {
		config.Brackets.Square = true
	}

	result, err := scanInput(cmd, inputPath, config)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Found %d matches on %d pages\n", len(result.Matches), len(result.Document.Pages))

	var report string
	switch cmd.String("format") {
	case "markdown":
		report = pdfredact.RenderMarkdown(result.Matches)
	case "text":
		report = renderText(result.Matches)
	default:
		return fmt.Errorf("unknown format %q", cmd.String("format"))
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	} else {
		fmt.Println(report)
	}

	return nil
}

func scanInput(cmd *cli.Command, inputPath string, config pdfredact.Config) (*pdfredact.ScanResult, error) {
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".txt":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		doc := pdfredact.NewPlainTextDocument(string(data))
		return pdfredact.NewRedactorWithConfig(nil, config).ScanDocument(doc), nil

	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		client, err := ocr.New()
		if err != nil {
			return nil, fmt.Errorf("failed to initialise OCR: %w", err)
		}
		defer client.Close()

		page, err := client.RecognizePage(data, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize image: %w", err)
		}
		doc := &pdfredact.Document{Pages: []pdfredact.Page{page}}
		return pdfredact.NewRedactorWithConfig(nil, config).ScanDocument(doc), nil
	}

	if cmd.String("engine") == "pure" {
		doc, err := pdftext.Load(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load PDF: %w", err)
		}
		return pdfredact.NewRedactorWithConfig(nil, config).ScanDocument(doc), nil
	}

	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return nil, fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	redactor := pdfredact.NewRedactorWithConfig(instance, config)

	startPage := cmd.Int("start-page")
	endPage := cmd.Int("end-page")
	if startPage >= 0 || endPage >= 0 {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", pageRangeLabel(startPage, endPage))
		return redactor.ScanPageRange(inputPath, startPage, endPage)
	}

	fmt.Fprintf(os.Stderr, "Scanning all pages...\n")
	return redactor.ScanFile(inputPath)
}

// pageRangeLabel describes a 0-indexed page range using 1-indexed page numbers.
// Negative bounds stand for the first and last page.
func pageRangeLabel(startPage, endPage int) string {
	start := "1"
	if startPage >= 0 {
		start = strconv.Itoa(startPage + 1)
	}
	end := "end"
	if endPage >= 0 {
		end = strconv.Itoa(endPage + 1)
	}
	return fmt.Sprintf("pages %s to %s", start, end)
}

func renderText(matches []pdfredact.RuleMatch) string {
	var sb strings.Builder
	for i, m := range matches {
		text := strings.NewReplacer("\n", `\n`, "\f", `\f`).Replace(m.Text)
		fmt.Fprintf(&sb, "%d\t%s\t%s\t%s\n", i+1, m.Rule, m.Kind, text)
		for _, z := range m.Region {
			r := z.Rect()
			fmt.Fprintf(&sb, "\tpage %d line %d: (%.1f, %.1f) - (%.1f, %.1f)\n", z.Page, z.Line+1, r.X0, r.Y0, r.X1, r.Y1)
		}
	}
	return sb.String()
}

package pdfredact

import (
	"io"
	"log"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// ProcessingMetrics contains timing and statistics for a scan
type ProcessingMetrics struct {
	TotalTime       time.Duration
	DocumentOpen    time.Duration
	MatchTime       time.Duration
	PageExtractions []PageMetrics
	Statistics      DocumentStatistics
}

// PageMetrics contains timing for a single page
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
}

// DocumentStatistics contains document-level statistics
type DocumentStatistics struct {
	TotalPages       int
	TotalLines       int
	TotalCharacters  int
	MedianLineHeight float64
	MatchesByRule    map[string]int
	Clues            int
}

// Config controls which candidates a Redactor looks for.
type Config struct {
	// Brackets selects the bracket kinds to match (default: square only)
	Brackets BracketConfig

	// Concurrent scans each bracket kind on its own goroutine (default: false)
	Concurrent bool

	// EnableMetricsLogging enables processing time and statistics logging (default: false)
	EnableMetricsLogging bool
}

// DefaultConfig returns the default redactor configuration.
func DefaultConfig() Config {
	return Config{
		Brackets: BracketConfig{Square: true},
	}
}

// ScanResult is the outcome of scanning one document.
type ScanResult struct {
	Document *Document
	Text     *Text
	Matches  []RuleMatch
}

// Redactor finds redaction candidates in PDFs using pdfium text extraction.
type Redactor struct {
	instance pdfium.Pdfium
	config   Config
	rules    []Rule
}

// NewRedactor creates a new redactor with default configuration.
func NewRedactor(instance pdfium.Pdfium) *Redactor {
	return NewRedactorWithConfig(instance, DefaultConfig())
}

// NewRedactorWithConfig creates a new redactor with custom configuration.
func NewRedactorWithConfig(instance pdfium.Pdfium, config Config) *Redactor {
	r := &Redactor{
		instance: instance,
		config:   config,
	}
	if config.Brackets.Any() {
		if config.Concurrent {
			r.rules = append(r.rules, NewConcurrentBracketRule(config.Brackets))
		} else {
			r.rules = append(r.rules, NewBracketRule(config.Brackets))
		}
	}
	return r
}

// AddRule registers an additional rule. Rules run in registration order.
func (r *Redactor) AddRule(rule Rule) {
	r.rules = append(r.rules, rule)
}

// ScanFile scans a PDF file.
func (r *Redactor) ScanFile(filePath string) (*ScanResult, error) {
	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	result, _, err := r.scanDocument(doc.Document)
	return result, err
}

// ScanBytes scans PDF bytes.
func (r *Redactor) ScanBytes(pdfBytes []byte) (*ScanResult, error) {
	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	result, _, err := r.scanDocument(doc.Document)
	return result, err
}

// ScanReader scans a PDF from an io.ReadSeeker.
func (r *Redactor) ScanReader(reader io.ReadSeeker) (*ScanResult, error) {
	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		FileReader: reader,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	result, _, err := r.scanDocument(doc.Document)
	return result, err
}

// ScanPageRange scans a specific range of pages (0-indexed, inclusive).
func (r *Redactor) ScanPageRange(filePath string, startPage, endPage int) (*ScanResult, error) {
	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	startPage, endPage, err = clampPageRange(startPage, endPage, pageCount.PageCount)
	if err != nil {
		return nil, err
	}

	document := &Document{}
	for i := startPage; i <= endPage; i++ {
		page, err := r.extractPage(doc.Document, i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract page %d", i+1)
		}
		document.Pages = append(document.Pages, *page)
	}

	return r.ScanDocument(document), nil
}

// clampPageRange validates a 0-indexed page range against the page count.
// Negative bounds select the first and last page.
func clampPageRange(startPage, endPage, pageCount int) (int, int, error) {
	if startPage < 0 {
		startPage = 0
	}
	if endPage < 0 || endPage >= pageCount {
		endPage = pageCount - 1
	}
	if startPage > endPage {
		return 0, 0, errors.New("invalid page range: start page must be <= end page")
	}
	return startPage, endPage, nil
}

// ScanDocument runs every rule over an already extracted document.
// Matches from all rules are merged by start offset.
func (r *Redactor) ScanDocument(document *Document) *ScanResult {
	text := document.Text()

	return &ScanResult{
		Document: document,
		Text:     text,
		Matches:  runRules(r.rules, text),
	}
}

// scanDocument extracts every page of a PDF and scans the result.
func (r *Redactor) scanDocument(docRef references.FPDF_DOCUMENT) (*ScanResult, ProcessingMetrics, error) {
	startTime := time.Now()

	pageCount, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to get page count")
	}

	document := &Document{
		Pages: make([]Page, 0, pageCount.PageCount),
	}

	var pageMetrics []PageMetrics
	for i := 0; i < pageCount.PageCount; i++ {
		pageStart := time.Now()
		page, err := r.extractPage(docRef, i)
		pageDuration := time.Since(pageStart)

		if err != nil {
			return nil, ProcessingMetrics{}, errors.Wrapf(err, "failed to extract page %d", i+1)
		}
		document.Pages = append(document.Pages, *page)

		pageMetrics = append(pageMetrics, PageMetrics{
			PageNumber: i + 1,
			Duration:   pageDuration,
		})

		if r.config.EnableMetricsLogging {
			log.Printf("Page %d/%d extracted in %v", i+1, pageCount.PageCount, pageDuration)
		}
	}

	matchStart := time.Now()
	result := r.ScanDocument(document)
	matchTime := time.Since(matchStart)

	metrics := ProcessingMetrics{
		TotalTime:       time.Since(startTime),
		MatchTime:       matchTime,
		PageExtractions: pageMetrics,
		Statistics:      calculateDocumentStatistics(document, result.Matches),
	}

	if r.config.EnableMetricsLogging {
		logProcessingMetrics(metrics)
	}

	return result, metrics, nil
}

// extractPage extracts a single page's positioned text.
func (r *Redactor) extractPage(docRef references.FPDF_DOCUMENT, pageIndex int) (*Page, error) {
	pageResp, err := r.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer r.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	page, err := ExtractPage(r.instance, pageResp.Page, pageIndex+1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract page content")
	}

	return page, nil
}

// calculateDocumentStatistics calculates statistics for the document and its matches
func calculateDocumentStatistics(doc *Document, matches []RuleMatch) DocumentStatistics {
	stats := DocumentStatistics{
		TotalPages:    len(doc.Pages),
		MatchesByRule: make(map[string]int),
	}

	var heights []float64
	for _, page := range doc.Pages {
		stats.TotalLines += len(page.Lines)
		for _, line := range page.Lines {
			stats.TotalCharacters += len(line.Glyphs)
			heights = append(heights, line.Height)
		}
	}
	stats.MedianLineHeight = calculateMedian(heights)

	for _, m := range matches {
		if m.IsClue {
			stats.Clues++
			continue
		}
		stats.MatchesByRule[m.Rule]++
	}

	return stats
}

// logProcessingMetrics logs the processing metrics in a readable format
func logProcessingMetrics(metrics ProcessingMetrics) {
	log.Println("┌─────────────────────────────────────────────┐")
	log.Println("│ Redaction Scan Metrics                      │")
	log.Println("├─────────────────────────────────────────────┤")
	log.Printf("│ Total Time: %-31v │\n", metrics.TotalTime.Round(time.Millisecond))
	log.Printf("│ Matching:   %-31v │\n", metrics.MatchTime.Round(time.Microsecond))
	log.Println("├─────────────────────────────────────────────┤")
	log.Println("│ Document Statistics                         │")
	log.Println("├─────────────────────────────────────────────┤")
	log.Printf("│   Pages:      %-29d │\n", metrics.Statistics.TotalPages)
	log.Printf("│   Lines:      %-29d │\n", metrics.Statistics.TotalLines)
	log.Printf("│   Characters: %-29d │\n", metrics.Statistics.TotalCharacters)
	log.Printf("│   Line ht:    %-29.1f │\n", metrics.Statistics.MedianLineHeight)
	log.Printf("│   Clues:      %-29d │\n", metrics.Statistics.Clues)
	for rule, n := range metrics.Statistics.MatchesByRule {
		log.Printf("│   %-10s  %-29d │\n", rule+":", n)
	}
	log.Println("├─────────────────────────────────────────────┤")
	log.Println("│ Per-Page Timing                             │")
	log.Println("├─────────────────────────────────────────────┤")

	for _, pm := range metrics.PageExtractions {
		log.Printf("│   Page %2d: %-30v │\n", pm.PageNumber, pm.Duration.Round(time.Millisecond))
	}

	if len(metrics.PageExtractions) > 0 {
		avgTime := metrics.TotalTime / time.Duration(len(metrics.PageExtractions))
		log.Println("├─────────────────────────────────────────────┤")
		log.Printf("│ Avg per page: %-28v │\n", avgTime.Round(time.Millisecond))
	}

	log.Println("└─────────────────────────────────────────────┘")
}

// ScanFileWithMetrics scans a PDF and returns both the result and metrics
func (r *Redactor) ScanFileWithMetrics(filePath string) (*ScanResult, ProcessingMetrics, error) {
	openStart := time.Now()

	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to open PDF document")
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	documentOpenTime := time.Since(openStart)

	result, metrics, err := r.scanDocument(doc.Document)
	if err != nil {
		return nil, ProcessingMetrics{}, err
	}
	metrics.DocumentOpen = documentOpenTime
	metrics.TotalTime += documentOpenTime

	return result, metrics, nil
}

// GetDocumentInfo returns basic information about a PDF without scanning it.
func (r *Redactor) GetDocumentInfo(filePath string) (*DocumentInfo, error) {
	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	return &DocumentInfo{
		PageCount: pageCount.PageCount,
	}, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
}

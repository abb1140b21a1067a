package presenter

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Paper is a page size in inches.
type Paper struct {
	Width  float64
	Height float64
}

var papers = map[string]Paper{
	"letter": {Width: 8.5, Height: 11},
	"a4":     {Width: 8.27, Height: 11.69},
}

// PaperSize returns the named paper size, defaulting to letter.
func PaperSize(name string) Paper {
	if p, ok := papers[strings.ToLower(name)]; ok {
		return p
	}
	return papers["letter"]
}

// PDFOptions configures headless PDF export.
type PDFOptions struct {
	Paper   Paper
	Timeout time.Duration
}

// chromiumAvailable reports whether a headless browser binary is installed.
func chromiumAvailable() bool {
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// percentEncodeForDataURL encodes s for use in a data URL. Spaces become
// %20, never +.
func percentEncodeForDataURL(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == '~':
			sb.WriteRune(r)
		default:
			for _, b := range []byte(string(r)) {
				fmt.Fprintf(&sb, "%%%02X", b)
			}
		}
	}
	return sb.String()
}

// ExportPDF prints an exported HTML document to PDF with headless Chrome.
func ExportPDF(ctx context.Context, doc *Result, opts PDFOptions) (*Result, error) {
	if !chromiumAvailable() {
		return nil, fmt.Errorf("%w: chromium not installed", ErrPDFDependencyMissing)
	}
	if opts.Paper.Width == 0 {
		opts.Paper = PaperSize("letter")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dataURL := "data:text/html;charset=utf-8," + percentEncodeForDataURL(string(doc.Data))

	var pdfData []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(opts.Paper.Width).
				WithPaperHeight(opts.Paper.Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome pdf generation failed: %w", err)
	}

	return &Result{
		Data:     pdfData,
		Filename: strings.TrimSuffix(doc.Filename, ".html") + ".pdf",
		MimeType: "application/pdf",
	}, nil
}

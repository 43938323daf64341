package report

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Filename is the download name of every generated report.
const Filename = "experimentation-maturity-report.pdf"

// ErrPDFDependencyMissing is returned when no Chrome binary can be found.
var ErrPDFDependencyMissing = errors.New("pdf renderer dependency missing")

// Document is a rendered report.
type Document struct {
	Data     []byte
	Filename string
	MimeType string
}

// Renderer produces a PDF for a bundle.
type Renderer interface {
	Render(ctx context.Context, b Bundle) (*Document, error)
}

// chromeCandidates are probed in order when no explicit path is set.
var chromeCandidates = []string{
	"chromium-browser",
	"chromium",
	"google-chrome",
	"google-chrome-stable",
}

// ChromeRenderer prints the HTML report with headless Chrome.
type ChromeRenderer struct {
	// ExecPath is the Chrome binary. Empty means search PATH.
	ExecPath string
	// Timeout bounds one render. Zero means 30s.
	Timeout time.Duration
}

func (r ChromeRenderer) execPath() (string, error) {
	if r.ExecPath != "" {
		if _, err := exec.LookPath(r.ExecPath); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrPDFDependencyMissing, r.ExecPath, err)
		}
		return r.ExecPath, nil
	}
	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: chrome or chromium not installed", ErrPDFDependencyMissing)
}

// Render converts the bundle's HTML report to A4 PDF.
func (r ChromeRenderer) Render(ctx context.Context, b Bundle) (*Document, error) {
	html, err := RenderHTML(b)
	if err != nil {
		return nil, err
	}
	path, err := r.execPath()
	if err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dataURL := "data:text/html;charset=utf-8," + percentEncodeForDataURL(html)

	var pdfData []byte
	err = chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27). // A4
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome pdf generation failed: %w", err)
	}

	return &Document{
		Data:     pdfData,
		Filename: Filename,
		MimeType: "application/pdf",
	}, nil
}

// percentEncodeForDataURL encodes s for a data URL. Spaces become %20,
// not the + that url.QueryEscape produces.
func percentEncodeForDataURL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

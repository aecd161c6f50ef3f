package render

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"faktura/internal/config"
	"faktura/internal/domain"
	"faktura/internal/port"
)

// Renderer produces invoice documents. When a Chromium binary is available
// it prints real PDFs through a headless browser; otherwise it degrades to
// serving the HTML itself, which browsers can still display and print.
type Renderer struct {
	company config.CompanyConfig

	mu         sync.Mutex
	browser    *rod.Browser
	checked    bool
	browserBin string
}

// NewRenderer creates a document renderer for the given issuing company.
func NewRenderer(company config.CompanyConfig) *Renderer {
	return &Renderer{company: company}
}

func (r *Renderer) Render(ctx context.Context, invoice *domain.Invoice, client *domain.Client) (*port.RenderResult, error) {
	html, err := InvoiceHTML(r.company, invoice, client)
	if err != nil {
		return nil, err
	}

	baseName := "faktura_" + strings.ReplaceAll(invoice.InvoiceNumber, "/", "_")

	pdf, err := r.htmlToPDF(ctx, html)
	if err != nil {
		log.Printf("render: pdf engine unavailable, serving html: %v", err)
		return &port.RenderResult{
			Content:     []byte(html),
			ContentType: "text/html",
			FileName:    baseName + ".html",
		}, nil
	}

	return &port.RenderResult{
		Content:     pdf,
		ContentType: "application/pdf",
		FileName:    baseName + ".pdf",
	}, nil
}

func (r *Renderer) htmlToPDF(ctx context.Context, html string) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("setting document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for page load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("printing pdf: %w", err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading pdf stream: %w", err)
	}
	return pdf, nil
}

// ensureBrowser lazily launches a shared headless browser. The binary lookup
// result is cached so a host without Chromium fails fast on every render.
func (r *Renderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}
	if !r.checked {
		r.checked = true
		if bin, ok := launcher.LookPath(); ok {
			r.browserBin = bin
		}
	}
	if r.browserBin == "" {
		return nil, fmt.Errorf("no chromium binary found")
	}

	url, err := launcher.New().Bin(r.browserBin).Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chromium: %w", err)
	}
	r.browser = browser
	return r.browser, nil
}

// Close shuts down the shared browser, if one was launched.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

package wttj

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// HeadlessTransport is an http.RoundTripper that renders GET requests in a
// headless Chrome tab and returns the resulting DOM as the response body.
// The board renders its search results client side, so plain HTTP only sees
// the shell page.
type HeadlessTransport struct {
	browser context.Context
	cancel  context.CancelFunc
	settle  time.Duration
	timeout time.Duration
}

func NewHeadlessTransport(ctx context.Context, settle time.Duration) *HeadlessTransport {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if settle <= 0 {
		settle = 1500 * time.Millisecond
	}
	return &HeadlessTransport{
		browser: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		settle:  settle,
		timeout: 25 * time.Second,
	}
}

func (t *HeadlessTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return nil, fmt.Errorf("headless transport: unsupported method %s", req.Method)
	}

	tabCtx, tabCancel := chromedp.NewContext(t.browser)
	defer tabCancel()
	runCtx, runCancel := context.WithTimeout(tabCtx, t.timeout)
	defer runCancel()
	stop := context.AfterFunc(req.Context(), runCancel)
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(req.URL.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(t.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("headless render %s: %w", req.URL, err)
	}

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:          io.NopCloser(strings.NewReader(html)),
		ContentLength: int64(len(html)),
		Request:       req,
	}, nil
}

// Close shuts the browser down.
func (t *HeadlessTransport) Close() {
	if t != nil && t.cancel != nil {
		t.cancel()
	}
}

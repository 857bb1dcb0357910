package imotbg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrNoElement reports that a selector matched nothing. Optional page
// elements (cookie banner, "see more" toggle, form fields the site omits)
// surface this so callers can skip the step instead of failing the run.
var ErrNoElement = errors.New("element not found")

// Page drives a single browser tab. All operations are sequential and block
// until the underlying page operation completes; there is no parallel use of
// one Page. The chromedp implementation is the production driver, tests use
// a scripted fake.
type Page interface {
	Navigate(url string) error
	Back() error
	URL() (string, error)
	Click(selector string) error
	ClickNth(selector string, index int) error
	Fill(selector, value string) error
	SelectValue(selector, value string) error
	AddSelectedOption(selector, value string) error
	Text(selector string) (string, error)
	Attr(selector, name string) (string, error)
	Hrefs(selector string) ([]string, error)
	Count(selector string) (int, error)
	Sleep(d time.Duration)
	Close()
}

// BrowserPage implements Page over a dedicated Chrome tab.
type BrowserPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBrowserPage launches a browser and opens one tab. The caller owns the
// session and must Close it on every exit path.
func NewBrowserPage(headless bool) (*BrowserPage, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}

	// Force the browser process to start now so a broken Chrome install
	// fails the session init, not the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}
	return &BrowserPage{ctx: ctx, cancel: cancel}, nil
}

func (p *BrowserPage) Navigate(url string) error {
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s failed: %w", url, err)
	}
	return nil
}

func (p *BrowserPage) Back() error {
	if err := chromedp.Run(p.ctx, chromedp.NavigateBack()); err != nil {
		return fmt.Errorf("back navigation failed: %w", err)
	}
	return nil
}

func (p *BrowserPage) URL() (string, error) {
	var u string
	if err := chromedp.Run(p.ctx, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("location read failed: %w", err)
	}
	return u, nil
}

// found is the common result shape of the element JS snippets: every snippet
// reports whether the selector matched so absence maps onto ErrNoElement
// instead of a JS exception.
type found struct {
	OK    bool     `json:"ok"`
	Value string   `json:"value"`
	List  []string `json:"list"`
	Count int      `json:"count"`
}

func (p *BrowserPage) eval(js string) (found, error) {
	var res found
	if err := chromedp.Run(p.ctx, chromedp.Evaluate(js, &res)); err != nil {
		return found{}, fmt.Errorf("page script failed: %w", err)
	}
	return res, nil
}

func (p *BrowserPage) Click(selector string) error {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var el = document.querySelector(%q);
			if (!el) return {ok: false};
			el.click();
			return {ok: true};
		})()
	`, selector))
	if err != nil {
		return err
	}
	if !res.OK {
		return ErrNoElement
	}
	return nil
}

func (p *BrowserPage) ClickNth(selector string, index int) error {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var els = document.querySelectorAll(%q);
			if (%d >= els.length) return {ok: false};
			els[%d].click();
			return {ok: true};
		})()
	`, selector, index, index))
	if err != nil {
		return err
	}
	if !res.OK {
		return ErrNoElement
	}
	return nil
}

func (p *BrowserPage) Fill(selector, value string) error {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var el = document.querySelector(%q);
			if (!el) return {ok: false};
			el.value = %q;
			el.dispatchEvent(new Event('input', {bubbles: true}));
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return {ok: true};
		})()
	`, selector, value))
	if err != nil {
		return err
	}
	if !res.OK {
		return ErrNoElement
	}
	return nil
}

func (p *BrowserPage) SelectValue(selector, value string) error {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var el = document.querySelector(%q);
			if (!el) return {ok: false};
			el.value = %q;
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return {ok: true};
		})()
	`, selector, value))
	if err != nil {
		return err
	}
	if !res.OK {
		return ErrNoElement
	}
	return nil
}

// AddSelectedOption appends an already-selected <option> to a select
// control. The site's region control does not pre-list every region, so
// entries must be injected before they can be chosen.
func (p *BrowserPage) AddSelectedOption(selector, value string) error {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var el = document.querySelector(%q);
			if (!el) return {ok: false};
			var option = document.createElement('option');
			option.value = %q;
			option.textContent = %q;
			option.selected = true;
			el.appendChild(option);
			return {ok: true};
		})()
	`, selector, value, value))
	if err != nil {
		return err
	}
	if !res.OK {
		return ErrNoElement
	}
	return nil
}

func (p *BrowserPage) Text(selector string) (string, error) {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var el = document.querySelector(%q);
			if (!el) return {ok: false, value: ''};
			return {ok: true, value: el.textContent || ''};
		})()
	`, selector))
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", ErrNoElement
	}
	return res.Value, nil
}

func (p *BrowserPage) Attr(selector, name string) (string, error) {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var el = document.querySelector(%q);
			if (!el) return {ok: false, value: ''};
			return {ok: true, value: el.getAttribute(%q) || ''};
		})()
	`, selector, name))
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", ErrNoElement
	}
	return res.Value, nil
}

func (p *BrowserPage) Hrefs(selector string) ([]string, error) {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			var list = [];
			document.querySelectorAll(%q).forEach(function(a) {
				list.push(a.getAttribute('href') || '');
			});
			return {ok: true, list: list};
		})()
	`, selector))
	if err != nil {
		return nil, err
	}
	return res.List, nil
}

func (p *BrowserPage) Count(selector string) (int, error) {
	res, err := p.eval(fmt.Sprintf(`
		(function() {
			return {ok: true, count: document.querySelectorAll(%q).length};
		})()
	`, selector))
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (p *BrowserPage) Sleep(d time.Duration) {
	_ = chromedp.Run(p.ctx, chromedp.Sleep(d))
}

func (p *BrowserPage) Close() {
	p.cancel()
}

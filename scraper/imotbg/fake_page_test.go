package imotbg

import (
	"time"
)

// fakeDoc is the scripted content of one URL for the fake page.
type fakeDoc struct {
	texts     map[string]string
	attrs     map[string]map[string]string
	hrefs     map[string][]string
	counts    map[string]int
	clickable map[string]bool
}

// fakePage is an in-memory Page used to exercise the orchestrator without a
// browser. Navigation switches between scripted docs; reads and clicks are
// counted so tests can assert gating behavior.
type fakePage struct {
	docs    map[string]*fakeDoc
	failNav map[string]error

	current    string
	backCalls  int
	navs       []string
	reads      map[string]int
	clicks     map[string]int
	hrefsReads int
	closed     bool
}

func newFakePage() *fakePage {
	return &fakePage{
		docs:    make(map[string]*fakeDoc),
		failNav: make(map[string]error),
		reads:   make(map[string]int),
		clicks:  make(map[string]int),
	}
}

func (p *fakePage) addDoc(url string) *fakeDoc {
	doc := &fakeDoc{
		texts:     make(map[string]string),
		attrs:     make(map[string]map[string]string),
		hrefs:     make(map[string][]string),
		counts:    make(map[string]int),
		clickable: make(map[string]bool),
	}
	p.docs[url] = doc
	return doc
}

func (p *fakePage) doc() *fakeDoc {
	if d, ok := p.docs[p.current]; ok {
		return d
	}
	return &fakeDoc{}
}

func (p *fakePage) Navigate(url string) error {
	p.navs = append(p.navs, url)
	if err, ok := p.failNav[url]; ok {
		return err
	}
	p.current = url
	return nil
}

func (p *fakePage) Back() error {
	p.backCalls++
	return nil
}

func (p *fakePage) URL() (string, error) {
	return p.current, nil
}

func (p *fakePage) Click(selector string) error {
	if !p.doc().clickable[selector] {
		return ErrNoElement
	}
	p.clicks[selector]++
	return nil
}

func (p *fakePage) ClickNth(selector string, index int) error {
	if index >= p.doc().counts[selector] {
		return ErrNoElement
	}
	p.clicks[selector]++
	return nil
}

func (p *fakePage) Fill(selector, value string) error {
	if !p.doc().clickable[selector] {
		return ErrNoElement
	}
	return nil
}

func (p *fakePage) SelectValue(selector, value string) error {
	if !p.doc().clickable[selector] {
		return ErrNoElement
	}
	return nil
}

func (p *fakePage) AddSelectedOption(selector, value string) error {
	if !p.doc().clickable[selector] {
		return ErrNoElement
	}
	return nil
}

func (p *fakePage) Text(selector string) (string, error) {
	p.reads[selector]++
	text, ok := p.doc().texts[selector]
	if !ok {
		return "", ErrNoElement
	}
	return text, nil
}

func (p *fakePage) Attr(selector, name string) (string, error) {
	attrs, ok := p.doc().attrs[selector]
	if !ok {
		return "", ErrNoElement
	}
	return attrs[name], nil
}

func (p *fakePage) Hrefs(selector string) ([]string, error) {
	p.hrefsReads++
	return p.doc().hrefs[selector], nil
}

func (p *fakePage) Count(selector string) (int, error) {
	return p.doc().counts[selector], nil
}

func (p *fakePage) Sleep(time.Duration) {}

func (p *fakePage) Close() {
	p.closed = true
}

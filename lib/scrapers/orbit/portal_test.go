package orbit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"orbitcal-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
)

// fakePortal simulates the WebForms schedule page: it issues a fresh
// view-state pair on every render and rejects postbacks that echo a
// stale one, the way the real server does.
type fakePortal struct {
	t     *testing.T
	pages []portalPage

	mu            sync.Mutex
	stateCounter  int
	currentState  string
	filterFields  map[string]string
	requestCount  int
	failuresLeft  int
	failureStatus int
	postStatus    int
}

type portalPage struct {
	rows [][]string
	// hrefs of pagination anchors rendered in the pager row, paired
	// with their visible text
	pagerAnchors []pagerAnchor
}

type pagerAnchor struct {
	href string
	text string
}

func postbackHref(page int) string {
	return fmt.Sprintf("javascript:__doPostBack('ctl00$ContentPlaceHolder1$gvData','Page$%d')", page)
}

func newFakePortal(t *testing.T, pages []portalPage) *fakePortal {
	return &fakePortal{t: t, pages: pages}
}

// failNext makes the next n requests return the given status before
// recovering.
func (p *fakePortal) failNext(n, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failuresLeft = n
	p.failureStatus = status
}

// failPosts makes every subsequent POST return the given status while
// GET keeps working, simulating a server that rejects postbacks.
func (p *fakePortal) failPosts(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.postStatus = status
}

func (p *fakePortal) render(page int) string {
	p.stateCounter++
	p.currentState = fmt.Sprintf("vs-%d", p.stateCounter)

	var b strings.Builder
	b.WriteString("<html><body><form>")
	fmt.Fprintf(&b, `<input type="hidden" name="__VIEWSTATE" value="%s"/>`, p.currentState)
	fmt.Fprintf(&b, `<input type="hidden" name="__EVENTVALIDATION" value="ev-%d"/>`, p.stateCounter)
	b.WriteString(`<table class="GridView"><tr><th>date</th><th>name</th></tr>`)

	pg := p.pages[page-1]
	for _, row := range pg.rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}

	if len(pg.pagerAnchors) > 0 {
		b.WriteString(`<tr class="GridPager"><td><table><tr>`)
		for _, a := range pg.pagerAnchors {
			if a.href == "" {
				fmt.Fprintf(&b, "<td><span>%s</span></td>", a.text)
				continue
			}
			fmt.Fprintf(&b, `<td><a href="%s">%s</a></td>`, a.href, a.text)
		}
		b.WriteString("</tr></table></td></tr>")
	}

	b.WriteString("</table></form></body></html>")
	return b.String()
}

func (p *fakePortal) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.requestCount++

		if p.failuresLeft > 0 {
			p.failuresLeft--
			w.WriteHeader(p.failureStatus)
			return
		}

		if r.Method == http.MethodGet {
			fmt.Fprint(w, p.render(1))
			return
		}
		if p.postStatus != 0 {
			w.WriteHeader(p.postStatus)
			return
		}

		if err := r.ParseForm(); err != nil {
			p.t.Errorf("unparseable form body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.PostFormValue("__VIEWSTATE"); got != p.currentState {
			p.t.Errorf("postback carried stale view-state %q, want %q", got, p.currentState)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if _, ok := r.PostForm["__LASTFOCUS"]; !ok {
			p.t.Error("postback missing __LASTFOCUS")
		}

		target := r.PostFormValue("__EVENTTARGET")
		if target == "" {
			// filter form submission
			p.filterFields = map[string]string{}
			for k, vs := range r.PostForm {
				if !strings.HasPrefix(k, "__") {
					p.filterFields[k] = vs[0]
				}
			}
			fmt.Fprint(w, p.render(1))
			return
		}

		if target != DefaultGridControlId {
			p.t.Errorf("postback addressed to %q, want %q", target, DefaultGridControlId)
		}
		arg := r.PostFormValue("__EVENTARGUMENT")
		pageNum, err := strconv.Atoi(strings.TrimPrefix(arg, "Page$"))
		if err != nil {
			p.t.Errorf("bad event argument %q", arg)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if pageNum > len(p.pages) {
			// the real server re-serves the last page when asked past
			// the end
			pageNum = len(p.pages)
		}
		fmt.Fprint(w, p.render(pageNum))
	})
}

func (p *fakePortal) serve() *httptest.Server {
	srv := httptest.NewServer(p.handler())
	p.t.Cleanup(srv.Close)
	return srv
}

func telemetrySetup(t *testing.T) func() {
	return telemetry.SetupForTesting(t, "scrapers/orbit")
}

func serveStatic(t *testing.T, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func parseTestDocument(t *testing.T, body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// fivePages builds a well-behaved dataset: pages 1..4 list the literal
// next-page anchor, page 5 has none.
func fivePages() []portalPage {
	pages := make([]portalPage, 5)
	for i := 0; i < 5; i++ {
		pages[i] = portalPage{
			rows: [][]string{
				{fmt.Sprintf("0%d/01/2026", i+1), fmt.Sprintf("course %d", i+1)},
			},
		}
		if i < 4 {
			pages[i].pagerAnchors = []pagerAnchor{
				{text: strconv.Itoa(i + 1)},
				{href: postbackHref(i + 2), text: strconv.Itoa(i + 2)},
			}
		}
	}
	return pages
}

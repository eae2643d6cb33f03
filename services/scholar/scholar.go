// Package scholar parses Google Scholar result pages: it pulls the title
// link out of every primary result card and cross-checks the number of
// extracted links against the total the page reports.
package scholar

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"profharvest/lib/fetchutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("profharvest/services/scholar")

// scholar shows at most this many results per page
const pageSize = 10

// ResultsPage is one parsed search-results page.
type ResultsPage struct {
	HTML  string
	Links []string
	// ReportedTotal is the result count the page header claims,
	// TotalKnown is false when no header was found.
	ReportedTotal int
	TotalKnown    bool
}

// ExtractResults returns the title-anchor link of every primary result
// card, in document order. The gs_r/gs_or/gs_scl class combination
// distinguishes real search hits from sidebar and profile blocks. Cards
// without a title anchor are ignored. Links starting with a path
// separator are resolved against the base url; duplicates are kept.
func ExtractResults(html string, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("div.gs_r.gs_or.gs_scl").Each(func(_ int, card *goquery.Selection) {
		anchor := card.Find("h3.gs_rt a").First()
		if anchor.Length() == 0 {
			return
		}
		href := anchor.AttrOr("href", "")
		if href == "" {
			return
		}

		if strings.HasPrefix(href, "/") && base != nil {
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			href = base.ResolveReference(ref).String()
		}
		links = append(links, href)
	})

	return links, nil
}

var reportedTotalRe = regexp.MustCompile(`(?i)(?:About\s+)?([\d,.\x{00a0}\s]+)\s*results?`)

// ReportedTotal parses the "About N results" summary header. The second
// return value is false when the page carries no such header.
func ReportedTotal(html string) (int, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false
	}

	header := doc.Find("div.gs_ab_mdw").Text()
	if header == "" {
		header = doc.Find("#gs_ab_md").Text()
	}

	groups := reportedTotalRe.FindStringSubmatch(header)
	if len(groups) < 2 {
		return 0, false
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, groups[1])

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// VerifyCount checks the number of extracted links against the reported
// total, capped at one page worth of results. A false return indicates
// structural drift on the source page, it is up to the caller to surface
// it; extraction output stays usable either way.
func (p ResultsPage) VerifyCount() (expected int, ok bool) {
	if !p.TotalKnown {
		return len(p.Links), true
	}
	expected = p.ReportedTotal
	if expected > pageSize {
		expected = pageSize
	}
	return expected, len(p.Links) == expected
}

type Client struct {
	fetcher fetchutil.Fetcher
}

func NewClient(fetcher fetchutil.Fetcher) Client {
	return Client{fetcher: fetcher}
}

// FetchResults fetches a faculty member's search-results page and parses
// it into a ResultsPage. Relative result links are resolved against the
// search url itself.
func (c Client) FetchResults(ctx context.Context, searchURL string) (ResultsPage, error) {
	ctx, span := tracer.Start(ctx, "client:FetchResults")
	defer span.End()

	html, err := c.fetcher.Get(ctx, searchURL)
	if err != nil {
		return ResultsPage{}, err
	}

	base, err := url.Parse(searchURL)
	if err != nil {
		base = nil
	}

	links, err := ExtractResults(html, base)
	if err != nil {
		return ResultsPage{}, err
	}

	total, known := ReportedTotal(html)
	return ResultsPage{
		HTML:          html,
		Links:         links,
		ReportedTotal: total,
		TotalKnown:    known,
	}, nil
}

// FetchDocument fetches one harvested result link.
func (c Client) FetchDocument(ctx context.Context, link string) (string, error) {
	return c.fetcher.Get(ctx, link)
}

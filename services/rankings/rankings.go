// Package rankings scrapes the CS Open Rankings front page and matches
// a free-text query against the universities listed there.
package rankings

import (
	"context"
	"strings"

	"profharvest/lib/fetchutil"
	"profharvest/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("profharvest/services/rankings")

// Institution is one row of the rankings table.
type Institution struct {
	ID   string
	Name string
}

type Client struct {
	fetcher fetchutil.Fetcher
	baseURL string
}

func NewClient(fetcher fetchutil.Fetcher, baseURL string) Client {
	return Client{fetcher: fetcher, baseURL: baseURL}
}

func (c Client) FetchInstitutions(ctx context.Context) ([]Institution, error) {
	ctx, span := tracer.Start(ctx, "client:FetchInstitutions")
	defer span.End()

	html, err := c.fetcher.Get(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}
	return ParseInstitutions(html)
}

// ParseInstitutions extracts one Institution per direct row of the main
// rankings table body. Rows without an id are skipped, as are the
// expandable per-subfield detail rows (their id carries a " dropdown"
// suffix). A page without the table body yields an empty list rather
// than an error.
func ParseInstitutions(html string) ([]Institution, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	tbody := doc.Find("tbody#tablebody").First()
	if tbody.Length() == 0 {
		return nil, nil
	}

	var institutions []Institution
	tbody.ChildrenFiltered("tr").Each(func(_ int, row *goquery.Selection) {
		id := row.AttrOr("id", "")
		if id == "" {
			return
		}
		if strings.Contains(id, " dropdown") {
			return
		}

		cells := row.ChildrenFiltered("td")
		if cells.Length() < 2 {
			return
		}

		name := cleanUniversityCell(cells.Eq(1))
		if name == "" {
			return
		}

		institutions = append(institutions, Institution{ID: id, Name: name})
	})

	return institutions, nil
}

// the university cell contains the name plus a "+" span used to expand
// the row, which has to go before the display text is read
func cleanUniversityCell(cell *goquery.Selection) string {
	cell = cell.Clone()
	cell.Find("span").Remove()
	return htmlutil.CleanText(cell.Text())
}

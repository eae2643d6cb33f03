// Package roster loads the per-school faculty dataset that the rankings
// site ships as a javascript object literal, and filters it down to the
// research subfields of interest.
package roster

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"profharvest/lib/fetchutil"

	"github.com/titanous/json5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("profharvest/services/roster")

// ErrMalformedData signals that the embedded dataset did not parse after
// the declaration syntax was stripped. This means the upstream format
// changed and there is no point in retrying.
var ErrMalformedData = errors.New("embedded faculty data is malformed")

// Professor is one faculty entry of a school block.
type Professor struct {
	Name          string `json:"name"`
	Subfield      string `json:"subfield"`
	GoogleScholar string `json:"google scholar"`
}

// Dataset maps institution name to a block of keyed professor entries.
type Dataset map[string]map[string]Professor

// AllowedSubfields is the fixed set of research-area tags a professor
// must carry to survive filtering.
var AllowedSubfields = []string{"ai", "vision", "ir", "mlmining", "nlp"}

// StripDeclaration reduces a javascript declaration of the shape
//
//	let NAME = { ... };
//	export { NAME };
//
// to the bare object literal. The declaration prefix and the export
// clause are both anchored on the declared variable name, so unrelated
// declarations are left alone and surface as a parse failure later
// instead of silently corrupting the payload.
func StripDeclaration(src string, varName string) string {
	name := regexp.QuoteMeta(varName)
	declPrefix := regexp.MustCompile(`\b(?:let|var|const)\s+` + name + `\s*=\s*`)
	exportSuffix := regexp.MustCompile(`export\s*\{\s*` + name + `\s*\}\s*;?`)

	src = declPrefix.ReplaceAllString(src, "")
	src = exportSuffix.ReplaceAllString(src, "")
	src = strings.TrimSpace(src)
	return strings.TrimSuffix(src, ";")
}

// LoadScriptObject strips the declaration syntax off a fetched script
// blob and parses the remaining object literal into a Dataset.
func LoadScriptObject(src string, varName string) (Dataset, error) {
	var dataset Dataset
	err := json5.Unmarshal([]byte(StripDeclaration(src, varName)), &dataset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return dataset, nil
}

type Client struct {
	fetcher fetchutil.Fetcher
	url     string
	varName string
}

func NewClient(fetcher fetchutil.Fetcher, url, varName string) Client {
	return Client{fetcher: fetcher, url: url, varName: varName}
}

func (c Client) FetchDataset(ctx context.Context) (Dataset, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDataset")
	defer span.End()

	src, err := c.fetcher.Get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	return LoadScriptObject(src, c.varName)
}

// FilterFaculty returns the professors of one institution whose subfield
// is in the allow-list, sorted ascending by name. The lookup is an exact
// name match: the dataset keys mirror the names shown in the rankings
// table. A missing block is an empty roster, not an error.
func FilterFaculty(dataset Dataset, institution string) []Professor {
	block, ok := dataset[institution]
	if !ok {
		return nil
	}

	var result []Professor
	for _, prof := range block {
		if !subfieldAllowed(prof.Subfield) {
			continue
		}
		result = append(result, prof)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func subfieldAllowed(subfield string) bool {
	subfield = strings.ToLower(subfield)
	for _, allowed := range AllowedSubfields {
		if subfield == allowed {
			return true
		}
	}
	return false
}

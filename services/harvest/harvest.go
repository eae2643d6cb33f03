// Package harvest drives the whole pipeline: match the university,
// load and filter its roster, then harvest publication links and
// documents for each faculty member.
package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"profharvest/lib/artifactstore"
	"profharvest/lib/fetchutil"
	"profharvest/lib/restyutil"
	"profharvest/services/rankings"
	"profharvest/services/roster"
	"profharvest/services/scholar"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("profharvest/services/harvest")

type Pipeline struct {
	cfg      Config
	fetcher  fetchutil.Fetcher
	rankings rankings.Client
	roster   roster.Client
	scholar  scholar.Client
}

func New(cfg Config) Pipeline {
	cfg = cfg.withDefaults()
	fetcher := fetchutil.NewFetcher(fetchutil.Options{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.fetchTimeout(),
		Retries:   cfg.Fetch.Retries,
		Backoff:   cfg.fetchBackoff(),
	})

	return Pipeline{
		cfg:      cfg,
		fetcher:  fetcher,
		rankings: rankings.NewClient(fetcher, cfg.Rankings.BaseURL),
		roster:   roster.NewClient(fetcher, cfg.Rankings.ProfBySchoolURL, cfg.Rankings.VarName),
		scholar:  scholar.NewClient(fetcher),
	}
}

// DefaultOutput is the configured path of the combined JSON result file.
func (p Pipeline) DefaultOutput() string {
	return p.cfg.Harvest.Output
}

// DumpExchanges writes every HTTP exchange made by the pipeline to dir,
// one file per request. Meant for --verbose debugging runs.
func (p Pipeline) DumpExchanges(dir string) {
	restyutil.DumpExchanges(p.fetcher.Client, restyutil.NewFilesystemOutput(dir))
}

func (p Pipeline) matchOptions() rankings.MatchOptions {
	return rankings.MatchOptions{
		AcceptThreshold: p.cfg.Match.AcceptThreshold,
		SubstringFloor:  p.cfg.Match.SubstringFloor,
	}
}

// MatchUniversity resolves the query against the rankings table.
func (p Pipeline) MatchUniversity(ctx context.Context, query string) (rankings.MatchResult, error) {
	institutions, err := p.rankings.FetchInstitutions(ctx)
	if err != nil {
		return rankings.MatchResult{}, err
	}
	return rankings.Match(institutions, query, p.matchOptions())
}

// ScoreCandidates lists every institution scored against the query,
// best first.
func (p Pipeline) ScoreCandidates(ctx context.Context, query string) ([]rankings.Candidate, error) {
	institutions, err := p.rankings.FetchInstitutions(ctx)
	if err != nil {
		return nil, err
	}
	return rankings.ScoreCandidates(institutions, query, p.matchOptions()), nil
}

// Run executes the full pipeline for one query. A query that matches no
// institution returns rankings.ErrNoMatch; a university missing from the
// faculty dataset completes with zero professors.
func (p Pipeline) Run(ctx context.Context, query string) (Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline:Run")
	defer span.End()

	match, err := p.MatchUniversity(ctx, query)
	if err != nil {
		return Result{}, err
	}
	slog.InfoContext(ctx, "matched university", "query", query, "match", match.Name, "score", match.Score)

	dataset, err := p.roster.FetchDataset(ctx)
	if err != nil {
		return Result{}, err
	}

	professors := roster.FilterFaculty(dataset, match.Name)
	records := make([]*FacultyRecord, len(professors))
	for i, prof := range professors {
		records[i] = &FacultyRecord{
			Name:          prof.Name,
			Subfield:      prof.Subfield,
			GoogleScholar: prof.GoogleScholar,
			Stage:         StageSubfieldFiltered,
		}
	}
	slog.InfoContext(ctx, "filtered faculty", "university", match.Name, "count", len(records))

	p.harvestAll(ctx, match.Name, records)

	return Result{
		Query:             query,
		MatchedUniversity: match.Name,
		SourceURL:         p.cfg.Rankings.ProfBySchoolURL,
		Professors:        records,
	}, nil
}

// harvestAll runs the per-faculty phase on a bounded worker pool. Each
// record is owned by exactly one worker and failures are confined to the
// record they occurred on.
func (p Pipeline) harvestAll(ctx context.Context, university string, records []*FacultyRecord) {
	workers := p.cfg.Harvest.Workers
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	queue := make(chan *FacultyRecord)
	wg := sync.WaitGroup{}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range queue {
				p.harvestOne(ctx, university, rec)
			}
		}()
	}

	for _, rec := range records {
		queue <- rec
	}
	close(queue)
	wg.Wait()
}

func (p Pipeline) harvestOne(ctx context.Context, university string, rec *FacultyRecord) {
	ctx, span := tracer.Start(ctx, "pipeline:harvestOne")
	defer span.End()

	if rec.GoogleScholar == "" {
		slog.WarnContext(ctx, "faculty member has no scholar url", "name", rec.Name)
		return
	}

	page, err := p.scholar.FetchResults(ctx, rec.GoogleScholar)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch results page", "name", rec.Name, "err", err)
		return
	}

	rec.ResultsHTML = page.HTML
	rec.ResultLinks = page.Links
	rec.Stage = StageLinksExtracted

	expected, ok := page.VerifyCount()
	rec.CountVerified = ok
	if ok {
		slog.InfoContext(
			ctx, "result count verified",
			"name", rec.Name,
			"links", len(page.Links),
		)
	} else {
		slog.WarnContext(
			ctx, "result count mismatch, the page structure may have drifted",
			"name", rec.Name,
			"extracted", len(page.Links),
			"expected", expected,
		)
	}

	dir := filepath.Join(
		p.cfg.Harvest.DataDir,
		fmt.Sprintf("%s_%s", artifactstore.Sanitize(university), artifactstore.Sanitize(rec.Name)),
	)

	rec.Documents = map[string]string{}
	for _, link := range page.Links {
		content, err := p.scholar.FetchDocument(ctx, link)
		if err != nil {
			slog.WarnContext(ctx, "skipping unfetchable document", "url", link, "err", err)
			continue
		}

		title := artifactstore.DeriveTitle(content, link)
		if p.cfg.Harvest.ReadableText {
			content = artifactstore.ExtractText(content, link)
		}
		rec.Documents[title] = content

		filename := artifactstore.Sanitize(title) + ".txt"
		skipped, err := artifactstore.Save(dir, filename, content)
		if err != nil {
			slog.WarnContext(ctx, "failed to save document", "path", filepath.Join(dir, filename), "err", err)
			continue
		}
		if skipped {
			slog.DebugContext(ctx, "document already exists, skipped", "path", filepath.Join(dir, filename))
		}
	}

	rec.Stage = StageDocumentsHarvested
}

// WriteJSON writes the combined result to path as indented JSON,
// creating parent directories as needed.
func (r Result) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

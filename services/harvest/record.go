package harvest

// Stage tracks how far a faculty record has progressed through the
// pipeline, instead of inferring it from which fields happen to be set.
type Stage int

const (
	// StageIdentified: the record exists with name, subfield and
	// scholar url filled in.
	StageIdentified Stage = iota
	// StageSubfieldFiltered: the record survived the subfield
	// allow-list.
	StageSubfieldFiltered
	// StageLinksExtracted: result links were parsed off the search
	// page.
	StageLinksExtracted
	// StageDocumentsHarvested: every fetchable document was saved.
	StageDocumentsHarvested
)

func (s Stage) String() string {
	switch s {
	case StageIdentified:
		return "identified"
	case StageSubfieldFiltered:
		return "subfield_filtered"
	case StageLinksExtracted:
		return "links_extracted"
	case StageDocumentsHarvested:
		return "documents_harvested"
	}
	return "unknown"
}

// FacultyRecord is one professor enriched in place as the pipeline runs.
// Enrichment is confined to the worker that owns the record, so no
// locking is needed.
type FacultyRecord struct {
	Name          string   `json:"name"`
	Subfield      string   `json:"subfield"`
	GoogleScholar string   `json:"google scholar"`
	ResultsHTML   string   `json:"gs_results_2025,omitempty"`
	ResultLinks   []string `json:"gs_urls_2025"`

	Stage         Stage             `json:"-"`
	Documents     map[string]string `json:"-"`
	CountVerified bool              `json:"-"`
}

// Result is the combined run output written as JSON.
type Result struct {
	Query             string           `json:"query"`
	MatchedUniversity string           `json:"matched_university"`
	SourceURL         string           `json:"source_url"`
	Professors        []*FacultyRecord `json:"professors"`
}

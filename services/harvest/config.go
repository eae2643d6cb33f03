package harvest

import "time"

type RankingsConfig struct {
	BaseURL         string `json:"base_url"`
	ProfBySchoolURL string `json:"prof_by_school_url"`
	// VarName is the javascript variable the faculty dataset is
	// declared under.
	VarName string `json:"var_name"`
}

type MatchConfig struct {
	AcceptThreshold float64 `json:"accept_threshold"`
	SubstringFloor  float64 `json:"substring_floor"`
}

type FetchConfig struct {
	UserAgent      string  `json:"user_agent"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	Retries        int     `json:"retries"`
	BackoffSeconds float64 `json:"backoff_seconds"`
}

type HarvestConfig struct {
	// Workers bounds the number of faculty members harvested
	// concurrently. 1 means fully sequential.
	Workers int    `json:"workers"`
	DataDir string `json:"data_dir"`
	Output  string `json:"output"`
	// ReadableText saves readability-extracted text instead of the raw
	// page body.
	ReadableText bool `json:"readable_text"`
}

type Config struct {
	Rankings RankingsConfig `json:"rankings"`
	Match    MatchConfig    `json:"match"`
	Fetch    FetchConfig    `json:"fetch"`
	Harvest  HarvestConfig  `json:"harvest"`
}

func (c Config) withDefaults() Config {
	if c.Rankings.BaseURL == "" {
		c.Rankings.BaseURL = "https://drafty.cs.brown.edu/csopenrankings/"
	}
	if c.Rankings.ProfBySchoolURL == "" {
		c.Rankings.ProfBySchoolURL = "https://drafty.cs.brown.edu/csopenrankings/frontend/profBySchool.js"
	}
	if c.Rankings.VarName == "" {
		c.Rankings.VarName = "profBySchool_normalized"
	}
	if c.Match.AcceptThreshold == 0 {
		c.Match.AcceptThreshold = 0.4
	}
	if c.Match.SubstringFloor == 0 {
		c.Match.SubstringFloor = 0.95
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 15
	}
	if c.Fetch.Retries == 0 {
		c.Fetch.Retries = 2
	}
	if c.Fetch.BackoffSeconds == 0 {
		c.Fetch.BackoffSeconds = 1
	}
	if c.Harvest.Workers == 0 {
		c.Harvest.Workers = 1
	}
	if c.Harvest.DataDir == "" {
		c.Harvest.DataDir = "data"
	}
	if c.Harvest.Output == "" {
		c.Harvest.Output = "results.json"
	}
	return c
}

func (c Config) fetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c Config) fetchBackoff() time.Duration {
	return time.Duration(c.Fetch.BackoffSeconds * float64(time.Second))
}

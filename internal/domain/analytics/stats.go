package analytics

// All types here are derived snapshots. They are computed fresh per request
// and never persisted.

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ChatLogStats struct {
	Total  int64      `json:"total"`
	Canned int64      `json:"canned"`
	Custom int64      `json:"custom"`
	PerDay []DayCount `json:"per_day"`
}

type SummaryStats struct {
	Total    int64      `json:"total"`
	ByStyle  []TagCount `json:"by_style"`
	ByLength []TagCount `json:"by_length"`
}

type UsageStats struct {
	SignupsByMonth []MonthCount `json:"signups_by_month"`
	ChatLogs       ChatLogStats `json:"chat_logs"`
	Summaries      SummaryStats `json:"summaries"`
}

// CampaignCounts is the raw numerator/denominator set a campaign stats
// source produces. The view-backed fast path and the direct-query fallback
// both return this shape so equivalence can be asserted.
type CampaignCounts struct {
	Total       int64 `json:"total"`
	WithWebsite int64 `json:"with_website"`
	WithEmail   int64 `json:"with_email"`
	Contacted   int64 `json:"contacted"`
	Exported    int64 `json:"exported"`
}

type CampaignStats struct {
	CampaignCounts

	PctWebsite   int `json:"pct_website"`
	PctEmail     int `json:"pct_email"`
	PctContacted int `json:"pct_contacted"`
	PctExported  int `json:"pct_exported"`

	EmailStatus []StatusCount `json:"email_status"`

	// Postal coverage, German dentist campaign only.
	PostalCodesSeen   int64 `json:"postal_codes_seen,omitempty"`
	PostalCodesTotal  int64 `json:"postal_codes_total,omitempty"`
	PctPostalCoverage int   `json:"pct_postal_coverage,omitempty"`
}

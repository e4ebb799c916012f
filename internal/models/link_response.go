package models

// Result is the uniform response envelope for all /api endpoints.
// Exactly one of Data and Error is meaningful; failure handling stays
// identical across every CRUD call site.
type Result struct {
	Data  interface{} `json:"data"`
	Error interface{} `json:"error"`
}

// Ok wraps a successful payload.
func Ok(data interface{}) Result {
	return Result{Data: data, Error: nil}
}

// Err wraps a failure message.
func Err(message string) Result {
	return Result{Data: nil, Error: message}
}

// AnalyticsSummary is the response for GET /api/analytics.
type AnalyticsSummary struct {
	TotalClicks int             `json:"total_clicks"`
	LinkCount   int             `json:"link_count"`
	PerLink     []PerLinkClicks `json:"per_link"`
}

// PerLinkClicks is one row of the analytics summary.
type PerLinkClicks struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Clicks   int    `json:"clicks"`
}

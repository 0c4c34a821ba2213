package models

// Headline is one search result fed to the summarizer.
type Headline struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// TickerEntry holds the summaries recorded for one calendar date, keyed by
// hour of day.
type TickerEntry struct {
	Date  string
	Hours map[int]string
}

// Latest returns the summary for the highest recorded hour in 0-23.
func (e *TickerEntry) Latest() (int, string, bool) {
	latest := -1
	for h := range e.Hours {
		if h >= 0 && h <= 23 && h > latest {
			latest = h
		}
	}
	if latest < 0 {
		return 0, "", false
	}
	return latest, e.Hours[latest], true
}

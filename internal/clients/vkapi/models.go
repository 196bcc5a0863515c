package vkapi

// apiResponse is the VK API envelope: exactly one of Response or Error is set.
type apiResponse[T any] struct {
	Response *T        `json:"response,omitempty"`
	Error    *apiError `json:"error,omitempty"`
}

type apiError struct {
	ErrorCode int    `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

type shortLink struct {
	ShortURL  string `json:"short_url"`
	URL       string `json:"url,omitempty"`
	Key       string `json:"key,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
}

// LinkStats is the click statistics for one short link.
type LinkStats struct {
	Key   string       `json:"key"`
	Stats []PeriodStat `json:"stats"`
}

// PeriodStat is one aggregation bucket of the requested interval.
type PeriodStat struct {
	Timestamp int64 `json:"timestamp"`
	Views     int   `json:"views"`
}

// TotalViews sums views across all aggregation buckets.
func (s *LinkStats) TotalViews() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, p := range s.Stats {
		total += p.Views
	}
	return total
}

package models

// Pagination is the list metadata returned by the admin endpoints. A cached
// list and its pagination are always replaced together.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Statistics is the admin dashboard aggregate.
type Statistics struct {
	TotalUsers     int `json:"total_users"`
	TotalAlerts    int `json:"total_alerts"`
	TotalLocations int `json:"total_locations"`
	TotalArticles  int `json:"total_articles"`
}

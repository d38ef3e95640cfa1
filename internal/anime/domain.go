// Package anime proxies the external anime-metadata catalog and caches the
// trending listing in Redis.
package anime

// Anime is one catalog entry as exposed to clients.
type Anime struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	TitleEnglish string   `json:"titleEnglish,omitempty"`
	Synopsis     string   `json:"synopsis,omitempty"`
	CoverImage   string   `json:"coverImage,omitempty"`
	Episodes     int      `json:"episodes"`
	Score        float64  `json:"score"`
	Genres       []string `json:"genres,omitempty"`
	Year         int      `json:"year,omitempty"`
}

// PageInfo describes the position of a catalog page.
type PageInfo struct {
	CurrentPage int  `json:"currentPage"`
	PerPage     int  `json:"perPage"`
	Total       int  `json:"total"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// Page is the (items, pageInfo) shape every paginated catalog lookup returns.
type Page struct {
	Items    []Anime  `json:"items"`
	PageInfo PageInfo `json:"pageInfo"`
}

package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps the external anime-metadata catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new catalog client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// catalogAnime is the upstream wire shape; it is mapped to Anime before
// leaving this package.
type catalogAnime struct {
	MalID        int     `json:"mal_id"`
	Title        string  `json:"title"`
	TitleEnglish string  `json:"title_english"`
	Synopsis     string  `json:"synopsis"`
	Episodes     int     `json:"episodes"`
	Score        float64 `json:"score"`
	Year         int     `json:"year"`
	Images       struct {
		JPG struct {
			ImageURL string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (a catalogAnime) toDomain() Anime {
	out := Anime{
		ID:           a.MalID,
		Title:        a.Title,
		TitleEnglish: a.TitleEnglish,
		Synopsis:     a.Synopsis,
		CoverImage:   a.Images.JPG.ImageURL,
		Episodes:     a.Episodes,
		Score:        a.Score,
		Year:         a.Year,
	}
	for _, g := range a.Genres {
		out.Genres = append(out.Genres, g.Name)
	}
	return out
}

type catalogResponse struct {
	Data       []catalogAnime `json:"data"`
	Pagination struct {
		CurrentPage int  `json:"current_page"`
		PerPage     int  `json:"per_page"`
		Total       int  `json:"total"`
		LastPage    int  `json:"last_page"`
		HasNextPage bool `json:"has_next_page"`
	} `json:"pagination"`
}

// Search queries the catalog. Page and perPage are clamped to sane bounds
// before hitting the upstream API.
func (c *Client) Search(ctx context.Context, query string, page, perPage int) (Page, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 50 {
		perPage = 20
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(perPage))
	return c.fetch(ctx, fmt.Sprintf("%s/anime?%s", c.baseURL, params.Encode()))
}

// Trending fetches the current top-airing listing.
func (c *Client) Trending(ctx context.Context, page, perPage int) (Page, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 50 {
		perPage = 20
	}
	params := url.Values{}
	params.Set("filter", "airing")
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(perPage))
	return c.fetch(ctx, fmt.Sprintf("%s/top/anime?%s", c.baseURL, params.Encode()))
}

// Detail fetches a single catalog entry by its upstream ID.
func (c *Client) Detail(ctx context.Context, id int) (Anime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/anime/%d", c.baseURL, id), nil)
	if err != nil {
		return Anime{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Anime{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Anime{}, fmt.Errorf("anime: catalog returned status %d", resp.StatusCode)
	}
	var body struct {
		Data catalogAnime `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Anime{}, err
	}
	return body.Data.toDomain(), nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Page{}, fmt.Errorf("anime: catalog returned status %d", resp.StatusCode)
	}
	var body catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page{}, err
	}
	items := make([]Anime, 0, len(body.Data))
	for _, entry := range body.Data {
		items = append(items, entry.toDomain())
	}
	return Page{
		Items: items,
		PageInfo: PageInfo{
			CurrentPage: body.Pagination.CurrentPage,
			PerPage:     body.Pagination.PerPage,
			Total:       body.Pagination.Total,
			LastPage:    body.Pagination.LastPage,
			HasNextPage: body.Pagination.HasNextPage,
		},
	}, nil
}

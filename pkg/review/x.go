package review

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	xPause       = time.Second
	xMinTweetLen = 30
	xMaxResults  = 100
	xQuerySuffix = " -is:retweet lang:en"
)

var xKeywords = []categoryKeywords{
	{TypeHotel, []string{"hotel", "resort", "hostel", "stay", "accommodation"}},
	{TypeRestaurant, []string{"restaurant", "food", "cafe", "eat", "seafood", "shack"}},
	{TypePlace, []string{"beach", "temple", "fort", "waterfall", "sightseeing", "visit"}},
	{TypeActivity, []string{"watersport", "paragliding", "scuba", "nightlife", "party", "tour"}},
}

// XClient scrapes recent posts via the X v2 recent-search API.
type XClient struct {
	bearerToken string
	httpClient  *http.Client
	searchURL   string
	pause       time.Duration
}

func NewXClient(bearerToken string) *XClient {
	return &XClient{
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		searchURL:   "https://api.twitter.com/2/tweets/search/recent",
		pause:       xPause,
	}
}

func (c *XClient) Name() Source {
	return SourceX
}

func (c *XClient) Fetch(destination string, placeType PlaceType, maxRecords int) ([]Record, error) {
	var records []Record
	seen := map[string]bool{}

	for _, query := range xQueries(destination, placeType) {
		if len(records) >= maxRecords {
			break
		}
		slog.Info("x search", "query", query)

		res, status, err := c.search(query)
		if err != nil {
			slog.Error("x search failed", "query", query, "error", err)
			time.Sleep(c.pause)
			continue
		}
		if status == http.StatusTooManyRequests {
			slog.Warn("x rate limited, stopping", "records", len(records))
			break
		}
		if status != http.StatusOK {
			slog.Error("x search failed", "query", query, "status", status)
			time.Sleep(c.pause)
			continue
		}

		usernames := map[string]string{}
		for _, u := range res.Includes.Users {
			usernames[u.ID] = u.Username
		}

		for _, tweet := range res.Data {
			if len(records) >= maxRecords {
				break
			}
			if seen[tweet.ID] {
				continue
			}
			seen[tweet.ID] = true

			text := strings.TrimSpace(tweet.Text)
			if utf8.RuneCountInString(text) < xMinTweetLen {
				continue
			}

			records = append(records, Record{
				ID:        HashID("x_" + tweet.ID),
				Text:      text,
				Source:    SourceX,
				Type:      orClassify(placeType, text, xKeywords),
				PlaceName: destination,
				Author:    usernames[tweet.AuthorID],
				URL:       "https://x.com/i/web/status/" + tweet.ID,
				Date:      tweet.CreatedAt,
				Extra: map[string]any{
					"tweet_id": tweet.ID,
					"likes":    tweet.PublicMetrics.LikeCount,
					"retweets": tweet.PublicMetrics.RetweetCount,
				},
			})
		}

		time.Sleep(c.pause)
	}

	slog.Info("x scrape done", "records", len(records))
	return records, nil
}

func xQueries(destination string, placeType PlaceType) []string {
	if placeType != "" {
		kws := keywordsFor(xKeywords, placeType)
		if len(kws) > 3 {
			kws = kws[:3]
		}
		queries := make([]string, 0, len(kws))
		for _, kw := range kws {
			queries = append(queries, destination+" "+kw+xQuerySuffix)
		}
		return queries
	}
	return []string{
		destination + " hotel review" + xQuerySuffix,
		destination + " restaurant food" + xQuerySuffix,
		destination + " travel tips" + xQuerySuffix,
		destination + " beach places" + xQuerySuffix,
		"visiting " + destination + xQuerySuffix,
	}
}

func (c *XClient) search(query string) (*xSearchResponse, int, error) {
	params := url.Values{
		"query":        {query},
		"max_results":  {fmt.Sprintf("%d", xMaxResults)},
		"tweet.fields": {"created_at,author_id,public_metrics,text"},
		"expansions":   {"author_id"},
		"user.fields":  {"username"},
	}

	req, err := http.NewRequest(http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("x search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var body xSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("x decode: %w", err)
	}
	return &body, resp.StatusCode, nil
}

type xSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		CreatedAt     string `json:"created_at"`
		AuthorID      string `json:"author_id"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

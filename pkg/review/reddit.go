package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	redditPause         = 500 * time.Millisecond
	redditMinPostLen    = 50
	redditMinCommentLen = 30
	redditMaxText       = 2000
	redditMaxComments   = 10
	redditQueriesPerSub = 3
)

// errRateLimited signals an explicit 429 from the upstream; the connector
// stops early and keeps what it has.
var errRateLimited = errors.New("rate limited")

var redditSubreddits = []string{
	"india", "goa", "travel", "solotravel", "backpacking",
	"IndiaTravel", "digitalnomad", "AskIndia",
}

var redditKeywords = []categoryKeywords{
	{TypeHotel, []string{"hotel", "resort", "hostel", "stay", "accommodation", "airbnb", "guesthouse"}},
	{TypeRestaurant, []string{"restaurant", "food", "eat", "cafe", "shack", "seafood", "dining"}},
	{TypePlace, []string{"beach", "temple", "fort", "heritage", "waterfall", "place", "visit", "sightseeing"}},
	{TypeActivity, []string{"water sport", "paragliding", "scuba", "nightlife", "party", "tour", "activity", "trek"}},
}

// RedditClient scrapes travel discussion via the Reddit API using app-only
// (client_credentials) auth.
type RedditClient struct {
	clientID     string
	clientSecret string
	userAgent    string
	httpClient   *http.Client
	authBase     string
	apiBase      string
	pause        time.Duration
}

func NewRedditClient(clientID, clientSecret, userAgent string) *RedditClient {
	if userAgent == "" {
		userAgent = "PlacesReviewScraper/1.0"
	}
	return &RedditClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		authBase:     "https://www.reddit.com",
		apiBase:      "https://oauth.reddit.com",
		pause:        redditPause,
	}
}

func (c *RedditClient) Name() Source {
	return SourceReddit
}

func (c *RedditClient) Fetch(destination string, placeType PlaceType, maxRecords int) ([]Record, error) {
	token, err := c.authenticate()
	if err != nil {
		return nil, fmt.Errorf("reddit auth: %w", err)
	}

	var records []Record
	seen := map[string]bool{}
	queries := redditQueries(destination, placeType)

	for _, subreddit := range redditSubreddits {
		if len(records) >= maxRecords {
			break
		}

		for _, query := range queries {
			if len(records) >= maxRecords {
				break
			}
			slog.Info("reddit search", "subreddit", subreddit, "query", query)

			posts, err := c.search(token, subreddit, query)
			time.Sleep(c.pause)
			if errors.Is(err, errRateLimited) {
				slog.Warn("reddit rate limited, stopping", "records", len(records))
				return records, nil
			}
			if err != nil {
				slog.Error("reddit search failed", "subreddit", subreddit, "error", err)
				continue
			}

			for _, post := range posts {
				if len(records) >= maxRecords {
					break
				}
				if seen[post.ID] {
					continue
				}
				seen[post.ID] = true

				fullText := strings.TrimSpace(post.Title + " " + post.Selftext)
				if utf8.RuneCountInString(fullText) > redditMinPostLen {
					records = append(records, Record{
						ID:        HashID("reddit_post_" + post.ID),
						Text:      Truncate(fullText, redditMaxText),
						Source:    SourceReddit,
						Type:      orClassify(placeType, fullText, redditKeywords),
						PlaceName: destination,
						Author:    post.Author,
						URL:       "https://reddit.com" + post.Permalink,
						Date:      strconv.FormatInt(int64(post.CreatedUTC), 10),
						Extra: map[string]any{
							"subreddit": subreddit,
							"score":     post.Score,
						},
					})
				}

				comments, err := c.comments(token, post.ID)
				time.Sleep(c.pause)
				if errors.Is(err, errRateLimited) {
					slog.Warn("reddit rate limited, stopping", "records", len(records))
					return records, nil
				}
				if err != nil {
					// Comments are best-effort; the post itself is already in.
					continue
				}

				for _, comment := range comments {
					if len(records) >= maxRecords {
						break
					}
					body := strings.TrimSpace(comment.Body)
					if utf8.RuneCountInString(body) < redditMinCommentLen || body == "[deleted]" || body == "[removed]" {
						continue
					}

					uid := HashID("reddit_comment_" + comment.ID)
					if seen[uid] {
						continue
					}
					seen[uid] = true

					records = append(records, Record{
						ID:        uid,
						Text:      Truncate(body, redditMaxText),
						Source:    SourceReddit,
						Type:      orClassify(placeType, body, redditKeywords),
						PlaceName: destination,
						Author:    comment.Author,
						URL:       "https://reddit.com" + post.Permalink,
						Date:      strconv.FormatInt(int64(comment.CreatedUTC), 10),
						Extra: map[string]any{
							"subreddit": subreddit,
							"score":     comment.Score,
						},
					})
				}
			}
		}
	}

	slog.Info("reddit scrape done", "records", len(records))
	return records, nil
}

// redditQueries derives the search query list: category keywords when a
// filter is set, generic destination-review phrases otherwise. At most
// redditQueriesPerSub queries run per subreddit.
func redditQueries(destination string, placeType PlaceType) []string {
	var queries []string
	if placeType != "" {
		kws := keywordsFor(redditKeywords, placeType)
		for _, kw := range kws {
			queries = append(queries, destination+" "+kw)
		}
	} else {
		queries = []string{
			destination + " review",
			destination + " hotel restaurant",
			destination + " travel tips",
			destination + " places to visit",
			destination + " trip report",
		}
	}
	if len(queries) > redditQueriesPerSub {
		queries = queries[:redditQueriesPerSub]
	}
	return queries
}

func orClassify(placeType PlaceType, text string, table []categoryKeywords) PlaceType {
	if placeType != "" {
		return placeType
	}
	return classify(text, table)
}

func (c *RedditClient) authenticate() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, c.authBase+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	return body.AccessToken, nil
}

func (c *RedditClient) search(token, subreddit, query string) ([]redditThing, error) {
	params := url.Values{
		"q":           {query},
		"limit":       {"25"},
		"sort":        {"relevance"},
		"restrict_sr": {"1"},
		"raw_json":    {"1"},
	}
	var listing redditListing
	err := c.get(token, fmt.Sprintf("%s/r/%s/search?%s", c.apiBase, subreddit, params.Encode()), &listing)
	if err != nil {
		return nil, err
	}

	things := make([]redditThing, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		things = append(things, child.Data)
	}
	return things, nil
}

func (c *RedditClient) comments(token, postID string) ([]redditThing, error) {
	var listings []redditListing
	err := c.get(token, fmt.Sprintf("%s/comments/%s?limit=%d&depth=1&raw_json=1", c.apiBase, postID, redditMaxComments), &listings)
	if err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var things []redditThing
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		things = append(things, child.Data)
		if len(things) >= redditMaxComments {
			break
		}
	}
	return things, nil
}

func (c *RedditClient) get(token, rawURL string, out any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditThing struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
}

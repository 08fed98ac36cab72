package review

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func newRedditTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/access_token":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "test-id" || pass != "test-secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"access_token": "test-token", "token_type": "bearer"}`))
		case strings.HasSuffix(r.URL.Path, "/search"):
			w.Write([]byte(`{
				"data": {"children": [
					{"kind": "t3", "data": {
						"id": "p1",
						"title": "Goa trip report",
						"selftext": "Stayed at a lovely hostel, great accommodation near the market",
						"score": 42,
						"permalink": "/r/goa/comments/p1/goa_trip_report/",
						"author": "wanderer",
						"created_utc": 1700000000.0
					}}
				]}
			}`))
		case strings.HasPrefix(r.URL.Path, "/comments/"):
			w.Write([]byte(`[
				{"data": {"children": []}},
				{"data": {"children": [
					{"kind": "t1", "data": {
						"id": "c1",
						"body": "The beach shacks at Palolem serve amazing seafood thalis",
						"score": 10,
						"author": "foodie",
						"created_utc": 1700000100.0
					}},
					{"kind": "t1", "data": {"id": "c2", "body": "[deleted]", "score": 1, "author": "", "created_utc": 0}},
					{"kind": "t1", "data": {"id": "c3", "body": "nice", "score": 1, "author": "", "created_utc": 0}}
				]}}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newRedditTestClient(srv *httptest.Server) *RedditClient {
	client := NewRedditClient("test-id", "test-secret", "test-agent")
	client.authBase = srv.URL
	client.apiBase = srv.URL
	client.pause = 0
	return client
}

func TestRedditFetch(t *testing.T) {
	srv := newRedditTestServer(t)
	defer srv.Close()

	client := newRedditTestClient(srv)

	records, err := client.Fetch("Goa", "", 50)

	assert.Equal(t, nil, err)
	// One post and one comment survive; the short and deleted comments do
	// not, and repeated search hits dedupe on the native post id.
	assert.Equal(t, 2, len(records))

	post := records[0]
	assert.Equal(t, HashID("reddit_post_p1"), post.ID)
	assert.Equal(t, "Goa trip report Stayed at a lovely hostel, great accommodation near the market", post.Text)
	assert.Equal(t, SourceReddit, post.Source)
	assert.Equal(t, TypeHotel, post.Type)
	assert.Equal(t, "Goa", post.PlaceName)
	assert.Equal(t, "wanderer", post.Author)
	assert.Equal(t, "https://reddit.com/r/goa/comments/p1/goa_trip_report/", post.URL)
	assert.Equal(t, "1700000000", post.Date)
	assert.Equal(t, "india", post.Extra["subreddit"])
	assert.Equal(t, 42, post.Extra["score"])

	comment := records[1]
	assert.Equal(t, HashID("reddit_comment_c1"), comment.ID)
	assert.Equal(t, TypeRestaurant, comment.Type)
	assert.Equal(t, "foodie", comment.Author)
	assert.Equal(t, 10, comment.Extra["score"])
}

func TestRedditFetchCategoryFilterSkipsClassification(t *testing.T) {
	srv := newRedditTestServer(t)
	defer srv.Close()

	client := newRedditTestClient(srv)

	records, err := client.Fetch("Goa", TypeActivity, 50)

	assert.Equal(t, nil, err)
	for _, r := range records {
		assert.Equal(t, TypeActivity, r.Type)
	}
}

func TestRedditFetchAuthFailurePropagates(t *testing.T) {
	srv := newRedditTestServer(t)
	defer srv.Close()

	client := newRedditTestClient(srv)
	client.clientSecret = "wrong"

	_, err := client.Fetch("Goa", "", 50)
	assert.NotEqual(t, nil, err)
}

func TestRedditFetchStopsOnRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/access_token" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "test-token"}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newRedditTestClient(srv)

	records, err := client.Fetch("Goa", "", 50)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(records))
}

func TestRedditQueries(t *testing.T) {
	generic := redditQueries("Goa", "")
	assert.Equal(t, redditQueriesPerSub, len(generic))
	assert.Equal(t, "Goa review", generic[0])

	filtered := redditQueries("Goa", TypeHotel)
	assert.Equal(t, redditQueriesPerSub, len(filtered))
	assert.Equal(t, "Goa hotel", filtered[0])
}

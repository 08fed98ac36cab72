package review

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"googlemaps.github.io/maps"
)

func newGoogleTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/maps/api/place/textsearch/json":
			w.Write([]byte(`{
				"status": "OK",
				"results": [
					{"place_id": "p1", "name": "Taj Resort"}
				]
			}`))
		case "/maps/api/place/details/json":
			w.Write([]byte(`{
				"status": "OK",
				"result": {
					"name": "Taj Resort",
					"rating": 4.5,
					"url": "https://maps.google.com/?cid=1",
					"formatted_address": "Candolim, Goa, India",
					"reviews": [
						{"author_name": "Asha", "rating": 5, "text": "Lovely beachfront property with very helpful staff", "time": 1700000000},
						{"author_name": "Bob", "rating": 2, "text": "meh", "time": 1700000001},
						{"author_name": "Carol", "rating": 4, "text": "Great pool and the breakfast spread was excellent", "time": 1700000002}
					]
				}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newGoogleTestClient(t *testing.T, srv *httptest.Server) *GoogleClient {
	t.Helper()
	mapsClient, err := maps.NewClient(maps.WithAPIKey("test-key"), maps.WithBaseURL(srv.URL))
	assert.Equal(t, nil, err)
	return &GoogleClient{client: mapsClient, maxPerPlace: defaultMaxPerPlace, pause: 0}
}

func TestGoogleFetch(t *testing.T) {
	srv := newGoogleTestServer(t)
	defer srv.Close()

	client := newGoogleTestClient(t, srv)

	records, err := client.Fetch("Goa", TypeHotel, 10)

	assert.Equal(t, nil, err)
	// Three reviews served, one below the length threshold.
	assert.Equal(t, 2, len(records))

	r := records[0]
	assert.Equal(t, HashID("google_p1_1700000000"), r.ID)
	assert.Equal(t, "Taj Resort: Lovely beachfront property with very helpful staff", r.Text)
	assert.Equal(t, SourceGoogle, r.Source)
	assert.Equal(t, TypeHotel, r.Type)
	assert.Equal(t, "Taj Resort", r.PlaceName)
	assert.Equal(t, "Asha", r.Author)
	assert.Equal(t, "https://maps.google.com/?cid=1", r.URL)
	assert.Equal(t, "1700000000", r.Date)
	assert.Equal(t, "p1", r.Extra["place_id"])
	assert.Equal(t, 5, r.Extra["rating"])
	assert.Equal(t, "Candolim, Goa, India", r.Extra["address"])
}

func TestGoogleFetchRespectsBudget(t *testing.T) {
	srv := newGoogleTestServer(t)
	defer srv.Close()

	client := newGoogleTestClient(t, srv)

	records, err := client.Fetch("Goa", "", 1)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(records))
}

func TestGoogleFetchMaxPerPlace(t *testing.T) {
	srv := newGoogleTestServer(t)
	defer srv.Close()

	client := newGoogleTestClient(t, srv)
	client.maxPerPlace = 1

	records, err := client.Fetch("Goa", TypeHotel, 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(records))
}

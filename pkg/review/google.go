package review

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"googlemaps.github.io/maps"
)

const (
	googlePause        = 200 * time.Millisecond
	googleMinReviewLen = 20
	defaultMaxPerPlace = 50
)

// googleQueries maps each place type to its text-search query templates.
// %s is the destination.
var googleQueries = []struct {
	Type    PlaceType
	Queries []string
}{
	{TypeHotel, []string{"%s best hotels", "%s luxury resorts", "%s budget hotels", "%s beach resorts"}},
	{TypeRestaurant, []string{"%s best restaurants", "%s seafood restaurants", "%s cafes", "%s rooftop restaurants"}},
	{TypePlace, []string{"%s tourist places", "%s beaches", "%s temples forts", "%s waterfalls"}},
	{TypeActivity, []string{"%s water sports", "%s things to do", "%s nightlife", "%s tours adventure"}},
}

var googleDetailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskReviews,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskURL,
}

// GoogleClient scrapes place reviews via the Google Places API.
type GoogleClient struct {
	client      *maps.Client
	maxPerPlace int
	pause       time.Duration
}

func NewGoogleClient(apiKey string, maxPerPlace int) (*GoogleClient, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google maps client: %w", err)
	}

	if maxPerPlace <= 0 {
		maxPerPlace = defaultMaxPerPlace
	}

	return &GoogleClient{
		client:      client,
		maxPerPlace: maxPerPlace,
		pause:       googlePause,
	}, nil
}

func (c *GoogleClient) Name() Source {
	return SourceGoogle
}

func (c *GoogleClient) Fetch(destination string, placeType PlaceType, maxRecords int) ([]Record, error) {
	var records []Record
	seenPlaceIDs := map[string]bool{}

	for _, entry := range googleQueries {
		if placeType != "" && entry.Type != placeType {
			continue
		}
		if len(records) >= maxRecords {
			break
		}

		for _, template := range entry.Queries {
			if len(records) >= maxRecords {
				break
			}
			query := fmt.Sprintf(template, destination)
			slog.Info("google search", "query", query)

			res, err := c.client.TextSearch(context.Background(), &maps.TextSearchRequest{Query: query})
			time.Sleep(c.pause)
			if err != nil {
				slog.Error("google search failed", "query", query, "error", err)
				continue
			}

			for _, place := range res.Results {
				if len(records) >= maxRecords {
					break
				}
				if place.PlaceID == "" || seenPlaceIDs[place.PlaceID] {
					continue
				}
				seenPlaceIDs[place.PlaceID] = true

				details, err := c.client.PlaceDetails(context.Background(), &maps.PlaceDetailsRequest{
					PlaceID: place.PlaceID,
					Fields:  googleDetailFields,
				})
				time.Sleep(c.pause)
				if err != nil {
					slog.Error("google details failed", "place", place.Name, "error", err)
					continue
				}

				reviews := details.Reviews
				if len(reviews) > c.maxPerPlace {
					reviews = reviews[:c.maxPerPlace]
				}

				for _, rev := range reviews {
					if len(records) >= maxRecords {
						break
					}
					text := strings.TrimSpace(rev.Text)
					if utf8.RuneCountInString(text) < googleMinReviewLen {
						continue
					}

					records = append(records, Record{
						ID:        HashID(fmt.Sprintf("google_%s_%d", place.PlaceID, rev.Time)),
						Text:      place.Name + ": " + text,
						Source:    SourceGoogle,
						Type:      entry.Type,
						PlaceName: place.Name,
						Author:    rev.AuthorName,
						URL:       details.URL,
						Date:      strconv.Itoa(rev.Time),
						Extra: map[string]any{
							"place_id": place.PlaceID,
							"rating":   rev.Rating,
							"address":  details.FormattedAddress,
						},
					})
				}
			}
		}
	}

	slog.Info("google scrape done", "records", len(records))
	return records, nil
}

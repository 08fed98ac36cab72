package review

// Source identifies the upstream a record was scraped from.
type Source string

const (
	SourceGoogle Source = "google"
	SourceReddit Source = "reddit"
	SourceX      Source = "x"
)

// PlaceType is the category a record is classified into.
type PlaceType string

const (
	TypeHotel      PlaceType = "hotel"
	TypeRestaurant PlaceType = "restaurant"
	TypePlace      PlaceType = "place"
	TypeActivity   PlaceType = "activity"
)

// PlaceTypes lists every category in classification order.
var PlaceTypes = []PlaceType{TypeHotel, TypeRestaurant, TypePlace, TypeActivity}

// ValidPlaceType reports whether s names a known category.
func ValidPlaceType(s string) bool {
	for _, t := range PlaceTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Record is one normalized unit of scraped opinion text. Records are
// immutable once a connector emits them.
type Record struct {
	ID        string
	Text      string
	Source    Source
	Type      PlaceType
	PlaceName string
	Author    string
	URL       string
	Date      string
	Extra     map[string]any
}

// Connector fetches and normalizes records from one external source.
// Ordinary upstream failures (network errors, empty pages, rate limits) are
// absorbed: the connector logs them and returns whatever it has collected.
// Only configuration errors such as a failed credential exchange propagate.
// placeType "" means no category filter. The returned slice holds at most
// maxRecords records, deduplicated within the connector's own run.
type Connector interface {
	Fetch(destination string, placeType PlaceType, maxRecords int) ([]Record, error)
	Name() Source
}

package scraper

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/maddy021/travel-scraper/pkg/review"
)

type fakeConnector struct {
	name      review.Source
	records   []review.Record
	err       error
	gotBudget int
	gotType   review.PlaceType
}

func (f *fakeConnector) Fetch(destination string, placeType review.PlaceType, maxRecords int) ([]review.Record, error) {
	f.gotBudget = maxRecords
	f.gotType = placeType
	return f.records, f.err
}

func (f *fakeConnector) Name() review.Source {
	return f.name
}

type fakeStore struct {
	upserted []review.Record
	dest     string
	calls    int
	err      error
}

func (f *fakeStore) UpsertRecords(records []review.Record, destination string) (int, error) {
	f.calls++
	f.upserted = records
	f.dest = destination
	if f.err != nil {
		return 0, f.err
	}
	return len(records), nil
}

func rec(id string, source review.Source, placeType review.PlaceType) review.Record {
	return review.Record{ID: id, Text: "text for " + id, Source: source, Type: placeType}
}

var allSources = []review.Source{review.SourceGoogle, review.SourceReddit, review.SourceX}

func TestRunBudgetAllocation(t *testing.T) {
	google := &fakeConnector{name: review.SourceGoogle}
	reddit := &fakeConnector{name: review.SourceReddit}
	x := &fakeConnector{name: review.SourceX}
	store := &fakeStore{}

	o := New([]review.Connector{google, reddit, x}, store)

	_, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 100, Sources: allSources})

	assert.Equal(t, nil, err)
	assert.Equal(t, 40, google.gotBudget)
	assert.Equal(t, 40, reddit.gotBudget)
	assert.Equal(t, 20, x.gotBudget)
}

func TestRunUnknownSourceSplitsEvenly(t *testing.T) {
	a := &fakeConnector{name: review.Source("blog-a")}
	b := &fakeConnector{name: review.Source("blog-b")}
	store := &fakeStore{}

	o := New([]review.Connector{a, b}, store)

	_, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 100, Sources: []review.Source{"blog-a", "blog-b"}})

	assert.Equal(t, nil, err)
	assert.Equal(t, 50, a.gotBudget)
	assert.Equal(t, 50, b.gotBudget)
}

func TestRunMergesAndDeduplicates(t *testing.T) {
	// Both connectors independently produce id "x"; the first-enumerated
	// source wins.
	google := &fakeConnector{name: review.SourceGoogle, records: []review.Record{
		rec("x", review.SourceGoogle, review.TypeHotel),
		rec("g2", review.SourceGoogle, review.TypePlace),
	}}
	reddit := &fakeConnector{name: review.SourceReddit, records: []review.Record{
		rec("x", review.SourceReddit, review.TypeHotel),
		rec("r2", review.SourceReddit, review.TypeRestaurant),
	}}
	store := &fakeStore{}

	o := New([]review.Connector{google, reddit}, store)

	result, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 100, Sources: []review.Source{review.SourceGoogle, review.SourceReddit}})

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, len(store.upserted))
	assert.Equal(t, review.SourceGoogle, store.upserted[0].Source)
	assert.Equal(t, map[string]int{"google": 2, "reddit": 1}, result.BySource)
	assert.Equal(t, map[string]int{"hotel": 1, "place": 1, "restaurant": 1}, result.ByType)
}

func TestRunFailureIsolation(t *testing.T) {
	google := &fakeConnector{name: review.SourceGoogle, records: []review.Record{
		rec("g1", review.SourceGoogle, review.TypeHotel),
	}}
	reddit := &fakeConnector{name: review.SourceReddit, err: errors.New("auth exploded")}
	x := &fakeConnector{name: review.SourceX, records: []review.Record{
		rec("x1", review.SourceX, review.TypePlace),
	}}
	store := &fakeStore{}

	o := New([]review.Connector{google, reddit, x}, store)

	result, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 100, Sources: allSources})

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.BySource["reddit"])
}

func TestRunEmptySkipsPersistence(t *testing.T) {
	google := &fakeConnector{name: review.SourceGoogle}
	store := &fakeStore{}

	o := New([]review.Connector{google}, store)

	result, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 100, Sources: []review.Source{review.SourceGoogle}})

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, "Goa", result.Destination)
	assert.Equal(t, 0, store.calls)
}

func TestRunCapsMergedSetToBudget(t *testing.T) {
	var records []review.Record
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		records = append(records, rec(id, review.SourceGoogle, review.TypePlace))
	}
	google := &fakeConnector{name: review.SourceGoogle, records: records}
	store := &fakeStore{}

	o := New([]review.Connector{google}, store)

	result, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 4, Sources: []review.Source{review.SourceGoogle}})

	assert.Equal(t, nil, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 4, len(store.upserted))
}

func TestRunPersistenceFailurePropagates(t *testing.T) {
	google := &fakeConnector{name: review.SourceGoogle, records: []review.Record{
		rec("g1", review.SourceGoogle, review.TypeHotel),
	}}
	store := &fakeStore{err: errors.New("qdrant down")}

	o := New([]review.Connector{google}, store)

	_, err := o.Run(RunRequest{Destination: "Goa", MaxRecords: 100, Sources: []review.Source{review.SourceGoogle}})

	assert.NotEqual(t, nil, err)
}

func TestRunPassesPlaceTypeThrough(t *testing.T) {
	google := &fakeConnector{name: review.SourceGoogle}
	store := &fakeStore{}

	o := New([]review.Connector{google}, store)

	_, err := o.Run(RunRequest{Destination: "Goa", PlaceType: review.TypeHotel, MaxRecords: 10, Sources: []review.Source{review.SourceGoogle}})

	assert.Equal(t, nil, err)
	assert.Equal(t, review.TypeHotel, google.gotType)
}

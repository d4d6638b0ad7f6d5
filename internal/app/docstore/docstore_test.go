package docstore_test

import (
	"math"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
)

func TestRecordFloat(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want float64
	}{
		{"float", 500.0, 500},
		{"int", 200, 200},
		{"int32", int32(7), 7},
		{"int64", int64(9), 9},
		{"numeric string", " 12.5 ", 12.5},
		{"garbage string", "abc", 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
		{"missing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := docstore.Record{}
			if tt.val != nil {
				r["amount"] = tt.val
			}
			if got := r.Float("amount"); got != tt.want {
				t.Errorf("Float() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordTime(t *testing.T) {
	r := docstore.Record{
		"a": "2025-10-20",
		"b": "2025-10-20T18:30:00Z",
		"c": "not a date",
	}
	if got, ok := r.Time("a"); !ok || !got.Equal(time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date-only parse: got %v ok=%v", got, ok)
	}
	if _, ok := r.Time("b"); !ok {
		t.Error("expected RFC3339 parse to succeed")
	}
	if _, ok := r.Time("c"); ok {
		t.Error("expected garbage to fail")
	}
	if _, ok := r.Time("missing"); ok {
		t.Error("expected missing to fail")
	}
}

func TestScoped(t *testing.T) {
	if got := docstore.Scoped("Contributions", "abc123"); got != "Contributions_abc123" {
		t.Errorf("Scoped() = %q", got)
	}
}

func TestForInsert_DropsReservedKeys(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	f := docstore.ForInsert(docstore.Fields{"id": "x", "_id": "y", "createdAt": "z", "name": "Decoration"}, now)
	if _, ok := f["id"]; ok {
		t.Error("id must be dropped")
	}
	if _, ok := f["_id"]; ok {
		t.Error("_id must be dropped")
	}
	if f["createdAt"] != "2025-01-02T03:04:05.006Z" {
		t.Errorf("createdAt: got %v", f["createdAt"])
	}
	if f["name"] != "Decoration" {
		t.Error("expected regular field to be kept")
	}
}

func TestSortNewestFirst(t *testing.T) {
	recs := []docstore.Record{
		{"id": "a", "createdAt": "2025-01-01T00:00:00.000Z"},
		{"id": "c", "createdAt": "2025-03-01T00:00:00.000Z"},
		{"id": "b", "createdAt": "2025-03-01T00:00:00.000Z"},
	}
	docstore.SortNewestFirst(recs)
	got := recs[0].ID() + recs[1].ID() + recs[2].ID()
	if got != "cba" {
		t.Errorf("order: got %q, want %q", got, "cba")
	}
}

type sample struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Received bool    `json:"received"`
}

func TestEncodeDecode(t *testing.T) {
	f, err := docstore.Encode(sample{ID: "zzz", Name: "Lights", Amount: 1200, Received: true})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, ok := f["id"]; ok {
		t.Error("Encode must drop id")
	}
	if f["amount"] != 1200.0 {
		t.Errorf("amount: got %v", f["amount"])
	}

	var s sample
	err = docstore.Decode(docstore.Record{"id": "r1", "name": "Lights", "amount": "oops"}, &s)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.ID != "r1" || s.Amount != 0 {
		t.Errorf("unexpected decode: %+v", s)
	}
}

func TestSubscription_ReplaceAndClose(t *testing.T) {
	stopped := false
	sub := docstore.NewSubscription("tasks", func() { stopped = true })

	sub.Publish([]docstore.Record{{"id": "1"}})
	sub.Publish([]docstore.Record{{"id": "1"}, {"id": "2"}})

	got := <-sub.C()
	if len(got) != 2 {
		t.Errorf("expected newest buffered snapshot, got %d records", len(got))
	}

	sub.Cancel()
	sub.Cancel()
	if !stopped {
		t.Error("expected stop hook to run")
	}
	if sub.Publish(nil) {
		t.Error("Publish after Cancel must report false")
	}
	if _, ok := <-sub.C(); ok {
		t.Error("expected channel to be closed")
	}
}

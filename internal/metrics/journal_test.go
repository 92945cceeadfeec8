package metrics

import (
	"encoding/json"
	"testing"

	badger "github.com/dgraph-io/badger/v4"

	"adaptd/pkg/types"
)

func TestJournalPersistsRecords(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	recs := []types.AdaptationRecord{
		{Pattern: "explicit_examples", Examples: 3, Steps: 4, Confidence: 0.9, Accepted: true},
		{Pattern: "input_output_pairs", Examples: 2, Steps: 2, Reason: "low_confidence"},
		{Reason: "pattern_not_detected"},
	}
	for _, rec := range recs {
		j.Emit(rec)
	}
	// Close flushes the queue before closing the database.
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if j.Dropped() != 0 {
		t.Fatalf("dropped %d records", j.Dropped())
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var got []types.AdaptationRecord
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec types.AdaptationRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			got = append(got, rec)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("expected %d records, got %d", len(recs), len(got))
	}
	// Keys are timestamp-ordered, so records come back in emission order.
	for i := range recs {
		if got[i].Pattern != recs[i].Pattern || got[i].Accepted != recs[i].Accepted {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, got[i], recs[i])
		}
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	var a, b countSink
	m := MultiSink{&a, &b}
	m.Emit(types.AdaptationRecord{Accepted: true})
	m.Emit(types.AdaptationRecord{})
	if a.n != 2 || b.n != 2 {
		t.Fatalf("fan-out: a=%d b=%d", a.n, b.n)
	}
}

type countSink struct{ n int }

func (s *countSink) Emit(types.AdaptationRecord) { s.n++ }

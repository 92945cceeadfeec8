package metrics

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"adaptd/pkg/types"
)

// journalBuffer bounds the in-flight records; Emit drops instead of
// blocking when the writer falls behind.
const journalBuffer = 256

// Journal is an optional badger-backed append-only log of adaptation
// records, for offline consumption by external report tooling. Writes are
// asynchronous and lossy under pressure; the journal can never stall a
// request.
type Journal struct {
	db      *badger.DB
	ch      chan []byte
	done    chan struct{}
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// OpenJournal opens (or creates) a journal at dir and starts its writer.
func OpenJournal(dir string) (*Journal, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	j := &Journal{
		db:   db,
		ch:   make(chan []byte, journalBuffer),
		done: make(chan struct{}),
	}
	go j.writeLoop()
	return j, nil
}

// Emit queues a record for writing, dropping it when the buffer is full.
func (j *Journal) Emit(rec types.AdaptationRecord) {
	val, err := json.Marshal(rec)
	if err != nil {
		return
	}
	select {
	case j.ch <- val:
	default:
		j.dropped.Add(1)
	}
}

func (j *Journal) writeLoop() {
	defer close(j.done)
	for val := range j.ch {
		key := []byte(fmt.Sprintf("rec/%020d/%012d", time.Now().UnixNano(), j.seq.Add(1)))
		_ = j.db.Update(func(txn *badger.Txn) error {
			return txn.Set(key, val)
		})
	}
}

// Dropped returns how many records were discarded due to backpressure.
func (j *Journal) Dropped() uint64 { return j.dropped.Load() }

// Close flushes queued records and closes the database.
func (j *Journal) Close() error {
	close(j.ch)
	<-j.done
	return j.db.Close()
}

// Package journal keeps a persistent record of computations.
package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is a single completed computation.
type Record struct {
	Input  int32     `msgpack:"input" json:"input"`
	Result int32     `msgpack:"result" json:"result"`
	At     time.Time `msgpack:"at" json:"at"`
}

// Options configures a Journal.
type Options struct {
	// MaxEntries caps the number of records kept; the oldest are dropped.
	// 0 means unlimited.
	MaxEntries int
}

// Journal is an append-only, optionally bounded list of records.
type Journal struct {
	mu         sync.RWMutex
	records    []Record
	maxEntries int
}

// New creates an empty journal.
func New(opts Options) *Journal {
	return &Journal{maxEntries: opts.MaxEntries}
}

// Append adds a record, dropping the oldest ones past MaxEntries.
func (j *Journal) Append(r Record) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records = append(j.records, r)
	j.trim()
}

func (j *Journal) trim() {
	if j.maxEntries > 0 && len(j.records) > j.maxEntries {
		drop := len(j.records) - j.maxEntries
		j.records = append([]Record(nil), j.records[drop:]...)
	}
}

// Records returns a copy of the records, oldest first.
func (j *Journal) Records() []Record {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}

// Len returns the number of records.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}

// Clear removes all records.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = nil
}

// Save writes the journal to w using msgpack.
func (j *Journal) Save(w io.Writer) error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	records := j.records
	if records == nil {
		records = []Record{}
	}
	return msgpack.NewEncoder(w).Encode(records)
}

// Load replaces the journal contents with records decoded from r.
func (j *Journal) Load(r io.Reader) error {
	var records []Record
	if err := msgpack.NewDecoder(r).Decode(&records); err != nil {
		return fmt.Errorf("failed to decode journal: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = records
	j.trim()
	return nil
}

// SaveJSON writes the records to w as indented JSON.
func (j *Journal) SaveJSON(w io.Writer) error {
	records := j.Records()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// PersistToFile saves the journal to path, creating parent directories.
// The data goes to a temp file in the same directory that is then renamed
// over path, so path always holds a complete journal.
func PersistToFile(j *Journal, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create journal file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := j.Save(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write journal: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace journal file: %w", err)
	}
	return nil
}

// LoadFromFile loads the journal from path. A missing or empty file
// yields an empty journal.
func LoadFromFile(j *Journal, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No journal file is not an error
		}
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat journal file: %w", err)
	}
	if info.Size() == 0 {
		j.Clear()
		return nil
	}

	return j.Load(f)
}

// Computer is the part of the facade a Recorder wraps.
type Computer interface {
	Compute(x int32) (int32, error)
}

// Recorder appends a Record for every successful Compute.
type Recorder struct {
	Computer Computer
	Journal  *Journal
	Now      func() time.Time
}

// NewRecorder creates a Recorder that stamps records with time.Now.
func NewRecorder(c Computer, j *Journal) *Recorder {
	return &Recorder{Computer: c, Journal: j, Now: time.Now}
}

// Compute delegates to the wrapped Computer. Failed computations are not
// recorded; their error is returned unchanged.
func (r *Recorder) Compute(x int32) (int32, error) {
	result, err := r.Computer.Compute(x)
	if err != nil {
		return result, err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	r.Journal.Append(Record{Input: x, Result: result, At: now().UTC()})
	return result, nil
}

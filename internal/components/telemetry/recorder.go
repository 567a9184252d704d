package telemetry

import (
	"sync"
)

type RecordKind int

const (
	RecordBroken RecordKind = iota
	RecordWarning
	RecordDebug
	RecordCount
)

type Record struct {
	Kind   RecordKind
	Id     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory, it is meant to be
// used by tests that assert on what a component reported.
type Recorder struct {
	mutex   sync.Mutex
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(record Record) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.records = append(r.records, record)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Record{Kind: RecordBroken, Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Record{Kind: RecordWarning, Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Record{Kind: RecordDebug, Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Record{Kind: RecordCount, Id: id, Count: count})
}

// Records returns a copy of every report of the given kind.
func (r *Recorder) Records(kind RecordKind) []Record {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	out := []Record{}
	for _, record := range r.records {
		if record.Kind == kind {
			out = append(out, record)
		}
	}
	return out
}

// Has reports whether a record of the given kind and id exists.
func (r *Recorder) Has(kind RecordKind, id string) bool {
	for _, record := range r.Records(kind) {
		if record.Id == id {
			return true
		}
	}
	return false
}

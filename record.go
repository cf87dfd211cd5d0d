package seriallog

import "time"

// Record is one timestamped line. Payload is the raw line with CR and LF
// already removed; commas inside it are not escaped.
type Record struct {
	Timestamp string
	Payload   []byte
}

// NewRecord stamps line with the capture time t.
func NewRecord(t time.Time, line []byte) Record {
	return Record{
		Timestamp: FormatTimestamp(t),
		Payload:   line,
	}
}

// Bytes returns the persisted form: timestamp, payload and a trailing "\n".
func (r Record) Bytes() []byte {
	b := make([]byte, 0, len(r.Timestamp)+len(r.Payload)+1)
	b = append(b, r.Timestamp...)
	b = append(b, r.Payload...)
	return append(b, '\n')
}

func (r Record) String() string {
	return string(r.Bytes())
}

package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Progress describes how far the decoder has advanced through the byte
// source.
type Progress struct {
	BytesRead  int64
	TotalBytes int64
	EventCount int
	Percentage int
}

// ProgressFunc receives decoding progress. Percentage is monotonically
// non-decreasing and reaches 100 exactly once, at end of stream.
type ProgressFunc func(Progress)

// ParseError reports a malformed trace source: the stream is not valid
// JSON, or the top-level value is not an array.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed trace: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithProgress registers a callback invoked as decoding advances. The
// callback fires at most once per whole-percentage-point change.
func WithProgress(fn ProgressFunc) DecoderOption {
	return func(d *Decoder) {
		d.onProgress = fn
	}
}

// Decoder streams RawEvents out of a JSON array one at a time. Events are
// produced lazily: each Next call decodes exactly one array element, so a
// caller that stops calling Next stops all further I/O on the source.
type Decoder struct {
	dec        *json.Decoder
	totalBytes int64
	onProgress ProgressFunc

	count    int
	lastPct  int
	started  bool
	finished bool
}

// NewDecoder creates a Decoder over r. totalBytes is the total length of
// the source and is only used for progress percentages; pass 0 when the
// length is unknown, in which case intermediate percentages are omitted.
func NewDecoder(r io.Reader, totalBytes int64, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		dec:        json.NewDecoder(bufio.NewReader(r)),
		totalBytes: totalBytes,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next event from the trace array. It returns io.EOF
// after the final event has been consumed, and a *ParseError if the
// source is not a well-formed JSON array of events.
func (d *Decoder) Next() (RawEvent, error) {
	if d.finished {
		return RawEvent{}, io.EOF
	}

	if !d.started {
		if err := d.readArrayOpen(); err != nil {
			return RawEvent{}, err
		}
		d.started = true
	}

	if !d.dec.More() {
		// Consume the closing bracket so a trailing-garbage source still
		// fails rather than silently succeeding.
		if _, err := d.dec.Token(); err != nil {
			return RawEvent{}, &ParseError{Err: err}
		}
		d.finished = true
		d.reportFinal()
		return RawEvent{}, io.EOF
	}

	var ev RawEvent
	if err := d.dec.Decode(&ev); err != nil {
		return RawEvent{}, &ParseError{Err: err}
	}
	d.count++
	d.report()
	return ev, nil
}

// DecodeAll consumes the entire source and returns every event in trace
// order. On error no partial result is returned.
func (d *Decoder) DecodeAll() ([]RawEvent, error) {
	var events []RawEvent
	for {
		ev, err := d.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
}

// Count returns the number of events decoded so far.
func (d *Decoder) Count() int {
	return d.count
}

func (d *Decoder) readArrayOpen() error {
	tok, err := d.dec.Token()
	if err != nil {
		return &ParseError{Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return &ParseError{Err: fmt.Errorf("top-level value is %v, expected an array", tok)}
	}
	return nil
}

// report invokes the progress callback when the whole-percentage point has
// advanced. Intermediate reports are capped at 99 so that 100 is seen
// exactly once, from reportFinal.
func (d *Decoder) report() {
	if d.onProgress == nil || d.totalBytes <= 0 {
		return
	}
	read := d.dec.InputOffset()
	pct := int(read * 100 / d.totalBytes)
	if pct > 99 {
		pct = 99
	}
	if pct <= d.lastPct {
		return
	}
	d.lastPct = pct
	d.onProgress(Progress{
		BytesRead:  read,
		TotalBytes: d.totalBytes,
		EventCount: d.count,
		Percentage: pct,
	})
}

func (d *Decoder) reportFinal() {
	if d.onProgress == nil {
		return
	}
	total := d.totalBytes
	if total <= 0 {
		total = d.dec.InputOffset()
	}
	d.lastPct = 100
	d.onProgress(Progress{
		BytesRead:  d.dec.InputOffset(),
		TotalBytes: total,
		EventCount: d.count,
		Percentage: 100,
	})
}

package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/validate"
)

// Writer appends encoded records to an audit log, one per line.
type Writer struct {
	w     io.Writer
	codec *Codec
	count int
}

// NewWriter returns a Writer that encodes with codec.
func NewWriter(w io.Writer, codec *Codec) *Writer {
	return &Writer{w: w, codec: codec}
}

// Append encodes r and writes it followed by a newline. Nothing is written
// when encoding fails, and the failure is a ValidationError so the caller
// can reject the transaction instead of aborting.
func (w *Writer) Append(r model.Record) error {
	line, err := w.codec.Encode(r)
	if err != nil {
		return model.Invalid(string(validate.CheckRecord), "Transaction cannot be recorded: %v.", err)
	}
	if _, err := io.WriteString(w.w, line+"\n"); err != nil {
		return fmt.Errorf("writing %s record: %w", r.Kind, err)
	}
	w.count++
	return nil
}

// Count returns the number of records appended.
func (w *Writer) Count() int {
	return w.count
}

// OpenAppend opens path for appending, creating it if needed.
func OpenAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening transaction log: %w", err)
	}
	return f, nil
}

// ReadRecords decodes every non-blank line of an audit log.
func ReadRecords(r io.Reader, codec *Codec) ([]model.Record, error) {
	var records []model.Record
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := codec.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transaction log: %w", err)
	}
	return records, nil
}

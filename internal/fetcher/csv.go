package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures CSV streaming.
type CSVOptions struct {
	// Delimiter defaults to comma.
	Delimiter rune
	// HasHeader consumes the first row as a header instead of a record.
	HasHeader bool
	// HeaderCh, if non-nil, receives the header row (when HasHeader) and
	// is closed. Must have capacity for one send or be drained concurrently.
	HeaderCh chan<- []string
	// Comment lines starting with this rune are skipped when non-zero.
	Comment rune
	// LazyQuotes permits bare quotes inside unquoted fields.
	LazyQuotes bool
	// TrimSpace strips leading and trailing whitespace from every field.
	TrimSpace bool
}

// StreamCSV reads CSV records from r and sends them on the returned channel.
// The error channel carries at most one error and both channels close when
// the stream ends or the context is canceled.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	records := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1
		reader.ReuseRecord = false

		if opts.HasHeader {
			header, err := reader.Read()
			if err != nil {
				if opts.HeaderCh != nil {
					close(opts.HeaderCh)
				}
				if err != io.EOF {
					errCh <- eris.Wrap(err, "fetcher: read csv header")
				}
				return
			}
			if opts.TrimSpace {
				trimFields(header)
			}
			if opts.HeaderCh != nil {
				opts.HeaderCh <- header
				close(opts.HeaderCh)
			}
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "fetcher: read csv record")
				return
			}
			if opts.TrimSpace {
				trimFields(record)
			}
			select {
			case records <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "fetcher: csv stream canceled")
				return
			}
		}
	}()

	return records, errCh
}

func trimFields(fields []string) {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
}

// ReadCSV slurps an entire CSV stream into memory. Returns the header (when
// HasHeader) and all records. Convenient for the small case tables the
// pipeline joins; large boundary-adjacent tables should use StreamCSV.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, [][]string, error) {
	var header []string
	var headerCh chan []string
	if opts.HasHeader {
		headerCh = make(chan []string, 1)
		opts.HeaderCh = headerCh
	}

	records, errCh := StreamCSV(ctx, r, opts)
	if headerCh != nil {
		header = <-headerCh
	}

	var rows [][]string
	for record := range records {
		rows = append(rows, record)
	}
	if err := <-errCh; err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

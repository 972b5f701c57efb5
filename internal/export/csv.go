package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xHacka/login-log-generator/internal/models"
)

const (
	ContentType = "text/csv"
	Filename    = "output.csv"
)

var Header = []string{"log_id", "username", "timestamp", "successful"}

var ErrBadHeader = errors.New("unexpected csv header")

// ToDelimitedText renders table as UTF-8 CSV with a header row.
func ToDelimitedText(table models.LogTable) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail
	_ = WriteCSV(&buf, table)
	return buf.Bytes()
}

// WriteCSV streams table to w, one record per line.
func WriteCSV(w io.Writer, table models.LogTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	row := make([]string, len(Header))
	for _, rec := range table {
		row[0] = strconv.Itoa(rec.LogID)
		row[1] = rec.Username
		row[2] = rec.FormattedTimestamp()
		row[3] = string(rec.Successful)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseDelimitedText reads back what WriteCSV produced.
func ParseDelimitedText(r io.Reader) (models.LogTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range Header {
		if head[i] != Header[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, head[i], Header[i])
		}
	}

	var table models.LogTable
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseRow(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table = append(table, rec)
	}
	return table, nil
}

func parseRow(row []string) (models.LogRecord, error) {
	var rec models.LogRecord
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return rec, fmt.Errorf("log_id: %w", err)
	}
	ts, err := time.Parse(models.TimestampLayout, row[2])
	if err != nil {
		return rec, fmt.Errorf("timestamp: %w", err)
	}
	outcome, err := models.ParseOutcome(row[3])
	if err != nil {
		return rec, err
	}
	rec.LogID = id
	rec.Username = row[1]
	rec.Timestamp = ts
	rec.Successful = outcome
	return rec, nil
}

package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/mauv0809/rinkstats/internal/hockey"
)

// BackupKey names the audit snapshot of one submitted batch.
func BackupKey(prefix, kind, team string, at time.Time) string {
	return fmt.Sprintf("%s%s_%s_%s.csv", prefix, sanitize(kind), sanitize(team), at.UTC().Format("20060102_150405.000"))
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}

// encodeCSV renders rows under the given header.
func encodeCSV(columns []string, rows []hockey.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	line := make([]string, len(columns))
	for _, rec := range rows {
		for i, c := range columns {
			line[i] = rec[c]
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package hockey

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one sheet row keyed by column name.
type Record map[string]string

// Table is a worksheet: an ordered header and its rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// HasColumn reports whether the header contains col.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Require returns ErrMissingColumn naming the first absent column.
func (t Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// RecordFromValues converts loosely typed form input into a Record.
// Nil values become blank cells.
func RecordFromValues(values map[string]any) Record {
	rec := make(Record, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case nil:
			rec[k] = ""
		case string:
			rec[k] = val
		case bool:
			rec[k] = formatYesNo(val)
		case float64:
			if val == math.Trunc(val) {
				rec[k] = strconv.FormatInt(int64(val), 10)
			} else {
				rec[k] = strconv.FormatFloat(val, 'f', -1, 64)
			}
		default:
			rec[k] = fmt.Sprint(val)
		}
	}
	return rec
}

// reader accumulates issues while pulling typed values from a record.
type reader struct {
	rec    Record
	issues []FieldIssue
}

func (r *reader) str(col string) string {
	return strings.TrimSpace(r.rec[col])
}

func (r *reader) issue(col, msg string) {
	r.issues = append(r.issues, FieldIssue{Column: col, Value: r.rec[col], Message: msg})
}

// count parses a non-negative integer cell. Blank cells are zero; anything
// non-numeric is reported and read as zero.
func (r *reader) count(col string) int {
	raw := r.str(col)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0
	}
	n, ok := parseInt(raw)
	if !ok {
		r.issue(col, "not a number, using 0")
		return 0
	}
	return n
}

// optional parses an integer cell that may legitimately be empty.
func (r *reader) optional(col string) *int {
	raw := r.str(col)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil
	}
	n, ok := parseInt(raw)
	if !ok {
		r.issue(col, "not a number, leaving empty")
		return nil
	}
	return &n
}

func (r *reader) yesNo(col string) bool {
	switch strings.ToLower(r.str(col)) {
	case "yes", "y", "true", "1", "x":
		return true
	}
	return false
}

func (r *reader) period(col string) Period {
	raw := r.str(col)
	p, err := ParsePeriod(raw)
	if err != nil {
		if raw != "" {
			r.issue(col, err.Error())
		}
		return Period(raw)
	}
	return p
}

func (r *reader) game() Game {
	date := r.str(ColGameDate)
	if date != "" {
		normalized, err := NormalizeGameDate(date)
		if err != nil {
			r.issue(ColGameDate, err.Error())
		} else {
			date = normalized
		}
	}
	return Game{
		GameDate: date,
		Team:     r.str(ColTeam),
		Opponent: r.str(ColOpponent),
	}
}

func parseInt(raw string) (int, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	// Spreadsheet exports render whole numbers as "17.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func formatYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatOptional(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

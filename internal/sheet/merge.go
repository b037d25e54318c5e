package sheet

import (
	"slices"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/hockey"
)

// merge appends rows after the existing ones. Existing rows are never
// reordered or altered beyond GameDate normalization. New rows are reindexed
// to the existing columns; a sheet with no columns adopts columns (or, when
// empty, the union of the new rows' keys in sorted order).
func merge(sheet string, existing hockey.Table, rows []hockey.Record, columns []string) (hockey.Table, []hockey.Record) {
	cols := existing.Columns
	if len(cols) == 0 {
		cols = adoptColumns(rows, columns)
	}

	var dropped []string
	out := hockey.Table{
		Columns: slices.Clone(cols),
		Rows:    make([]hockey.Record, 0, len(existing.Rows)+len(rows)),
	}
	for _, rec := range existing.Rows {
		out.Rows = append(out.Rows, normalizeDate(rec))
	}
	added := make([]hockey.Record, 0, len(rows))
	for _, rec := range rows {
		re := make(hockey.Record, len(cols))
		for _, c := range cols {
			re[c] = rec[c]
		}
		for k, v := range rec {
			if _, ok := re[k]; !ok && v != "" && !slices.Contains(dropped, k) {
				dropped = append(dropped, k)
			}
		}
		re = normalizeDate(re)
		out.Rows = append(out.Rows, re)
		added = append(added, re)
	}
	if len(dropped) > 0 {
		log.Warn("Dropping columns unknown to the sheet", "sheet", sheet, "columns", dropped)
	}
	return out, added
}

func adoptColumns(rows []hockey.Record, preferred []string) []string {
	cols := slices.Clone(preferred)
	var extra []string
	for _, rec := range rows {
		for k := range rec {
			if !slices.Contains(cols, k) && !slices.Contains(extra, k) {
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func normalizeDate(rec hockey.Record) hockey.Record {
	v, ok := rec[hockey.ColGameDate]
	if !ok || v == "" {
		return rec
	}
	iso, err := hockey.NormalizeGameDate(v)
	if err != nil || iso == v {
		return rec
	}
	out := make(hockey.Record, len(rec))
	for k, val := range rec {
		out[k] = val
	}
	out[hockey.ColGameDate] = iso
	return out
}

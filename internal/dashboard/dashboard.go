package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/roster"
	"github.com/mauv0809/rinkstats/internal/sheet"
	"github.com/mauv0809/rinkstats/internal/stats"
)

// WorkbookReader is the part of sheet.Store the dashboard reads through.
type WorkbookReader interface {
	Workbook(ctx context.Context) (*sheet.Workbook, error)
}

// Issue is a cell that could not be parsed, located by sheet.
type Issue struct {
	Sheet string `json:"sheet"`
	hockey.FieldIssue
}

// Snapshot is the workbook decoded, joined with the roster and ready for
// aggregation.
type Snapshot struct {
	Data   *stats.Data
	Issues []Issue
}

// Service builds snapshots from the workbook.
type Service struct {
	store    WorkbookReader
	homeSide string
}

func New(store WorkbookReader, homeSide string) *Service {
	return &Service{store: store, homeSide: homeSide}
}

// Load reads the workbook and runs the join pipeline. A missing workbook or
// sheet yields no rows. A sheet without its key columns is an error.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	wb, err := s.store.Workbook(ctx)
	if errors.Is(err, sheet.ErrNotFound) {
		log.Warn("Workbook not found, serving empty dashboard")
		wb = sheet.NewWorkbook()
	} else if err != nil {
		return nil, fmt.Errorf("failed to load workbook: %w", err)
	}
	return s.build(wb)
}

func (s *Service) build(wb *sheet.Workbook) (*Snapshot, error) {
	snap := &Snapshot{}
	collect := func(sheetName string, issues []hockey.FieldIssue) {
		for _, is := range issues {
			snap.Issues = append(snap.Issues, Issue{Sheet: sheetName, FieldIssue: is})
		}
	}

	rosterEntries, err := decodeSheet(wb, hockey.SheetRoster, hockey.DecodeRoster, collect)
	if err != nil {
		return nil, err
	}
	scoring, err := decodeSheet(wb, hockey.KindScoring.Sheet(), hockey.DecodeScoring, collect)
	if err != nil {
		return nil, err
	}
	shots, err := decodeSheet(wb, hockey.KindShots.Sheet(), hockey.DecodeShots, collect)
	if err != nil {
		return nil, err
	}
	penalties, err := decodeSheet(wb, hockey.KindPenalties.Sheet(), hockey.DecodePenalties, collect)
	if err != nil {
		return nil, err
	}
	faceoffs, err := decodeSheet(wb, hockey.KindFaceoff.Sheet(), hockey.DecodeFaceoffs, collect)
	if err != nil {
		return nil, err
	}
	goalies, err := decodeSheet(wb, hockey.KindGoalie.Sheet(), hockey.DecodeGoalies, collect)
	if err != nil {
		return nil, err
	}

	ix := roster.NewIndex(rosterEntries)
	j := roster.NewJoiner(ix, s.homeSide)
	snap.Data = &stats.Data{
		HomeSide:  s.homeSide,
		Roster:    ix,
		Scoring:   j.Scoring(scoring),
		Shots:     j.Shots(shots),
		Penalties: j.Penalties(penalties),
		Faceoffs:  j.Faceoffs(faceoffs),
		Goalies:   j.Goalies(goalies),
	}
	if len(snap.Issues) > 0 {
		log.Warn("Workbook has unreadable cells", "count", len(snap.Issues))
	}
	return snap, nil
}

func decodeSheet[T any](wb *sheet.Workbook, name string, decode func(hockey.Table) ([]T, []hockey.FieldIssue, error), collect func(string, []hockey.FieldIssue)) ([]T, error) {
	t, ok := wb.Table(name)
	if !ok || (len(t.Columns) == 0 && len(t.Rows) == 0) {
		// a blank tab has no header yet
		return nil, nil
	}
	rows, issues, err := decode(t)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}
	collect(name, issues)
	return rows, nil
}

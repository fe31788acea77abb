// Package sheetstore provides a counter.Store backed by a Google
// Sheet, the original "spreadsheet as database". One tab holds a
// header row [slug likes dislikes infos] followed by one data row per
// slug. Lookups are a linear scan over the data rows; with a sheet
// that humans also edit, the first matching row wins and writes go
// back to that same row.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/sundayezeilo/pagecounts/internal/counter"
)

// headerRow is the fixed first row of the counters tab.
var headerRow = []any{"slug", "likes", "dislikes", "infos"}

// Store persists counter rows in one tab of a Google Sheet.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

var _ counter.Store = (*Store)(nil)

// Config holds the Sheets backend settings.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string // empty means Application Default Credentials
}

// New creates a Sheets-backed store. It does not touch the spreadsheet;
// call EnsureSheet before serving.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// EnsureSheet creates the counters tab and its header row on first
// use, so a fresh spreadsheet works without manual setup.
func (s *Store) EnsureSheet(ctx context.Context) error {
	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet %q: %w", s.spreadsheetID, err)
	}

	found := false
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			found = true
			break
		}
	}

	if !found {
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: s.sheetName},
				},
			}},
		}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("add sheet %q: %w", s.sheetName, err)
		}
	}

	// Write the header if the first row is blank. A pre-populated tab
	// keeps whatever header it already has.
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeRef("A1:D1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) == 0 {
		vr := &sheets.ValueRange{Values: [][]any{headerRow}}
		_, err := s.svc.Spreadsheets.Values.
			Update(s.spreadsheetID, s.rangeRef("A1:D1"), vr).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
	}

	return nil
}

// Get implements counter.Store.
func (s *Store) Get(ctx context.Context, slug string) (counter.Counts, error) {
	_, counts, err := s.findRow(ctx, slug)
	return counts, err
}

// Upsert implements counter.Store. Existing rows are rewritten in
// place; unknown slugs get a row appended after the last data row.
// Concurrent upserts of a brand-new slug from separate processes can
// still append twice; reads then stick to the first row (see Get).
func (s *Store) Upsert(ctx context.Context, counts counter.Counts) error {
	rowNum, _, err := s.findRow(ctx, counts.Slug)
	row := []any{counts.Slug, counts.Likes, counts.Dislikes, counts.Infos}

	switch {
	case err == nil:
		vr := &sheets.ValueRange{Values: [][]any{row}}
		rng := s.rangeRef(fmt.Sprintf("A%d:D%d", rowNum, rowNum))
		_, err := s.svc.Spreadsheets.Values.
			Update(s.spreadsheetID, rng, vr).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("update row %d for %q: %w", rowNum, counts.Slug, err)
		}
		return nil

	case errors.Is(err, counter.ErrNotFound):
		vr := &sheets.ValueRange{Values: [][]any{row}}
		_, err := s.svc.Spreadsheets.Values.
			Append(s.spreadsheetID, s.rangeRef("A:D"), vr).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("append row for %q: %w", counts.Slug, err)
		}
		return nil

	default:
		return err
	}
}

// findRow scans data rows for an exact slug match. It returns the
// 1-based spreadsheet row number (data starts at row 2) and the parsed
// counts. Duplicate rows from manual edits resolve to the first match.
func (s *Store) findRow(ctx context.Context, slug string) (int, counter.Counts, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeRef("A2:D")).Context(ctx).Do()
	if err != nil {
		return 0, counter.Counts{}, fmt.Errorf("read data rows: %w", err)
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cellString(row[0]) != slug {
			continue
		}

		counts := counter.Zero(slug)
		for j, f := range counter.Fields() {
			col := j + 1
			if col >= len(row) {
				break
			}
			v, err := cellInt64(row[col])
			if err != nil {
				return 0, counter.Counts{}, fmt.Errorf("row %d, column %s: %w", i+2, f, err)
			}
			counts = counts.Add(f, v)
		}
		return i + 2, counts, nil
	}

	return 0, counter.Counts{}, counter.ErrNotFound
}

// rangeRef builds an A1-notation range scoped to the counters tab.
func (s *Store) rangeRef(cells string) string {
	return fmt.Sprintf("'%s'!%s", s.sheetName, cells)
}

func cellString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// cellInt64 parses a counter cell. Blank cells count as 0, matching
// rows that were appended before all columns existed.
func cellInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", x)
		}
		return n, nil
	case float64:
		return int64(x), nil
	default:
		return 0, fmt.Errorf("unsupported cell type %T", v)
	}
}

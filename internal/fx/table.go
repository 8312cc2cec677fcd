package fx

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Pair keys the local rate table by upper-cased currency codes.
type Pair struct {
	From string
	To   string
}

// Table holds locally pinned exchange rates. It is loaded once per conversion
// run and never mutated afterwards.
type Table map[Pair]float64

// Rate looks up an exact pair, case-insensitively.
func (t Table) Rate(from, to string) (float64, bool) {
	r, ok := t[Pair{From: strings.ToUpper(from), To: strings.ToUpper(to)}]
	return r, ok
}

// LoadTable reads rates from a CSV file with header columns
// from_currency,to_currency,rate (extra columns ignored, any order). A missing
// file or a header without the required columns yields an empty table with a
// warning; the table source never fails a run.
func LoadTable(path string, logger *slog.Logger) Table {
	if logger == nil {
		logger = slog.Default()
	}
	table := Table{}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("fx.table.unavailable", "path", path, "error", err)
		return table
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		logger.Warn("fx.table.unreadable", "path", path, "error", err)
		return table
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	fromIdx, okFrom := cols["from_currency"]
	toIdx, okTo := cols["to_currency"]
	rateIdx, okRate := cols["rate"]
	if !okFrom || !okTo || !okRate {
		logger.Warn("fx.table.missing_columns", "path", path, "header", strings.Join(header, ","))
		return table
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("fx.table.bad_row", "path", path, "line", line, "error", err)
			continue
		}
		if fromIdx >= len(record) || toIdx >= len(record) || rateIdx >= len(record) {
			logger.Warn("fx.table.short_row", "path", path, "line", line)
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(record[rateIdx]), 64)
		if err != nil {
			logger.Warn("fx.table.bad_rate", "path", path, "line", line, "value", record[rateIdx])
			continue
		}
		key := Pair{
			From: strings.ToUpper(strings.TrimSpace(record[fromIdx])),
			To:   strings.ToUpper(strings.TrimSpace(record[toIdx])),
		}
		table[key] = rate
	}

	logger.Info("fx.table.loaded", "path", path, "rates", len(table))
	return table
}

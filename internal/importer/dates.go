package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"slices"
	"time"
)

// dates returns every date in path that parses. Unparsable dates and read
// failures are ignored.
func (z *ZenMoney) dates(path string) []time.Time {
	rr, err := openRecords(path, zenmoneyDelimiter)
	if err != nil {
		return nil
	}
	defer rr.Close()

	var out []time.Time
	for {
		rec, _, err := rr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			break
		}
		s := rec.get(colDate)
		if s == "" {
			continue
		}
		if d, err := parseDate(s); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// Date returns the latest transaction date in path.
func (z *ZenMoney) Date(path string) (time.Time, bool) {
	dates := z.dates(path)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return slices.MaxFunc(dates, time.Time.Compare), true
}

// Filename returns the archive name for path: zenmoney-<date>.csv when all
// rows share one date, zenmoney-<min>-to-<max>.csv otherwise.
func (z *ZenMoney) Filename(path string) (string, bool) {
	dates := z.dates(path)
	if len(dates) == 0 {
		return "", false
	}
	lo := slices.MinFunc(dates, time.Time.Compare)
	hi := slices.MaxFunc(dates, time.Time.Compare)
	if lo.Equal(hi) {
		return zenmoneyName + "-" + lo.Format(dateFormat) + zenmoneyExt, true
	}
	return zenmoneyName + "-" + lo.Format(dateFormat) + "-to-" + hi.Format(dateFormat) + zenmoneyExt, true
}

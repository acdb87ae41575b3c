package production

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"canasim/internal/params"
)

// ReadObservations reads ';'-separated rows of
// period;cumulative_cane[;atr[;mix]]. A first row whose period column is not a
// number is taken as a header. Lines starting with '#' are skipped. Values are
// kept as typed; ApplyRealData parses them. A row that is short or has a
// malformed period is returned with Invalid set, so ApplyRealData rejects it
// and the other rows still apply. Only an unreadable stream is an error.
func ReadObservations(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Observation
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read observations: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) < 2 {
			out = append(out, Observation{Invalid: &params.DataFormatError{
				Field: "row",
				Value: strings.Join(rec, ";"),
				Err:   fmt.Errorf("line %d needs at least period and cumulative cane", line),
			}})
			continue
		}

		period, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if row == 0 {
				continue
			}
			out = append(out, Observation{
				CumulativeCane: strings.TrimSpace(rec[1]),
				Invalid:        &params.DataFormatError{Field: "period", Value: rec[0], Err: fmt.Errorf("line %d: %w", line, err)},
			})
			continue
		}

		o := Observation{Period: period, CumulativeCane: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			o.ATR = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			o.Mix = strings.TrimSpace(rec[3])
		}
		out = append(out, o)
	}
	return out, nil
}

// ReadObservationsFile opens path and reads it with ReadObservations.
func ReadObservationsFile(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer f.Close()
	return ReadObservations(f)
}

// Package ingest parses probdata-style CSV exports into an optimizer
// problem: one row per asset/base pair with a precomputed distance.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"maintopt/internal/geo"
)

// coordTolerance groups rows whose coordinates differ only by GPS jitter.
const coordTolerance = 1e-3

// ProblemData is the parsed instance: unique assets and bases plus the
// assets x bases distance matrix in kilometers.
type ProblemData struct {
	Assets []geo.Coord
	Bases  []geo.Coord
	Dist   [][]float64
}

type row struct {
	base  geo.Coord
	asset geo.Coord
	dist  float64
}

// ParseCSV reads semicolon-separated rows of
// base_lat;base_lon;asset_lat;asset_lon;distance with decimal commas.
// Rows that fail to parse are skipped. Assets and bases are de-duplicated
// by coordinate; pairs missing from the file fall back to the haversine
// distance.
func ParseCSV(r io.Reader) (*ProblemData, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 5 {
			continue
		}
		vals := make([]float64, 5)
		ok := true
		for i := 0; i < 5; i++ {
			v, err := parseDecimal(rec[i])
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		rows = append(rows, row{
			base:  geo.Coord{Lat: vals[0], Lon: vals[1]},
			asset: geo.Coord{Lat: vals[2], Lon: vals[3]},
			dist:  vals[4],
		})
	}
	if len(rows) == 0 {
		return nil, errors.New("no parsable rows")
	}

	var data ProblemData
	for _, rw := range rows {
		if findCoord(data.Assets, rw.asset) < 0 {
			data.Assets = append(data.Assets, rw.asset)
		}
		if findCoord(data.Bases, rw.base) < 0 {
			data.Bases = append(data.Bases, rw.base)
		}
	}

	data.Dist = make([][]float64, len(data.Assets))
	for i, a := range data.Assets {
		data.Dist[i] = make([]float64, len(data.Bases))
		for j, b := range data.Bases {
			if d, ok := lookupDistance(rows, a, b); ok {
				data.Dist[i][j] = d
			} else {
				data.Dist[i][j] = geo.HaversineKm(a, b)
			}
		}
	}
	return &data, nil
}

// parseDecimal accepts both decimal commas and decimal points.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return strconv.ParseFloat(s, 64)
}

func sameCoord(a, b geo.Coord) bool {
	return abs(a.Lat-b.Lat) < coordTolerance && abs(a.Lon-b.Lon) < coordTolerance
}

func findCoord(list []geo.Coord, c geo.Coord) int {
	for i, x := range list {
		if sameCoord(x, c) {
			return i
		}
	}
	return -1
}

func lookupDistance(rows []row, asset, base geo.Coord) (float64, bool) {
	for _, rw := range rows {
		if sameCoord(rw.asset, asset) && sameCoord(rw.base, base) {
			return rw.dist, true
		}
	}
	return 0, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

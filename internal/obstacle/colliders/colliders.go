// Package colliders reads obstacle survey tables into obstacle records.
//
// The expected layout is an optional home-position line, a header line and
// then one row per obstacle:
//
//	lat0 37.792480, lon0 -122.397450
//	posX,posY,posZ,halfSizeX,halfSizeY,halfSizeZ
//	-310.2389,-439.2315,85.5,5,5,85.5
//
// Columns are north, east, altitude and the three half-extents in metres.
package colliders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/aerial.sampling/internal/monitoring"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

// Home is the geodetic origin of the local north/east frame.
type Home struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// File is a parsed survey table.
type File struct {
	Home    *Home // nil when the table has no home line
	Records []obstacle.Record
}

// Load reads the table at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open colliders file: %w", err)
	}
	defer f.Close()

	out, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Logf("colliders: loaded %d records from %s", len(out.Records), path)
	return out, nil
}

// Read parses a table from r. Records are returned as read; they are
// validated when an obstacle set is built from them.
func Read(r io.Reader) (*File, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var rows []row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read colliders CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row{fields: fields, line: line})
	}
	return parseRows(rows)
}

// row is one CSV record with the input line it started on; comment and
// blank lines are skipped by the reader but still counted.
type row struct {
	fields []string
	line   int
}

func parseRows(rows []row) (*File, error) {
	out := &File{}
	if len(rows) > 0 && isHomeLine(rows[0].fields) {
		home, err := parseHome(rows[0].fields)
		if err != nil {
			return nil, err
		}
		out.Home = home
		rows = rows[1:]
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if len(rows[0].fields) != 6 {
		return nil, fmt.Errorf("line %d: invalid header: expected 6 columns, got %d", rows[0].line, len(rows[0].fields))
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0].fields[0]), 64); err == nil {
		return nil, fmt.Errorf("invalid header: first row is numeric")
	}

	out.Records = make([]obstacle.Record, 0, len(rows)-1)
	for _, r := range rows[1:] {
		line := r.line
		if len(r.fields) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 columns, got %d", line, len(r.fields))
		}
		var v [6]float64
		for j, field := range r.fields {
			f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, j+1, err)
			}
			v[j] = f
		}
		out.Records = append(out.Records, obstacle.Record{
			North: v[0], East: v[1], Alt: v[2],
			DNorth: v[3], DEast: v[4], DAlt: v[5],
		})
	}
	return out, nil
}

func isHomeLine(row []string) bool {
	return len(row) > 0 && strings.HasPrefix(strings.ToLower(strings.TrimSpace(row[0])), "lat0")
}

func parseHome(row []string) (*Home, error) {
	if len(row) != 2 {
		return nil, fmt.Errorf("invalid home line: expected \"lat0 <deg>, lon0 <deg>\"")
	}
	var home Home
	for _, field := range row {
		key, value, ok := strings.Cut(strings.TrimSpace(field), " ")
		if !ok {
			return nil, fmt.Errorf("invalid home field %q", field)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid home field %q: %w", field, err)
		}
		switch strings.ToLower(key) {
		case "lat0":
			home.Lat = f
		case "lon0":
			home.Lon = f
		default:
			return nil, fmt.Errorf("unknown home field %q", key)
		}
	}
	return &home, nil
}

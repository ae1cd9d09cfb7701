package colliders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

const sample = `lat0 37.792480, lon0 -122.397450
posX,posY,posZ,halfSizeX,halfSizeY,halfSizeZ
-310.2389,-439.2315,85.5,5,5,85.5
0,0,5,2,3,1
`

func TestRead(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Home == nil || f.Home.Lat != 37.79248 || f.Home.Lon != -122.39745 {
		t.Errorf("Home = %+v", f.Home)
	}
	want := []obstacle.Record{
		{North: -310.2389, East: -439.2315, Alt: 85.5, DNorth: 5, DEast: 5, DAlt: 85.5},
		{North: 0, East: 0, Alt: 5, DNorth: 2, DEast: 3, DAlt: 1},
	}
	if diff := cmp.Diff(want, f.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_NoHomeLine(t *testing.T) {
	f, err := Read(strings.NewReader("north,east,alt,dn,de,da\n1,2,3,4,5,6\n"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Home != nil {
		t.Errorf("expected no home, got %+v", f.Home)
	}
	if len(f.Records) != 1 || f.Records[0].DAlt != 6 {
		t.Errorf("unexpected records %+v", f.Records)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	f, err := Read(strings.NewReader("posX,posY,posZ,halfSizeX,halfSizeY,halfSizeZ\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Records) != 0 {
		t.Errorf("expected no records, got %d", len(f.Records))
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", "missing header"},
		{"home only", "lat0 1, lon0 2\n", "missing header"},
		{"numeric header", "1,2,3,4,5,6\n", "first row is numeric"},
		{"short header", "a,b,c\n", "expected 6 columns"},
		{"short row", "a,b,c,d,e,f\n1,2,3\n", "line 2: expected 6 columns"},
		{"bad number", "lat0 1, lon0 2\na,b,c,d,e,f\n1,2,x,4,5,6\n", "line 3 column 3"},
		{"bad number after comments", "# survey\nlat0 1, lon0 2\n\na,b,c,d,e,f\n# first row\n1,2,x,4,5,6\n", "line 6 column 3"},
		{"short row after blank lines", "a,b,c,d,e,f\n\n\n1,2,3,4,5,6\n1,2\n", "line 5: expected 6 columns"},
		{"bad home", "lat0 north, lon0 2\na,b,c,d,e,f\n", "invalid home field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colliders.csv")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Records) != 2 {
		t.Errorf("got %d records", len(f.Records))
	}

	s, err := obstacle.NewSet(f.Records)
	if err != nil {
		t.Fatalf("records should build a set: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("set length %d", s.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

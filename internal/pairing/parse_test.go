package pairing

import (
	"reflect"
	"testing"
)

func TestParseTuples(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []Tuple
		wantErr bool
	}{
		{"single pair", "111,555", []Tuple{{Src: 111, Dst: 555}}, false},
		{"multiple pairs", "111,555;112,600", []Tuple{{Src: 111, Dst: 555}, {Src: 112, Dst: 600}}, false},
		{"whitespace is tolerated", " 111 , 555 ", []Tuple{{Src: 111, Dst: 555}}, false},
		{"empty input is empty", "", nil, false},
		{"missing member", "111", nil, true},
		{"too many members", "111,555,600", nil, true},
		{"non-numeric ID", "111,abc", nil, true},
		{"zero ID", "0,555", nil, true},
		{"negative ID", "-1,555", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTuples(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTuples(%q): %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTuples(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	got, err := ParseIDList("100,101,102")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{100, 101, 102}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := ParseIDList("100,,102"); err == nil {
		t.Fatal("expected an error for an empty member")
	}
}

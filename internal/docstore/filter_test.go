package docstore

import (
	"testing"
	"time"
)

func TestEquals_MissingFieldNeverMatches(t *testing.T) {
	t.Parallel()

	r := Record{"name": "Ann"}
	if (Equals{Field: "email", Value: nil}).Matches(r) {
		t.Fatalf("absent field must not match, even against nil")
	}
}

func TestEquals_NestedValuesCompareDeeply(t *testing.T) {
	t.Parallel()

	r := Record{"tags": []any{"urgent", "night-shift"}}
	p := Equals{Field: "tags", Value: []any{"urgent", "night-shift"}}
	if !p.Matches(r) {
		t.Fatalf("equal slices should match")
	}

	p.Value = []any{"urgent"}
	if p.Matches(r) {
		t.Fatalf("different slices must not match")
	}
}

func TestAfter_RejectsNonTimestampValues(t *testing.T) {
	t.Parallel()

	threshold := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		rec  Record
	}{
		{"missing field", Record{}},
		{"not a string", Record{"expire": 12345}},
		{"unparsable string", Record{"expire": "tomorrow-ish"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if (After{Field: "expire", Threshold: threshold}).Matches(tc.rec) {
				t.Fatalf("must not match")
			}
		})
	}
}

func TestFilter_NilMatchesEverything(t *testing.T) {
	t.Parallel()

	var f Filter
	if !f.Matches(Record{"anything": true}) {
		t.Fatalf("nil filter imposes no constraint")
	}
	if !f.Matches(Record{}) {
		t.Fatalf("nil filter matches the empty record")
	}
}

package nlu

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type stubSplitter struct {
	items []string
	err   error
	calls int
}

func (s *stubSplitter) SplitItems(ctx context.Context, text string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func TestSplitDelimiters(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"5 cajas de cerveza y 3 gaseosas", []string{"5 cajas de cerveza", "3 gaseosas"}},
		{"leche, pan; huevos", []string{"leche", "pan", "huevos"}},
		{"solo leche", []string{"solo leche"}},
		{"  leche  ,  , pan ", []string{"leche", "pan"}},
		{"ayuda", []string{"ayuda"}},
	}
	for _, tc := range cases {
		if got := SplitDelimiters(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitDelimiters(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSplitDelimitersDoesNotSplitInsideWords(t *testing.T) {
	// "y" as a letter inside a word is not a conjunction
	got := SplitDelimiters("yogurt de fresa")
	if !reflect.DeepEqual(got, []string{"yogurt de fresa"}) {
		t.Fatalf("unexpected split %v", got)
	}
}

func TestSegmentPrefersDelimiterStructure(t *testing.T) {
	oracle := &stubSplitter{items: []string{"no debería usarse"}}
	seg := NewSegmenter(SegmenterParams{Oracle: oracle})

	got := seg.Segment(context.Background(), "2 leches y 3 panes")
	if !reflect.DeepEqual(got, []string{"2 leches", "3 panes"}) {
		t.Fatalf("unexpected segments %v", got)
	}
	if oracle.calls != 0 {
		t.Fatal("oracle must not run when delimiters found structure")
	}
}

func TestSegmentConsultsOracleForSingleSegment(t *testing.T) {
	oracle := &stubSplitter{items: []string{"2 leches", "3 panes"}}
	seg := NewSegmenter(SegmenterParams{Oracle: oracle})

	got := seg.Segment(context.Background(), "quiero 2 leches 3 panes")
	if !reflect.DeepEqual(got, []string{"2 leches", "3 panes"}) {
		t.Fatalf("unexpected segments %v", got)
	}
	if oracle.calls != 1 {
		t.Fatalf("expected one oracle call, got %d", oracle.calls)
	}
}

func TestSegmentOracleFailureDegradesToSingleSegment(t *testing.T) {
	oracle := &stubSplitter{err: errors.New("timeout")}
	seg := NewSegmenter(SegmenterParams{Oracle: oracle})

	got := seg.Segment(context.Background(), "quiero algo raro")
	if !reflect.DeepEqual(got, []string{"quiero algo raro"}) {
		t.Fatalf("expected whole input as one segment, got %v", got)
	}
}

func TestSegmentWithoutOracle(t *testing.T) {
	seg := NewSegmenter(SegmenterParams{})
	got := seg.Segment(context.Background(), "una cosa")
	if !reflect.DeepEqual(got, []string{"una cosa"}) {
		t.Fatalf("unexpected segments %v", got)
	}
}

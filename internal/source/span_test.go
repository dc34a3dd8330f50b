package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{
			"disjoint",
			Span{File: 1, Start: 0, End: 2},
			Span{File: 1, Start: 8, End: 10},
			Span{File: 1, Start: 0, End: 10},
		},
		{
			"contained",
			Span{File: 1, Start: 0, End: 10},
			Span{File: 1, Start: 3, End: 5},
			Span{File: 1, Start: 0, End: 10},
		},
		{
			"extends left",
			Span{File: 1, Start: 5, End: 10},
			Span{File: 1, Start: 2, End: 6},
			Span{File: 1, Start: 2, End: 10},
		},
		{
			"different file ignored",
			Span{File: 1, Start: 5, End: 10},
			Span{File: 2, Start: 0, End: 100},
			Span{File: 1, Start: 5, End: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanBasics(t *testing.T) {
	s := Span{File: 3, Start: 4, End: 9}
	if s.Empty() {
		t.Fatalf("span should not be empty")
	}
	if s.Len() != 5 {
		t.Fatalf("len: got %d", s.Len())
	}
	if !s.Contains(4) || s.Contains(9) {
		t.Fatalf("half-open containment violated")
	}
	if (Span{Start: 7, End: 7}).Empty() != true {
		t.Fatalf("empty span not reported")
	}
}

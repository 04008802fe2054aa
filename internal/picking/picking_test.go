package picking

import (
	"testing"

	"github.com/park285/chess3d/internal/board"
)

type node struct {
	name   string
	parent *node
}

func (n *node) Name() string { return n.name }

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func tagged(name string) Hit { return Hit{Node: &node{name: name}} }

func TestResolveFirstMatchWins(t *testing.T) {
	got := Resolve([]Hit{tagged("square_3_4"), tagged("piece_2_2")})
	if got.Kind != CellAt || got.Square != board.MustSquare(3, 4) {
		t.Fatalf("got %v, want cell 3,4", got)
	}
}

func TestResolveSkipsGarbage(t *testing.T) {
	got := Resolve([]Hit{tagged("garbage_tag"), tagged("piece_5_5")})
	if got.Kind != PieceAt || got.Square != board.MustSquare(5, 5) {
		t.Fatalf("got %v, want piece 5,5", got)
	}
}

func TestResolveWalksAncestors(t *testing.T) {
	root := &node{name: "pieces"}
	group := &node{name: "piece_6_4", parent: root}
	geometry := &node{name: "", parent: group}
	got := Resolve([]Hit{{Node: geometry}})
	if got.Kind != PieceAt || got.Square != board.MustSquare(6, 4) {
		t.Fatalf("got %v, want piece 6,4", got)
	}
}

func TestResolveMalformedContinuesToAncestor(t *testing.T) {
	root := &node{name: "board"}
	tile := &node{name: "square_1_2", parent: root}
	bad := &node{name: "piece_x_2", parent: tile}
	got := Resolve([]Hit{{Node: bad}})
	if got.Kind != CellAt || got.Square != board.MustSquare(1, 2) {
		t.Fatalf("got %v, want cell 1,2", got)
	}
}

func TestResolveNone(t *testing.T) {
	if got := Resolve(nil); got.Kind != None {
		t.Fatalf("empty hits: %v", got)
	}
	hits := []Hit{tagged("board"), tagged("highlight_2_2"), {Node: &node{}}}
	if got := Resolve(hits); got.Kind != None {
		t.Fatalf("untagged hits: %v", got)
	}
}

func TestParseTag(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		kind Kind
	}{
		{"piece_0_0", true, PieceAt},
		{"square_7_7", true, CellAt},
		{"piece_1_2_3", false, None},
		{"piece_1", false, None},
		{"square_a_1", false, None},
		{"square_8_0", false, None},
		{"square_-1_0", false, None},
		{"highlight_1_1", false, None},
		{"", false, None},
	}
	for _, tc := range cases {
		got, ok := ParseTag(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseTag(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got.Kind != tc.kind {
			t.Fatalf("ParseTag(%q) kind = %v", tc.in, got.Kind)
		}
	}
}

func TestTagsRoundTrip(t *testing.T) {
	sq := board.MustSquare(4, 6)
	if got, ok := ParseTag(PieceTag(sq)); !ok || got != (Target{Kind: PieceAt, Square: sq}) {
		t.Fatalf("piece tag round trip: %v %v", got, ok)
	}
	if got, ok := ParseTag(SquareTag(sq)); !ok || got != (Target{Kind: CellAt, Square: sq}) {
		t.Fatalf("square tag round trip: %v %v", got, ok)
	}
}

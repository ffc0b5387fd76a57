package console

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"liftbank/src/types"
	"liftbank/src/utils"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		expected Input
	}{
		{"fb:0,2", Input{Kind: IK_FloorCall, Floor: 0, Dir: types.PS_Up}},
		{"fb:8,1", Input{Kind: IK_FloorCall, Floor: 8, Dir: types.PS_Down}},
		{"fb:4,3", Input{Kind: IK_FloorCall, Floor: 4, Dir: types.PS_Both}},
		{" FB: 3 , down ", Input{Kind: IK_FloorCall, Floor: 3, Dir: types.PS_Down}},
		{"fb:3,Up", Input{Kind: IK_FloorCall, Floor: 3, Dir: types.PS_Up}},
		{"pos:0,5", Input{Kind: IK_Position, ElevatorID: 0, Floor: 5}},
		{"eb:1,5", Input{Kind: IK_CabButton, ElevatorID: 1, Floor: 5}},
		{"status", Input{Kind: IK_Status}},
		{"", Input{Kind: IK_None}},
		{"# scenario", Input{Kind: IK_None}},
	}
	for _, tt := range tests {
		got, err := ParseLine(tt.line)
		if err != nil {
			t.Errorf("ParseLine(%q) returned %v", tt.line, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseLine(%q) = %+v, expected %+v", tt.line, got, tt.expected)
		}
	}
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{
		"fb",
		"fb:3",
		"fb:x,2",
		"fb:3,0",
		"fb:3,4",
		"fb:3,sideways",
		"pos:0,five",
		"go:1,2",
	} {
		if _, err := ParseLine(line); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseLine(%q) err = %v, expected ErrMalformed", line, err)
		}
	}
}

type call struct {
	kind string
	a, b int
	dir  types.PanelState
}

type fakeReporter struct {
	calls     []call
	snapshots int
	reject    error
}

func (f *fakeReporter) ReportFloorCall(floor int, dir types.PanelState) error {
	f.calls = append(f.calls, call{kind: "fb", a: floor, dir: dir})
	return f.reject
}

func (f *fakeReporter) ReportPosition(id, floor int) {
	f.calls = append(f.calls, call{kind: "pos", a: id, b: floor})
}

func (f *fakeReporter) ReportCabButton(id, floor int) {
	f.calls = append(f.calls, call{kind: "eb", a: id, b: floor})
}

func (f *fakeReporter) Snapshot() []types.ElevState {
	f.snapshots++
	return []types.ElevState{{ID: 0, Destinations: map[int]bool{3: true}}}
}

func TestRunAppliesLinesInOrder(t *testing.T) {
	input := strings.Join([]string{
		"# two calls then arrivals",
		"fb:8,1",
		"fb:9,1",
		"bogus",
		"pos:0,5",
		"eb:1,1",
		"status",
	}, "\n")
	rep := &fakeReporter{reject: errors.New("rejected")}

	if err := Run(context.Background(), strings.NewReader(input), rep, utils.Discard()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	expected := []call{
		{kind: "fb", a: 8, dir: types.PS_Down},
		{kind: "fb", a: 9, dir: types.PS_Down},
		{kind: "pos", a: 0, b: 5},
		{kind: "eb", a: 1, b: 1},
	}
	if !slices.Equal(rep.calls, expected) {
		t.Errorf("calls = %+v, expected %+v", rep.calls, expected)
	}
	if rep.snapshots != 1 {
		t.Errorf("snapshots = %d, expected 1", rep.snapshots)
	}
}

type blockingReader struct{ done chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, errors.New("closed")
}

func TestRunStopsOnCancel(t *testing.T) {
	r := blockingReader{done: make(chan struct{})}
	defer close(r.done)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- Run(ctx, r, &fakeReporter{}, utils.Discard()) }()
	cancel()

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

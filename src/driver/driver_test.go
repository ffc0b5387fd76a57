package driver

import (
	"bytes"
	"errors"
	"testing"

	"liftbank/src/types"
	"liftbank/src/utils"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		cmd  types.Command
		want [4]byte
	}{
		{types.StartMotor(0, types.MD_Up), [4]byte{1, 1, 0, 0}},
		{types.StartMotor(2, types.MD_Up), [4]byte{1, 1, 0, 0}},
		{types.StartMotor(0, types.MD_Down), [4]byte{1, 255, 0, 0}},
		{types.StopMotor(1), [4]byte{1, 0, 0, 0}},
		{types.OpenDoor(0), [4]byte{4, 1, 0, 0}},
		{types.CloseDoor(3), [4]byte{4, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := Encode(tt.cmd); got != tt.want {
			t.Errorf("Encode(%v) = %v, expected %v", tt.cmd, got, tt.want)
		}
	}
}

func TestFrameSinkWrites(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFrameSink(&buf, utils.Discard())
	sink.Send(types.StartMotor(1, types.MD_Up))
	sink.Send(types.OpenDoor(1))

	want := []byte{1, 1, 0, 0, 4, 1, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrote %v, expected %v", buf.Bytes(), want)
	}
	if sink.Err() != nil {
		t.Errorf("Err = %v", sink.Err())
	}
}

type failingWriter struct{ calls int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("broken pipe")
}

func TestFrameSinkStopsAfterError(t *testing.T) {
	w := &failingWriter{}
	sink := NewFrameSink(w, utils.Discard())
	sink.Send(types.StopMotor(0))
	sink.Send(types.StopMotor(0))
	if sink.Err() == nil {
		t.Error("expected a write error")
	}
	if w.calls != 1 {
		t.Errorf("writer called %d times, expected 1", w.calls)
	}
}

func TestByCabRoutes(t *testing.T) {
	var cab0, cab1 Recorder
	router := ByCab{0: &cab0, 1: &cab1}
	router.Send(types.StartMotor(1, types.MD_Down))
	router.Send(types.OpenDoor(0))
	router.Send(types.StopMotor(5))

	if got := cab0.Take(); len(got) != 1 || got[0] != types.OpenDoor(0) {
		t.Errorf("cab 0 got %v", got)
	}
	if got := cab1.Take(); len(got) != 1 || got[0] != types.StartMotor(1, types.MD_Down) {
		t.Errorf("cab 1 got %v", got)
	}
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b Recorder
	Multi{&a, &b}.Send(types.CloseDoor(0))
	if got := a.Take(); len(got) != 1 || got[0] != types.CloseDoor(0) {
		t.Errorf("first recorder got %v", got)
	}
	if got := b.Take(); len(got) != 1 {
		t.Errorf("second recorder got %v", got)
	}
	if got := a.Take(); len(got) != 0 {
		t.Errorf("Take did not clear: %v", got)
	}
}

package gesture

import "testing"

func TestTrackerDrag(t *testing.T) {
	var tr Tracker

	if _, ok := tr.Move(10, 10); ok {
		t.Fatal("Move without press reported a drag")
	}

	tr.Press(ButtonLeft, 100, 200)
	if tr.Active() != ButtonLeft {
		t.Fatalf("Active() = %v, want left", tr.Active())
	}

	d, ok := tr.Move(110, 195)
	if !ok {
		t.Fatal("expected drag")
	}
	if d != (Drag{Button: ButtonLeft, DX: 10, DY: -5}) {
		t.Errorf("drag = %+v", d)
	}

	// Deltas are relative to the previous event, not the press point.
	d, _ = tr.Move(112, 195)
	if d.DX != 2 || d.DY != 0 {
		t.Errorf("second drag = %+v, want DX=2 DY=0", d)
	}

	if _, ok := tr.Move(112, 195); ok {
		t.Error("zero movement should not report a drag")
	}

	tr.Release(ButtonLeft)
	if _, ok := tr.Move(200, 200); ok {
		t.Error("Move after release reported a drag")
	}
}

func TestTrackerSingleButton(t *testing.T) {
	var tr Tracker

	tr.Press(ButtonRight, 0, 0)
	tr.Press(ButtonLeft, 50, 50)
	if tr.Active() != ButtonRight {
		t.Fatalf("Active() = %v, want right", tr.Active())
	}

	tr.Release(ButtonLeft)
	if tr.Active() != ButtonRight {
		t.Error("releasing another button ended the drag")
	}

	d, ok := tr.Move(3, 4)
	if !ok || d.Button != ButtonRight || d.DX != 3 || d.DY != 4 {
		t.Errorf("drag = %+v ok=%v", d, ok)
	}

	tr.Release(ButtonRight)
	if tr.Active() != ButtonNone {
		t.Errorf("Active() = %v after release", tr.Active())
	}

	tr.Press(ButtonNone, 1, 1)
	if tr.Active() != ButtonNone {
		t.Error("ButtonNone started a drag")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		gx, gy       int
		wantX, wantY float64
	}{
		{"center", 1400, 800, 0.5, 0.5},
		{"top-left", 1000, 500, 0, 0},
		{"bottom-right", 1800, 1100, 1, 1},
		{"left of window", 0, 800, 0, 0.5},
		{"below window", 1200, 5000, 0.25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Normalize(tt.gx, tt.gy, 1000, 500, 800, 600)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Normalize = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}

	if x, y := Normalize(5, 5, 0, 0, 0, 0); x != 0.5 || y != 0.5 {
		t.Errorf("degenerate window = (%v, %v), want center", x, y)
	}
}

func TestButtonString(t *testing.T) {
	if ButtonLeft.String() != "left" || ButtonRight.String() != "right" || ButtonNone.String() != "none" {
		t.Error("unexpected Button strings")
	}
}

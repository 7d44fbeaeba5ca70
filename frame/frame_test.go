package frame

import "testing"

func TestNewBufferAlphaDefaults(t *testing.T) {
	b := NewBuffer(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			_, _, _, a := b.Get(x, y)
			if a != 255 {
				t.Fatalf("alpha at (%d,%d) = %d, want 255", x, y, a)
			}
		}
	}
}

func TestSetClampsChannels(t *testing.T) {
	b := NewBuffer(2, 2)
	b.Set(0, 0, 300, -20, 128, 400)
	r, g, bl, a := b.Get(0, 0)
	if r != 255 || g != 0 || bl != 128 || a != 255 {
		t.Fatalf("got (%d,%d,%d,%d), want (255,0,128,255)", r, g, bl, a)
	}
}

func TestSetOutOfBoundsIsNoOp(t *testing.T) {
	b := NewBuffer(2, 2)
	before := b.Clone()
	b.Set(-1, 0, 10, 10, 10, 255)
	b.Set(2, 0, 10, 10, 10, 255)
	b.Set(0, 2, 10, 10, 10, 255)
	if !b.Equal(before) {
		t.Fatal("out-of-bounds Set modified the buffer")
	}
}

func TestGetOutOfBoundsReturnsZeros(t *testing.T) {
	b := NewBuffer(2, 2)
	r, g, bl, a := b.Get(5, 5)
	if r != 0 || g != 0 || bl != 0 || a != 0 {
		t.Fatalf("got (%d,%d,%d,%d), want zeros", r, g, bl, a)
	}
}

func TestRegionClip(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		want   Region
	}{
		{"fully inside", Rect(2, 2, 4, 4), Rect(2, 2, 4, 4)},
		{"past bottom-right", Rect(8, 8, 10, 10), Rect(8, 8, 2, 2)},
		{"past top-left", Rect(-3, -3, 5, 5), Rect(0, 0, 2, 2)},
		{"entirely outside", Rect(20, 20, 5, 5), Region{}},
		{"entirely negative", Rect(-10, -10, 5, 5), Region{}},
		{"zero size", Rect(3, 3, 0, 0), Region{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.region.Clip(10, 10)
			if got != tt.want {
				t.Fatalf("Clip() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCopyFromClipsSource(t *testing.T) {
	src := NewBuffer(4, 4)
	src.Fill(10, 20, 30, 255)

	dst := NewBuffer(4, 4)
	// Region reaches past the source's bottom-right corner; only the
	// in-bounds 2x2 corner should land.
	dst.CopyFrom(src, Rect(2, 2, 10, 10), 0, 0)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, _, _, _ := dst.Get(x, y)
			inCopied := x < 2 && y < 2
			if inCopied && r != 10 {
				t.Fatalf("(%d,%d) not copied", x, y)
			}
			if !inCopied && r != 0 {
				t.Fatalf("(%d,%d) unexpectedly written", x, y)
			}
		}
	}
}

func TestCopyFromClipsDestination(t *testing.T) {
	src := NewBuffer(4, 4)
	src.Fill(99, 0, 0, 255)

	dst := NewBuffer(4, 4)
	dst.CopyFrom(src, Full(4, 4), 3, 3)

	r, _, _, _ := dst.Get(3, 3)
	if r != 99 {
		t.Fatal("in-bounds corner pixel not copied")
	}
	count := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if v, _, _, _ := dst.Get(x, y); v == 99 {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 copied pixel, got %d", count)
	}
}

func TestCopyFromNegativeOrigin(t *testing.T) {
	src := NewBuffer(4, 4)
	src.Fill(7, 7, 7, 255)

	dst := NewBuffer(4, 4)
	dst.CopyFrom(src, Full(4, 4), -2, -2)

	// Only the 2x2 overlap at the destination's top-left gets written.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, _, _, _ := dst.Get(x, y)
			want := uint8(0)
			if x < 2 && y < 2 {
				want = 7
			}
			if r != want {
				t.Fatalf("(%d,%d) = %d, want %d", x, y, r, want)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBuffer(2, 2)
	b.Fill(1, 2, 3, 255)
	c := b.Clone()
	c.Set(0, 0, 200, 200, 200, 255)
	if r, _, _, _ := b.Get(0, 0); r != 1 {
		t.Fatal("mutating the clone changed the original")
	}
}

func TestCopyIntoSizeMismatch(t *testing.T) {
	b := NewBuffer(2, 2)
	if b.CopyInto(NewBuffer(3, 2)) {
		t.Fatal("CopyInto accepted a mismatched destination")
	}
}

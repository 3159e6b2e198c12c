//go:build !tinygo

package hal

import "testing"

func TestMonoPixelAddressing(t *testing.T) {
	fb := newHostFramebuffer(12, 3)
	if fb.StrideBytes() != 2 {
		t.Fatalf("expected stride 2, got %d", fb.StrideBytes())
	}

	SetPixelMono(fb, 0, 0, true)
	SetPixelMono(fb, 9, 2, true)
	SetPixelMono(fb, 12, 0, true) // out of range
	SetPixelMono(fb, -1, 1, true) // out of range

	if fb.buf[0] != 0x80 {
		t.Fatalf("expected MSB for x=0, got %#x", fb.buf[0])
	}
	if fb.buf[2*2+1] != 0x40 {
		t.Fatalf("expected bit 6 of byte 1 in row 2, got %#x", fb.buf[5])
	}
	if !PixelMono(fb, 9, 2) || PixelMono(fb, 8, 2) {
		t.Fatal("unexpected pixel readback")
	}

	SetPixelMono(fb, 0, 0, false)
	if fb.buf[0] != 0 {
		t.Fatalf("expected pixel cleared, got %#x", fb.buf[0])
	}
}

func TestHostFramebufferPresentLatchesFrame(t *testing.T) {
	fb := newHostFramebuffer(8, 2)
	fb.Clear(true)

	shown := make([]byte, 2)
	if n := fb.snapshot(shown); n != 0 || shown[0] != 0 {
		t.Fatalf("expected nothing presented yet, got n=%d %v", n, shown)
	}
	if err := fb.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if n := fb.snapshot(shown); n != 1 || shown[0] != 0xFF || shown[1] != 0xFF {
		t.Fatalf("expected lit frame after present, got n=%d %v", n, shown)
	}
}

func TestLumaOn(t *testing.T) {
	if !LumaOn(0xFF, 0xFF, 0xFF) || LumaOn(0, 0, 0) {
		t.Fatal("white must be on and black off")
	}
	if LumaOn(0, 0, 0xFF) {
		t.Fatal("pure blue is too dark to light a pixel")
	}
}

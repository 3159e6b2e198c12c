package hal

// SetPixelMono sets or clears one pixel of a PixelFormatMono1 framebuffer.
// Out-of-range coordinates are ignored.
func SetPixelMono(fb Framebuffer, x, y int, on bool) {
	buf, off, mask, ok := monoAddr(fb, x, y)
	if !ok {
		return
	}
	if on {
		buf[off] |= mask
	} else {
		buf[off] &^= mask
	}
}

// PixelMono reports whether a pixel of a PixelFormatMono1 framebuffer is lit.
func PixelMono(fb Framebuffer, x, y int) bool {
	buf, off, mask, ok := monoAddr(fb, x, y)
	if !ok {
		return false
	}
	return buf[off]&mask != 0
}

func monoAddr(fb Framebuffer, x, y int) (buf []byte, off int, mask byte, ok bool) {
	if fb == nil || fb.Format() != PixelFormatMono1 {
		return nil, 0, 0, false
	}
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return nil, 0, 0, false
	}
	buf = fb.Buffer()
	off = y*fb.StrideBytes() + x/8
	if off < 0 || off >= len(buf) {
		return nil, 0, 0, false
	}
	return buf, off, 0x80 >> uint(x%8), true
}

func monoStride(width int) int {
	return (width + 7) / 8
}

// LumaOn maps an RGB color onto a monochrome panel.
func LumaOn(r, g, b uint8) bool {
	y := (299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000
	return y >= 0x80
}

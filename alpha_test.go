package cavif

import (
	"bytes"
	"image"
	"testing"
)

// gradientRGBA builds a fully opaque test image with smooth gradients.
func gradientRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := img.PixOffset(x, y)
			img.Pix[p] = uint8(x * 255 / max(w-1, 1))
			img.Pix[p+1] = uint8(y * 255 / max(h-1, 1))
			img.Pix[p+2] = uint8((x + y) * 127 / max(w+h-2, 1))
			img.Pix[p+3] = 255
		}
	}
	return img
}

// noisyAlphaRGBA builds an image with noisy color data and large fully
// transparent regions, the worst case for compressing junk color under
// transparency.
func noisyAlphaRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := img.PixOffset(x, y)
			img.Pix[p] = uint8((x/5+y)&0xF) << 4
			img.Pix[p+1] = uint8(7*x + y/2)
			img.Pix[p+2] = uint8((x * y) & 3)
			a := uint8((x + y) & 0x7F)
			if a < 100 {
				a = 0
			} else {
				a -= 100
			}
			img.Pix[p+3] = a
		}
	}
	return img
}

func TestHasTransparency(t *testing.T) {
	if hasTransparency(gradientRGBA(16, 16)) {
		t.Error("opaque image reported as transparent")
	}
	if !hasTransparency(noisyAlphaRGBA(16, 16)) {
		t.Error("transparent image reported as opaque")
	}

	// A single pixel at 254 counts.
	img := gradientRGBA(16, 16)
	img.Pix[img.PixOffset(7, 9)+3] = 254
	if !hasTransparency(img) {
		t.Error("near-opaque pixel not detected")
	}
}

func TestPreprocessAlphaDirtyReturnsInput(t *testing.T) {
	img := noisyAlphaRGBA(32, 32)
	out := preprocessAlpha(img, AlphaUnassociatedDirty)
	if out != img {
		t.Error("dirty mode did not return the input buffer unchanged")
	}
}

func TestCleanAlphaPreservesVisiblePixels(t *testing.T) {
	img := noisyAlphaRGBA(64, 48)
	before := append([]byte(nil), img.Pix...)

	out := preprocessAlpha(img, AlphaUnassociatedClean)
	if out == img {
		t.Fatal("clean mode returned the input buffer instead of a copy")
	}
	if !bytes.Equal(img.Pix, before) {
		t.Fatal("clean mode mutated the input buffer")
	}

	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			sp := img.PixOffset(x, y)
			dp := out.PixOffset(x, y)
			if img.Pix[sp+3] == 0 {
				continue
			}
			for c := 0; c < 4; c++ {
				if img.Pix[sp+c] != out.Pix[dp+c] {
					t.Fatalf("visible pixel (%d,%d) changed: channel %d %d -> %d",
						x, y, c, img.Pix[sp+c], out.Pix[dp+c])
				}
			}
		}
	}
}

func TestCleanAlphaIsDeterministic(t *testing.T) {
	img := noisyAlphaRGBA(64, 48)
	a := cleanAlpha(img)
	b := cleanAlpha(img)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("clean alpha produced different output for the same input")
	}
}

func TestCleanAlphaFullyTransparentImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(i)
		img.Pix[i+1] = uint8(i >> 2)
		img.Pix[i+2] = uint8(i >> 4)
		img.Pix[i+3] = 0
	}

	out := cleanAlpha(img)
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 128 || out.Pix[i+1] != 128 || out.Pix[i+2] != 128 {
			t.Fatalf("pixel %d not filled with mid-gray: %v", i/4, out.Pix[i:i+3])
		}
	}
}

func TestPremultiplyAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	// Half-transparent red next to an opaque blue.
	copy(img.Pix, []byte{200, 100, 40, 128, 0, 0, 255, 255})

	out := preprocessAlpha(img, AlphaPremultiplied)

	// (200*128+127)/255 = 100, (100*128+127)/255 = 50, (40*128+127)/255 = 20
	want := []byte{100, 50, 20, 128, 0, 0, 255, 255}
	if !bytes.Equal(out.Pix, want) {
		t.Errorf("premultiplied pixels = %v, want %v", out.Pix, want)
	}
	if img.Pix[0] != 200 {
		t.Error("premultiply mutated the input buffer")
	}
}

func TestCloneNRGBANormalizesBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 14, 23))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	out := cloneNRGBA(img)
	if got := out.Bounds(); got != image.Rect(0, 0, 4, 3) {
		t.Fatalf("clone bounds = %v, want (0,0)-(4,3)", got)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			sp := img.PixOffset(10+x, 20+y)
			dp := out.PixOffset(x, y)
			if !bytes.Equal(img.Pix[sp:sp+4], out.Pix[dp:dp+4]) {
				t.Fatalf("pixel (%d,%d) differs after clone", x, y)
			}
		}
	}
}

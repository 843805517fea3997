package cavif

import "image"

// Alpha preprocessing decides how color data under transparent pixels is
// handed to the color-plane compression job. It is a pure function of
// (pixel buffer, mode): the input is never mutated, and a preprocessed
// copy is produced only when the mode requires rewriting.

// cleanBleedPasses is how far visible color is bled into fully transparent
// regions before the remaining interior is filled with the representative
// color. Enough to smooth the edge ring where lossy alpha may uncover a
// pixel or two.
const cleanBleedPasses = 4

// hasTransparency reports whether any pixel has alpha below 255.
func hasTransparency(img *image.NRGBA) bool {
	b := img.Bounds()
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xFF {
				return true
			}
		}
	}
	return false
}

// preprocessAlpha applies the configured alpha color mode and returns the
// buffer the color-plane job will compress. Dirty mode returns the input
// unchanged; the other modes return a copy normalized to origin bounds.
func preprocessAlpha(img *image.NRGBA, mode AlphaColorMode) *image.NRGBA {
	switch mode {
	case AlphaUnassociatedClean:
		return cleanAlpha(img)
	case AlphaPremultiplied:
		return premultiplyAlpha(img)
	default:
		return img
	}
}

// cleanAlpha rewrites RGB under fully transparent pixels so those regions
// compress to near nothing: visible color is first bled a few pixels into
// the transparent area, then the remaining interior is filled with the
// average visible color. Pixels with alpha > 0 keep their exact values.
func cleanAlpha(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := cloneNRGBA(img)

	// filled marks transparent pixels that already received bled color.
	filled := make([]bool, w*h)

	type fillOp struct {
		idx     int
		r, g, b uint8
	}
	var ops []fillOp

	colored := func(x, y int) bool {
		if x < 0 || x >= w || y < 0 || y >= h {
			return false
		}
		return out.Pix[(y*w+x)*4+3] > 0 || filled[y*w+x]
	}

	for pass := 0; pass < cleanBleedPasses; pass++ {
		ops = ops[:0]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if out.Pix[idx*4+3] > 0 || filled[idx] {
					continue
				}
				var sr, sg, sb, n int
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := x+d[0], y+d[1]
					if !colored(nx, ny) {
						continue
					}
					p := (ny*w + nx) * 4
					sr += int(out.Pix[p])
					sg += int(out.Pix[p+1])
					sb += int(out.Pix[p+2])
					n++
				}
				if n > 0 {
					ops = append(ops, fillOp{idx, uint8(sr / n), uint8(sg / n), uint8(sb / n)})
				}
			}
		}
		if len(ops) == 0 {
			break
		}
		// Applied after the sweep so the bleed grows one ring per pass
		// regardless of scan order.
		for _, op := range ops {
			p := op.idx * 4
			out.Pix[p] = op.r
			out.Pix[p+1] = op.g
			out.Pix[p+2] = op.b
			filled[op.idx] = true
		}
	}

	fr, fg, fb := averageVisible(out, w, h)
	for idx := 0; idx < w*h; idx++ {
		p := idx * 4
		if out.Pix[p+3] > 0 || filled[idx] {
			continue
		}
		out.Pix[p] = fr
		out.Pix[p+1] = fg
		out.Pix[p+2] = fb
	}
	return out
}

// averageVisible returns the mean color of pixels with alpha > 0, or
// mid-gray for a fully transparent image.
func averageVisible(img *image.NRGBA, w, h int) (r, g, b uint8) {
	var sr, sg, sb, n uint64
	for idx := 0; idx < w*h; idx++ {
		p := idx * 4
		if img.Pix[p+3] == 0 {
			continue
		}
		sr += uint64(img.Pix[p])
		sg += uint64(img.Pix[p+1])
		sb += uint64(img.Pix[p+2])
		n++
	}
	if n == 0 {
		return 128, 128, 128
	}
	return uint8(sr / n), uint8(sg / n), uint8(sb / n)
}

// premultiplyAlpha scales each pixel's RGB by its alpha, rounding to
// nearest.
func premultiplyAlpha(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := cloneNRGBA(img)
	for idx := 0; idx < w*h; idx++ {
		p := idx * 4
		a := int(out.Pix[p+3])
		if a == 255 {
			continue
		}
		out.Pix[p] = uint8((int(out.Pix[p])*a + 127) / 255)
		out.Pix[p+1] = uint8((int(out.Pix[p+1])*a + 127) / 255)
		out.Pix[p+2] = uint8((int(out.Pix[p+2])*a + 127) / 255)
	}
	return out
}

// cloneNRGBA copies img into a fresh buffer with bounds at the origin.
func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+w*4], img.Pix[src:src+w*4])
	}
	return out
}

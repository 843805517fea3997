package codec

// Plane extraction for the two supported input layouts: NRGBA pixel data
// (4 bytes per pixel, arbitrary row stride) and packed RGB (3 bytes per
// pixel, stride 3*width). The YCbCr conversion uses the same fixed-point
// BT.601 coefficients as the coded matrix recorded in the container.

// YCbCrPlanesNRGBA converts NRGBA pixels into full-resolution Y, Cb, Cr
// channels. pix[0] must be the first byte of the top-left pixel.
func YCbCrPlanesNRGBA(pix []byte, stride, w, h int) Plane {
	yp := make([]byte, w*h)
	cb := make([]byte, w*h)
	cr := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		base := y * w
		for x := 0; x < w; x++ {
			p := x * 4
			r, g, b := int32(row[p]), int32(row[p+1]), int32(row[p+2])
			yp[base+x] = uint8((77*r + 150*g + 29*b) >> 8)
			cb[base+x] = uint8(((-43*r - 85*g + 128*b) >> 8) + 128)
			cr[base+x] = uint8(((128*r - 107*g - 21*b) >> 8) + 128)
		}
	}
	return Plane{Channels: [][]byte{yp, cb, cr}, Width: w, Height: h}
}

// GBRPlanesNRGBA splits NRGBA pixels into identity-matrix G, B, R channels.
func GBRPlanesNRGBA(pix []byte, stride, w, h int) Plane {
	gp := make([]byte, w*h)
	bp := make([]byte, w*h)
	rp := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		base := y * w
		for x := 0; x < w; x++ {
			p := x * 4
			rp[base+x] = row[p]
			gp[base+x] = row[p+1]
			bp[base+x] = row[p+2]
		}
	}
	return Plane{Channels: [][]byte{gp, bp, rp}, Width: w, Height: h}
}

// AlphaPlaneNRGBA extracts the alpha channel of NRGBA pixels.
func AlphaPlaneNRGBA(pix []byte, stride, w, h int) Plane {
	ap := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		base := y * w
		for x := 0; x < w; x++ {
			ap[base+x] = row[x*4+3]
		}
	}
	return Plane{Channels: [][]byte{ap}, Width: w, Height: h}
}

// YCbCrPlanesRGB converts packed 24-bit RGB pixels into Y, Cb, Cr channels.
func YCbCrPlanesRGB(pix []byte, w, h int) Plane {
	yp := make([]byte, w*h)
	cb := make([]byte, w*h)
	cr := make([]byte, w*h)
	for i := 0; i < w*h; i++ {
		p := i * 3
		r, g, b := int32(pix[p]), int32(pix[p+1]), int32(pix[p+2])
		yp[i] = uint8((77*r + 150*g + 29*b) >> 8)
		cb[i] = uint8(((-43*r - 85*g + 128*b) >> 8) + 128)
		cr[i] = uint8(((128*r - 107*g - 21*b) >> 8) + 128)
	}
	return Plane{Channels: [][]byte{yp, cb, cr}, Width: w, Height: h}
}

// GBRPlanesRGB splits packed 24-bit RGB pixels into G, B, R channels.
func GBRPlanesRGB(pix []byte, w, h int) Plane {
	gp := make([]byte, w*h)
	bp := make([]byte, w*h)
	rp := make([]byte, w*h)
	for i := 0; i < w*h; i++ {
		p := i * 3
		rp[i] = pix[p]
		gp[i] = pix[p+1]
		bp[i] = pix[p+2]
	}
	return Plane{Channels: [][]byte{gp, bp, rp}, Width: w, Height: h}
}

package yuv

import "image"

// FromRGBA encodes img as planar I420 (pixel stride 1) using the BT.601
// video range transform. Chroma is the average of each 2x2 block.
func FromRGBA(img image.Image) Planes {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cw, ch := (w+1)/2, (h+1)/2

	p := Planes{
		Y: make([]byte, w*h), U: make([]byte, cw*ch), V: make([]byte, cw*ch),
		Width: w, Height: h,
		YRowStride: w, UVRowStride: cw, UVPixelStride: 1,
	}

	sumU := make([]int, cw*ch)
	sumV := make([]int, cw*ch)
	count := make([]int, cw*ch)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r32, g32, b32, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r, g, bl := int(r32>>8), int(g32>>8), int(b32>>8)

			p.Y[y*w+x] = clampByte(((66*r + 129*g + 25*bl + 128) >> 8) + 16)

			ci := (y>>1)*cw + (x >> 1)
			sumU[ci] += ((-38*r - 74*g + 112*bl + 128) >> 8) + 128
			sumV[ci] += ((112*r - 94*g - 18*bl + 128) >> 8) + 128
			count[ci]++
		}
	}

	for i := range count {
		if count[i] == 0 {
			continue
		}
		p.U[i] = clampByte((sumU[i] + count[i]/2) / count[i])
		p.V[i] = clampByte((sumV[i] + count[i]/2) / count[i])
	}
	return p
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

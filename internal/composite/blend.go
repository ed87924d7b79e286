package composite

import "image"

// BlendDown alpha-composites a stack of same-size frames back-to-front
// with the straight-alpha "over" operator and returns a fresh frame.
// The caller supplies frames already in canonical z-order.
func BlendDown(frames []*image.NRGBA) *image.NRGBA {
	if len(frames) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	out := cloneNRGBA(frames[0])
	for _, f := range frames[1:] {
		overInto(out, f)
	}
	return out
}

// overInto applies over onto base in place. Both images must share
// bounds. Fully transparent overlay pixels leave the base untouched and
// fully transparent base pixels take the overlay verbatim, so the
// general path never divides by a zero result alpha.
func overInto(base, over *image.NRGBA) {
	bp, op := base.Pix, over.Pix
	for i := 0; i+3 < len(bp); i += 4 {
		oa := int(op[i+3])
		if oa == 0 {
			continue
		}
		ba := int(bp[i+3])
		if oa == 255 || ba == 0 {
			copy(bp[i:i+4], op[i:i+4])
			continue
		}

		// Straight alpha: outA = oa + ba*(1-oa), channels weighted by
		// their source alphas and renormalized. All terms scaled to
		// integers, rounded to nearest.
		outA := oa*255 + ba*(255-oa)
		for c := 0; c < 3; c++ {
			num := int(op[i+c])*oa*255 + int(bp[i+c])*ba*(255-oa)
			bp[i+c] = uint8((num + outA/2) / outA)
		}
		bp[i+3] = uint8((outA + 127) / 255)
	}
}

package composite

// Timeline aligns layers with independent frame counts onto one shared
// output timeline: the longest layer sets the length, shorter layers
// wrap around to fill it.
type Timeline struct {
	FrameCount int
	DelaysMS   []int
}

// PlanTimeline computes the unified frame count and per-frame delays
// for a stack of decoded layers. The output delay at each index is the
// maximum of the delays of the source frames shown there, so the
// slowest layer dictates pacing. An empty stack plans a single frame.
func PlanTimeline(layers []*Layer) Timeline {
	count := 1
	for _, l := range layers {
		if l.FrameCount() > count {
			count = l.FrameCount()
		}
	}

	delays := make([]int, count)
	for i := 0; i < count; i++ {
		d := 0
		for _, l := range layers {
			f := l.Frames[SourceIndex(l.FrameCount(), i)]
			if f.DelayMS > d {
				d = f.DelayMS
			}
		}
		delays[i] = d
	}

	return Timeline{FrameCount: count, DelaysMS: delays}
}

// SourceIndex maps an output frame index onto a layer with the given
// frame count. Shorter animations loop rather than time-scale: a
// 2-frame layer under a 30-frame one cycles 15 times per loop.
func SourceIndex(frameCount, outputIndex int) int {
	if frameCount <= 0 {
		return 0
	}
	return outputIndex % frameCount
}

package shpsched

import "fmt"

// PatchFixedInstance is one already-placed transmission on the target
// link: its start (TransmissionTime) and its inclusive last occupied
// slot (EndingTime = TransmissionTime + duration - 1).
type PatchFixedInstance struct {
	TransmissionTime int64
	EndingTime       int64
}

// PatchFixedFrame is a frame whose transmission times on the target
// link are already known and must not be disturbed.
type PatchFixedFrame struct {
	FrameID   int
	Instances []PatchFixedInstance
}

// PatchRange is the admissible [Min, Max] transmission-time window for
// one instance of a frame still to be placed.
type PatchRange struct {
	Min, Max int64
}

// PatchFreeFrame is a frame to be placed on the target link, one
// window per hyperperiod instance.
type PatchFreeFrame struct {
	FrameID   int
	TimeSlots int64
	Instances []PatchRange
}

// PatchInput is everything needed to patch (or optimize) a single
// link's schedule: the SHP reservation's parameters on that link, the
// frames already fixed there, and the frames still to be placed.
type PatchInput struct {
	LinkID         int
	ProtocolPeriod int64
	ProtocolTime   int64
	HyperPeriod    int64
	Fixed          []PatchFixedFrame
	Free           []PatchFreeFrame
}

// PatchFrameResult is the placement computed for one PatchFreeFrame,
// one transmission time per instance, in the same order as the input
// windows.
type PatchFrameResult struct {
	FrameID   int
	Instances []int64
}

// RunHeuristic places every instance of every PatchInput.Free frame as
// early as possible within its window, using a single sorted interval
// allocator seeded with the SHP reservation and the already-fixed
// frames. Frames are processed in input order, instances ascending
// within a frame; the whole run fails as soon as one instance cannot
// be placed inside its window.
func RunHeuristic(input *PatchInput) ([]PatchFrameResult, error) {
	set := newIntervalSet()

	if input.ProtocolPeriod > 0 {
		for k := int64(0); k*input.ProtocolPeriod < input.HyperPeriod; k++ {
			set.insertFixed(k*input.ProtocolPeriod, input.ProtocolTime)
		}
	}
	for _, ff := range input.Fixed {
		for _, inst := range ff.Instances {
			length := inst.EndingTime - inst.TransmissionTime + 1
			set.insertFixed(inst.TransmissionTime, length)
		}
	}

	results := make([]PatchFrameResult, 0, len(input.Free))
	for _, frame := range input.Free {
		res := PatchFrameResult{FrameID: frame.FrameID, Instances: make([]int64, len(frame.Instances))}
		for k, rng := range frame.Instances {
			start, ok := set.place(rng.Min, rng.Max, frame.TimeSlots)
			if !ok {
				return nil, fmt.Errorf("%w: frame %d instance %d window [%d,%d]",
					ErrPatchPlacementFailed, frame.FrameID, k, rng.Min, rng.Max)
			}
			res.Instances[k] = start
		}
		results = append(results, res)
	}
	return results, nil
}

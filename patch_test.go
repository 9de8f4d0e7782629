package shpsched_test

import (
	"testing"

	"github.com/shpsched/shpsched"
	"github.com/stretchr/testify/require"
)

func TestRunHeuristicPlacesFramesInFirstFreeGap(t *testing.T) {
	input := &shpsched.PatchInput{
		LinkID:         0,
		ProtocolPeriod: 500,
		ProtocolTime:   100,
		HyperPeriod:    1000,
		Fixed: []shpsched.PatchFixedFrame{
			{
				FrameID: 1,
				Instances: []shpsched.PatchFixedInstance{
					{TransmissionTime: 200, EndingTime: 249},
					{TransmissionTime: 700, EndingTime: 749},
				},
			},
		},
		Free: []shpsched.PatchFreeFrame{
			{
				FrameID:   2,
				TimeSlots: 50,
				Instances: []shpsched.PatchRange{
					{Min: 0, Max: 400},
					{Min: 500, Max: 900},
				},
			},
		},
	}

	results, err := shpsched.RunHeuristic(input)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 2, results[0].FrameID)
	require.Equal(t, []int64{100, 600}, results[0].Instances)
}

func TestRunHeuristicFailsWhenWindowTooNarrow(t *testing.T) {
	input := &shpsched.PatchInput{
		LinkID:      0,
		HyperPeriod: 1000,
		Fixed: []shpsched.PatchFixedFrame{
			{FrameID: 1, Instances: []shpsched.PatchFixedInstance{{TransmissionTime: 0, EndingTime: 999}}},
		},
		Free: []shpsched.PatchFreeFrame{
			{FrameID: 2, TimeSlots: 50, Instances: []shpsched.PatchRange{{Min: 0, Max: 900}}},
		},
	}

	_, err := shpsched.RunHeuristic(input)
	require.ErrorIs(t, err, shpsched.ErrPatchPlacementFailed)
}

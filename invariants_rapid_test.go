package shpsched_test

import (
	"testing"

	"github.com/shpsched/shpsched"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestRunHeuristicNeverOverlapsFixedTraffic checks, over many randomly
// generated single-frame patch inputs, that a successful placement
// never intersects the frame's own fixed obstacle — the one invariant
// the heuristic exists to guarantee.
func TestRunHeuristicNeverOverlapsFixedTraffic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fixedStart := rapid.Int64Range(0, 500).Draw(t, "fixedStart")
		fixedLen := rapid.Int64Range(1, 100).Draw(t, "fixedLen")
		timeSlots := rapid.Int64Range(1, 50).Draw(t, "timeSlots")
		windowMin := rapid.Int64Range(0, 900).Draw(t, "windowMin")
		windowSpan := rapid.Int64Range(0, 200).Draw(t, "windowSpan")

		input := &shpsched.PatchInput{
			LinkID:      0,
			HyperPeriod: 1000,
			Fixed: []shpsched.PatchFixedFrame{
				{
					FrameID: 1,
					Instances: []shpsched.PatchFixedInstance{
						{TransmissionTime: fixedStart, EndingTime: fixedStart + fixedLen - 1},
					},
				},
			},
			Free: []shpsched.PatchFreeFrame{
				{
					FrameID:   2,
					TimeSlots: timeSlots,
					Instances: []shpsched.PatchRange{{Min: windowMin, Max: windowMin + windowSpan}},
				},
			},
		}

		results, err := shpsched.RunHeuristic(input)
		if err != nil {
			return // a refused placement never violates the invariant
		}
		require.Len(t, results, 1)
		start := results[0].Instances[0]
		end := start + timeSlots
		fixedEnd := fixedStart + fixedLen
		require.True(t, end <= fixedStart || start >= fixedEnd,
			"placement [%d,%d) overlaps fixed [%d,%d)", start, end, fixedStart, fixedEnd)
		require.GreaterOrEqual(t, start, windowMin)
		require.LessOrEqual(t, start, windowMin+windowSpan)
	})
}

// TestScheduleAlwaysPassesValidation schedules small randomly generated
// frame sets on a shared link and checks that whatever the solver
// produces, the independent validator accepts it: the constraint
// builder and the validator must agree on every invariant for every
// input, not just the worked examples.
func TestScheduleAlwaysPassesValidation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		topo := shpsched.NewTopology()
		require.NoError(t, topo.AddNode(0, shpsched.NodeEndSystem))
		require.NoError(t, topo.AddNode(1, shpsched.NodeEndSystem))
		require.NoError(t, topo.AddConnection(0, 1, shpsched.Link{ID: 0, Speed: 1000, Type: shpsched.LinkWired}))

		net, err := shpsched.NewNetwork(topo, 0, nil, nil)
		require.NoError(t, err)

		numFrames := rapid.IntRange(1, 3).Draw(t, "numFrames")
		for id := 0; id < numFrames; id++ {
			period := rapid.SampledFrom([]int64{1000, 2000}).Draw(t, "period")
			f := &shpsched.Frame{
				ID: id, SenderID: 0, Period: period, Deadline: period, Size: 100,
				Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
			}
			require.NoError(t, net.AddFrame(f))
		}
		require.NoError(t, net.Prepare())

		incremental := rapid.Bool().Draw(t, "incremental")
		params := shpsched.SchedulerParams{Silent: true}
		if incremental {
			params.Algorithm = shpsched.Incremental
			params.FramesPerIteration = 1
		}

		// Three 100 ns frames per 1000 ns period always fit on one
		// link, so any infeasibility report is itself a bug.
		require.NoError(t, shpsched.Schedule(net, params))
		require.NoError(t, shpsched.Validate(net))
	})
}

// TestIntervalSetPlacementsNeverOverlap checks that a sequence of
// placements into the same intervalSet, via the package's exported
// patch heuristic, always yields pairwise-disjoint windows on one
// link, across randomly generated free-frame batches.
func TestIntervalSetPlacementsNeverOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		var free []shpsched.PatchFreeFrame
		for i := 0; i < n; i++ {
			timeSlots := rapid.Int64Range(1, 30).Draw(t, "timeSlots")
			free = append(free, shpsched.PatchFreeFrame{
				FrameID:   i,
				TimeSlots: timeSlots,
				Instances: []shpsched.PatchRange{{Min: 0, Max: 2000}},
			})
		}
		input := &shpsched.PatchInput{LinkID: 0, HyperPeriod: 2000, Free: free}

		results, err := shpsched.RunHeuristic(input)
		if err != nil {
			return
		}
		type window struct{ start, end int64 }
		var windows []window
		for i, res := range results {
			windows = append(windows, window{res.Instances[0], res.Instances[0] + free[i].TimeSlots})
		}
		for i := 0; i < len(windows); i++ {
			for j := i + 1; j < len(windows); j++ {
				a, b := windows[i], windows[j]
				require.True(t, a.end <= b.start || b.end <= a.start,
					"windows [%d,%d) and [%d,%d) overlap", a.start, a.end, b.start, b.end)
			}
		}
	})
}

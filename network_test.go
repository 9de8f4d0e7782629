package shpsched_test

import (
	"testing"

	"github.com/shpsched/shpsched"
	"github.com/stretchr/testify/require"
)

// buildTwoNodeLink returns a topology with node 0 --link 0--> node 1,
// wired, at the given speed in MB/s.
func buildTwoNodeLink(t *testing.T, speed float64) *shpsched.Topology {
	t.Helper()
	topo := shpsched.NewTopology()
	require.NoError(t, topo.AddNode(0, shpsched.NodeEndSystem))
	require.NoError(t, topo.AddNode(1, shpsched.NodeEndSystem))
	require.NoError(t, topo.AddConnection(0, 1, shpsched.Link{ID: 0, Speed: speed, Type: shpsched.LinkWired}))
	return topo
}

func TestTrivialSingleFrame(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
	}
	require.NoError(t, net.AddFrame(f))
	require.NoError(t, net.Prepare())

	off := net.Offsets[f.Offsets()[0]]
	require.Equal(t, int64(100), off.Time*net.TimeSlot)

	require.NoError(t, shpsched.Schedule(net, shpsched.SchedulerParams{}))
	require.NoError(t, shpsched.Validate(net))

	start := off.Start[0][0] * net.TimeSlot
	require.Equal(t, int64(0), start)
	end := start + off.Time*net.TimeSlot - 1
	require.Equal(t, int64(99), end)
}

func TestPathDependency(t *testing.T) {
	topo := shpsched.NewTopology()
	require.NoError(t, topo.AddNode(0, shpsched.NodeEndSystem))
	require.NoError(t, topo.AddNode(1, shpsched.NodeSwitch))
	require.NoError(t, topo.AddNode(2, shpsched.NodeEndSystem))
	require.NoError(t, topo.AddConnection(0, 1, shpsched.Link{ID: 0, Speed: 1000, Type: shpsched.LinkWired}))
	require.NoError(t, topo.AddConnection(1, 2, shpsched.Link{ID: 1, Speed: 1000, Type: shpsched.LinkWired}))

	net, err := shpsched.NewNetwork(topo, 200, nil, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 2000, Deadline: 2000, Size: 100,
		Paths: []shpsched.Path{{ReceiverID: 2, Links: []int{0, 1}}},
	}
	require.NoError(t, net.AddFrame(f))
	require.NoError(t, net.Prepare())
	require.NoError(t, shpsched.Schedule(net, shpsched.SchedulerParams{}))
	require.NoError(t, shpsched.Validate(net))

	o0 := net.Offsets[f.Paths[0].Offsets[0]]
	o1 := net.Offsets[f.Paths[0].Offsets[1]]
	s0 := o0.Start[0][0] * net.TimeSlot
	s1 := o1.Start[0][0] * net.TimeSlot
	require.GreaterOrEqual(t, s1-s0, int64(300))
}

func TestTwoFramesContendOnOneLink(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	a := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
	}
	b := &shpsched.Frame{
		ID: 1, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
	}
	require.NoError(t, net.AddFrame(a))
	require.NoError(t, net.AddFrame(b))
	require.NoError(t, net.Prepare())
	require.NoError(t, shpsched.Schedule(net, shpsched.SchedulerParams{}))
	require.NoError(t, shpsched.Validate(net))

	oa := net.Offsets[a.Offsets()[0]]
	ob := net.Offsets[b.Offsets()[0]]
	sa, sb := oa.Start[0][0], ob.Start[0][0]
	aEnd, bEnd := sa+oa.Time, sb+ob.Time
	disjoint := aEnd <= sb || bEnd <= sa
	require.True(t, disjoint, "windows [%d,%d) and [%d,%d) must be disjoint", sa, aEnd, sb, bEnd)
}

func TestSHPReservationBlocksASlot(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	shp := &shpsched.SHPConfig{Period: 500, Time: 100}
	net, err := shpsched.NewNetwork(topo, 0, shp, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
	}
	require.NoError(t, net.AddFrame(f))
	require.NoError(t, net.Prepare())
	require.NoError(t, shpsched.Schedule(net, shpsched.SchedulerParams{}))
	require.NoError(t, shpsched.Validate(net))

	off := net.Offsets[f.Offsets()[0]]
	reserved := [][2]int64{{0, 100}, {500, 600}} // nanoseconds
	for inst := 0; inst < off.NumInstances; inst++ {
		s := off.Start[inst][0] * net.TimeSlot
		e := s + off.Time*net.TimeSlot
		for _, r := range reserved {
			avoids := e <= r[0] || s >= r[1]
			require.True(t, avoids, "instance %d [%d,%d) must avoid reservation [%d,%d)", inst, s, e, r[0], r[1])
		}
	}
}

func TestEndToEndBoundViolatedIsInfeasible(t *testing.T) {
	topo := shpsched.NewTopology()
	require.NoError(t, topo.AddNode(0, shpsched.NodeEndSystem))
	require.NoError(t, topo.AddNode(1, shpsched.NodeSwitch))
	require.NoError(t, topo.AddNode(2, shpsched.NodeSwitch))
	require.NoError(t, topo.AddNode(3, shpsched.NodeEndSystem))
	for i, speed := range []float64{1000, 1000, 1000} {
		require.NoError(t, topo.AddConnection(i, i+1, shpsched.Link{ID: i, Speed: speed, Type: shpsched.LinkWired}))
	}

	net, err := shpsched.NewNetwork(topo, 200, nil, nil)
	require.NoError(t, err)

	// Each link carries a 100 ns frame (100 B @ 1000 MB/s); minimum
	// latency across three hops with two switch crossings is
	// 100*3 + 200*2 = 700 ns, which exceeds the 400 ns e2e bound.
	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 2000, Deadline: 2000, Size: 100, EndToEndDelay: 400,
		Paths: []shpsched.Path{{ReceiverID: 3, Links: []int{0, 1, 2}}},
	}
	require.NoError(t, net.AddFrame(f))
	require.NoError(t, net.Prepare())

	err = shpsched.Schedule(net, shpsched.SchedulerParams{})
	require.ErrorIs(t, err, shpsched.ErrInfeasible)
}

// TestValidateEndToEndUsesFirstHopTime exercises the end-to-end bound
// (s_last - s_first <= e2e - time_first) on a path whose first and
// last hops have different per-hop transmission times. A validator
// that mistakenly subtracted time_last instead would fail to flag
// this schedule even though it overruns the end-to-end bound.
func TestValidateEndToEndUsesFirstHopTime(t *testing.T) {
	topo := shpsched.NewTopology()
	require.NoError(t, topo.AddNode(0, shpsched.NodeEndSystem))
	require.NoError(t, topo.AddNode(1, shpsched.NodeSwitch))
	require.NoError(t, topo.AddNode(2, shpsched.NodeEndSystem))
	// 100 B at these speeds yields time_first=3ns, time_last=2ns.
	require.NoError(t, topo.AddConnection(0, 1, shpsched.Link{ID: 0, Speed: 40000, Type: shpsched.LinkWired}))
	require.NoError(t, topo.AddConnection(1, 2, shpsched.Link{ID: 1, Speed: 60000, Type: shpsched.LinkWired}))

	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100, EndToEndDelay: 5,
		Paths: []shpsched.Path{{ReceiverID: 2, Links: []int{0, 1}}},
	}
	require.NoError(t, net.AddFrame(f))
	require.NoError(t, net.Prepare())

	first := net.Offsets[f.Paths[0].Offsets[0]]
	last := net.Offsets[f.Paths[0].Offsets[1]]
	require.Equal(t, int64(3), first.Time)
	require.Equal(t, int64(2), last.Time)

	// s_last - s_first = 3, so the true bound (e2e - time_first = 2)
	// is violated, but the buggy bound (e2e - time_last = 3) is not.
	first.Start[0][0] = 0
	last.Start[0][0] = 3

	err = shpsched.Validate(net)
	require.ErrorIs(t, err, shpsched.ErrValidationFailed)
	require.Contains(t, err.Error(), "end-to-end")
}

func TestIncrementalSchedulesOneFramePerIteration(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	for id := 0; id < 3; id++ {
		f := &shpsched.Frame{
			ID: id, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100,
			Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
		}
		require.NoError(t, net.AddFrame(f))
	}
	require.NoError(t, net.Prepare())

	params := shpsched.SchedulerParams{Algorithm: shpsched.Incremental, FramesPerIteration: 1}
	require.NoError(t, shpsched.Schedule(net, params))
	require.NoError(t, shpsched.Validate(net))
}

func TestAddFrameRejectsUnknownLink(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 1000, Size: 100,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{99}}},
	}
	err = net.AddFrame(f)
	require.ErrorIs(t, err, shpsched.ErrUnknownLink)
}

func TestAddFrameRejectsEndToEndBeyondDeadline(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 500, Size: 100, EndToEndDelay: 500,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
	}
	err = net.AddFrame(f)
	require.ErrorIs(t, err, shpsched.ErrInvalidEndToEnd)
}

func TestAddFrameRejectsStartingBeyondDeadline(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)

	f := &shpsched.Frame{
		ID: 0, SenderID: 0, Period: 1000, Deadline: 500, Size: 100, StartingTime: 600,
		Paths: []shpsched.Path{{ReceiverID: 1, Links: []int{0}}},
	}
	err = net.AddFrame(f)
	require.ErrorIs(t, err, shpsched.ErrInvalidStarting)
}

func TestNewNetworkRejectsDegenerateSHP(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	_, err := shpsched.NewNetwork(topo, 0, &shpsched.SHPConfig{Period: 0, Time: 100}, nil)
	require.ErrorIs(t, err, shpsched.ErrInvalidSHP)
}

func TestNewNetworkRejectsEmptyTopology(t *testing.T) {
	_, err := shpsched.NewNetwork(shpsched.NewTopology(), 0, nil, nil)
	require.ErrorIs(t, err, shpsched.ErrEmptyTopology)
}

func TestScheduleRequiresPrepare(t *testing.T) {
	topo := buildTwoNodeLink(t, 1000)
	net, err := shpsched.NewNetwork(topo, 0, nil, nil)
	require.NoError(t, err)
	err = shpsched.Schedule(net, shpsched.SchedulerParams{})
	require.ErrorIs(t, err, shpsched.ErrNotPrepared)
}

package xmlio_test

import (
	"strings"
	"testing"

	"github.com/shpsched/shpsched"
	"github.com/shpsched/shpsched/xmlio"
	"github.com/stretchr/testify/require"
)

const trivialNetworkDoc = `<Network>
  <GeneralInformation>
    <MinimumTime unit="ns">0</MinimumTime>
    <SelfHealingProtocol>
      <Period>500</Period>
      <Time>100</Time>
    </SelfHealingProtocol>
  </GeneralInformation>
  <TopologyInformation>
    <Node category="EndSystem">
      <NodeID>0</NodeID>
      <Connection>
        <NodeID>1</NodeID>
        <Link>
          <LinkID>0</LinkID>
          <category>Wired</category>
          <Speed unit="MBs">1000</Speed>
          <Replicas>1</Replicas>
        </Link>
      </Connection>
    </Node>
    <Node category="EndSystem">
      <NodeID>1</NodeID>
    </Node>
  </TopologyInformation>
  <TrafficDescription>
    <Frame>
      <FrameID>0</FrameID>
      <SenderID>0</SenderID>
      <Period unit="ns">1000</Period>
      <Deadline unit="ns">1000</Deadline>
      <Size unit="Byte">100</Size>
      <Paths>
        <Receiver>
          <ReceiverID>1</ReceiverID>
          <Path>0</Path>
        </Receiver>
      </Paths>
    </Frame>
  </TrafficDescription>
</Network>`

func TestReadNetworkParsesTrivialDoc(t *testing.T) {
	input, err := xmlio.ReadNetwork(strings.NewReader(trivialNetworkDoc))
	require.NoError(t, err)

	require.Equal(t, int64(0), input.SwitchMinTime)
	require.NotNil(t, input.SHP)
	require.Equal(t, int64(500), input.SHP.Period)
	require.Equal(t, int64(100), input.SHP.Time)

	node0, ok := input.Topology.NodeByID(0)
	require.True(t, ok)
	require.Equal(t, shpsched.NodeEndSystem, node0.Type)
	require.Len(t, node0.Connections, 1)
	require.Equal(t, 1000.0, node0.Connections[0].Link.Speed)

	require.Len(t, input.Frames, 1)
	f := input.Frames[0]
	require.Equal(t, int64(1000), f.Period)
	require.Equal(t, int64(1000), f.Deadline)
	require.Equal(t, int64(100), f.Size)
	require.Len(t, f.Paths, 1)
	require.Equal(t, []int{0}, f.Paths[0].Links)
}

func TestReadNetworkRejectsUnknownUnit(t *testing.T) {
	doc := strings.Replace(trivialNetworkDoc, `unit="ns">0<`, `unit="furlongs">0<`, 1)
	_, err := xmlio.ReadNetwork(strings.NewReader(doc))
	require.Error(t, err)
}

package transport

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPcapSink_WritesValidFileHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pcap")

	sink, err := NewPcapSink(path,
		PcapEndpoint{MAC: net.HardwareAddr{0, 0, 0, 0, 0, 1}, IP: net.IPv4(10, 0, 0, 1), Port: 8888},
		PcapEndpoint{MAC: net.HardwareAddr{0, 0, 0, 0, 0, 2}, IP: net.IPv4(10, 0, 0, 2), Port: 8888},
		nil,
	)
	require.NoError(t, err)

	require.NoError(t, sink.Send([]byte{0x53, 0x04, 0x02, 0x06, 0xAA, 0xBB, 0xCC, 0xDD}))
	require.NoError(t, sink.Send([]byte{0x53, 0x04, 0x02, 0x06, 0x11, 0x22, 0x33, 0x44}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// pcap global header magic number, little-endian variant.
	require.Equal(t, []byte{0xd4, 0xc3, 0xb2, 0xa1}, data[:4])
}

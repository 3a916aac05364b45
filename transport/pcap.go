package transport

import (
	"fmt"
	"net"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/scigolib/spead/logging"
)

// PcapSink wraps each SPEAD packet in a synthetic Ethernet/IPv4/UDP frame
// and appends it to a pcap file, for offline inspection in Wireshark or
// replay with another tool.
type PcapSink struct {
	file   *os.File
	writer *pcapgo.Writer
	log    logging.Logger

	srcMAC, dstMAC net.HardwareAddr
	srcIP, dstIP   net.IP
	srcPort, dstPort uint16

	serializeBuf gopacket.SerializeBuffer
}

// PcapEndpoint describes one side of the synthetic UDP flow recorded into
// the pcap file.
type PcapEndpoint struct {
	MAC  net.HardwareAddr
	IP   net.IP
	Port uint16
}

// NewPcapSink creates path and writes a pcap file header for it, framing
// every subsequently sent packet as a UDP datagram from src to dst.
func NewPcapSink(path string, src, dst PcapEndpoint, log logging.Logger) (*PcapSink, error) {
	if log == nil {
		log = logging.Nop()
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create pcap file: %w", err)
	}

	writer := pcapgo.NewWriter(file)
	if err := writer.WriteFileHeader(65535, layers.LinkTypeEthernet); err != nil {
		file.Close()

		return nil, fmt.Errorf("write pcap header: %w", err)
	}

	log.WithField("path", path).Info("pcap sink opened")

	return &PcapSink{
		file:         file,
		writer:       writer,
		log:          log,
		srcMAC:       src.MAC,
		dstMAC:       dst.MAC,
		srcIP:        src.IP,
		dstIP:        dst.IP,
		srcPort:      src.Port,
		dstPort:      dst.Port,
		serializeBuf: gopacket.NewSerializeBuffer(),
	}, nil
}

// Send serialises packet as one UDP datagram's payload inside an
// Ethernet/IPv4/UDP frame and appends it to the pcap file.
func (s *PcapSink) Send(packet []byte) error {
	eth := &layers.Ethernet{
		SrcMAC:       s.srcMAC,
		DstMAC:       s.dstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    s.srcIP,
		DstIP:    s.dstIP,
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(s.srcPort),
		DstPort: layers.UDPPort(s.dstPort),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return fmt.Errorf("set checksum layer: %w", err)
	}

	s.serializeBuf.Clear()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

	if err := gopacket.SerializeLayers(s.serializeBuf, opts, eth, ip, udp, gopacket.Payload(packet)); err != nil {
		return fmt.Errorf("serialize frame: %w", err)
	}

	frame := s.serializeBuf.Bytes()
	if err := s.writer.WritePacket(gopacket.CaptureInfo{
		CaptureLength: len(frame),
		Length:        len(frame),
	}, frame); err != nil {
		return fmt.Errorf("write pcap packet: %w", err)
	}

	return nil
}

// Close closes the pcap file. Send writes each frame straight to the
// file, so there is nothing buffered to flush.
func (s *PcapSink) Close() error {
	s.log.Debug("pcap sink closed")

	return s.file.Close()
}

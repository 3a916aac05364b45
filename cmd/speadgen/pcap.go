package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/scigolib/spead"
	"github.com/scigolib/spead/heap"
	"github.com/scigolib/spead/logging"
	"github.com/scigolib/spead/transport"
)

type pcapFlags struct {
	out             string
	mtu             int
	items           []string
	heapCnt         uint64
	version         uint8
	itemPointerBits uint8
	heapAddressBits uint8
	srcIP, dstIP    string
	srcPort, dstPort int
	srcMAC, dstMAC  string
	logLevel        string
}

func newPcapCmd() *cobra.Command {
	flags := &pcapFlags{}

	cmd := &cobra.Command{
		Use:   "pcap",
		Short: "Assemble one heap from --item flags and record it to a pcap file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPcap(flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.out, "out", "", "output pcap file path (required)")
	f.IntVar(&flags.mtu, "mtu", 1472, "maximum packet size in bytes")
	f.StringArrayVar(&flags.items, "item", nil, "scalar item as id:code+bits:value, repeatable")
	f.Uint64Var(&flags.heapCnt, "heap-cnt", 1, "heap_cnt to stamp on every packet")
	f.Uint8Var(&flags.version, "version", 4, "SPEAD version")
	f.Uint8Var(&flags.itemPointerBits, "item-pointer-bits", 64, "item pointer width in bits")
	f.Uint8Var(&flags.heapAddressBits, "heap-address-bits", 48, "heap address field width in bits")
	f.StringVar(&flags.srcIP, "src-ip", "10.0.0.1", "synthetic source IP recorded in the pcap frame")
	f.StringVar(&flags.dstIP, "dst-ip", "239.2.1.1", "synthetic destination IP recorded in the pcap frame")
	f.IntVar(&flags.srcPort, "src-port", 60000, "synthetic source UDP port")
	f.IntVar(&flags.dstPort, "dst-port", 8888, "synthetic destination UDP port")
	f.StringVar(&flags.srcMAC, "src-mac", "00:00:00:00:00:01", "synthetic source MAC")
	f.StringVar(&flags.dstMAC, "dst-mac", "00:00:00:00:00:02", "synthetic destination MAC")
	f.StringVar(&flags.logLevel, "log-level", "info", "debug|info|warn|error")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runPcap(flags *pcapFlags) error {
	log := logging.New(logging.Level(flags.logLevel))

	f, err := spead.NewFlavour(flags.version, flags.itemPointerBits, flags.heapAddressBits, 0)
	if err != nil {
		return fmt.Errorf("build flavour: %w", err)
	}

	h, err := spead.NewHeap(flags.heapCnt, f, heap.WithLogger(log))
	if err != nil {
		return fmt.Errorf("build heap: %w", err)
	}
	defer h.Release()

	items, err := parseItemSpecs(flags.items)
	if err != nil {
		return err
	}

	for _, it := range items {
		if err := h.AddItem(it); err != nil {
			return fmt.Errorf("add item %#x: %w", it.ID, err)
		}
	}

	gen, err := spead.NewPacketGenerator(h, flags.mtu)
	if err != nil {
		return fmt.Errorf("build packet generator: %w", err)
	}

	srcMAC, err := net.ParseMAC(flags.srcMAC)
	if err != nil {
		return fmt.Errorf("parse src-mac: %w", err)
	}
	dstMAC, err := net.ParseMAC(flags.dstMAC)
	if err != nil {
		return fmt.Errorf("parse dst-mac: %w", err)
	}

	src := transport.PcapEndpoint{MAC: srcMAC, IP: net.ParseIP(flags.srcIP), Port: uint16(flags.srcPort)}
	dst := transport.PcapEndpoint{MAC: dstMAC, IP: net.ParseIP(flags.dstIP), Port: uint16(flags.dstPort)}

	sink, err := transport.NewPcapSink(flags.out, src, dst, log)
	if err != nil {
		return fmt.Errorf("open pcap sink: %w", err)
	}
	defer sink.Close()

	count := 0
	for pkt := range gen.Packets() {
		if err := sink.Send(pkt); err != nil {
			return fmt.Errorf("write packet %d: %w", count, err)
		}
		count++
	}

	log.WithField("packets", count).WithField("path", flags.out).Info("heap recorded")

	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scigolib/spead"
	"github.com/scigolib/spead/heap"
	"github.com/scigolib/spead/logging"
	"github.com/scigolib/spead/transport"
)

type sendFlags struct {
	host            string
	port            int
	mtu             int
	items           []string
	heapCnt         uint64
	descCacheTTL    int
	version         uint8
	itemPointerBits uint8
	heapAddressBits uint8
	logLevel        string
}

func newSendCmd() *cobra.Command {
	flags := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Assemble one heap from --item flags and send it over UDP",
		Example: `  speadgen send --host 239.2.1.1 --port 8888 \
    --item 0x1000:u48:1234567 --item 0x1001:u16:42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.host, "host", "", "destination host or multicast group (required)")
	f.IntVar(&flags.port, "port", 8888, "destination UDP port")
	f.IntVar(&flags.mtu, "mtu", 1472, "maximum packet size in bytes")
	f.StringArrayVar(&flags.items, "item", nil, "scalar item as id:code+bits:value, repeatable")
	f.Uint64Var(&flags.heapCnt, "heap-cnt", 1, "heap_cnt to stamp on every packet")
	f.IntVar(&flags.descCacheTTL, "descriptor-cache-ttl", 1, "heaps between descriptor resends (1 = every heap)")
	f.Uint8Var(&flags.version, "version", 4, "SPEAD version")
	f.Uint8Var(&flags.itemPointerBits, "item-pointer-bits", 64, "item pointer width in bits")
	f.Uint8Var(&flags.heapAddressBits, "heap-address-bits", 48, "heap address field width in bits")
	f.StringVar(&flags.logLevel, "log-level", "info", "debug|info|warn|error")
	_ = cmd.MarkFlagRequired("host")

	return cmd
}

func runSend(flags *sendFlags) error {
	log := logging.New(logging.Level(flags.logLevel))

	f, err := spead.NewFlavour(flags.version, flags.itemPointerBits, flags.heapAddressBits, 0)
	if err != nil {
		return fmt.Errorf("build flavour: %w", err)
	}

	cache := heap.NewDescriptorCache(flags.descCacheTTL)

	h, err := spead.NewHeap(flags.heapCnt, f, heap.WithDescriptorCache(cache), heap.WithLogger(log))
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

	sink, err := transport.NewUDPSink(flags.host, flags.port, log)
	if err != nil {
		return fmt.Errorf("open udp sink: %w", err)
	}
	defer sink.Close()

	count := 0
	for pkt := range gen.Packets() {
		if err := sink.Send(pkt); err != nil {
			return fmt.Errorf("send packet %d: %w", count, err)
		}
		count++
	}

	log.WithField("packets", count).Info("heap sent")

	return nil
}

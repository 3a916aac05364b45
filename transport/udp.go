package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/scigolib/spead/internal/options"
	"github.com/scigolib/spead/logging"
)

// UDPSink sends packets over a connected UDP socket, the normal SPEAD
// transport. It implements no retransmission, acknowledgement, or
// congestion control (spec.md §1 Non-goals); the only throughput control
// it offers is a fixed send-rate ticker.
type UDPSink struct {
	conn    *net.UDPConn
	log     logging.Logger
	limiter *time.Ticker
}

// UDPOption configures a UDPSink at construction time.
type UDPOption = options.Option[*UDPSink]

// WithRateLimit paces Send to at most one packet per interval. Without
// this option Send writes as fast as the caller calls it.
func WithRateLimit(interval time.Duration) UDPOption {
	return options.NoError(func(s *UDPSink) {
		s.limiter = time.NewTicker(interval)
	})
}

// NewUDPSink dials host:port over UDP and returns a Sink that writes to it.
func NewUDPSink(host string, port int, log logging.Logger, opts ...UDPOption) (*UDPSink, error) {
	if log == nil {
		log = logging.Nop()
	}

	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("resolve udp addr: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	s := &UDPSink{conn: conn, log: log}

	if err := options.Apply(s, opts...); err != nil {
		conn.Close()

		return nil, err
	}

	log.WithField("addr", addr.String()).Info("udp sink connected")

	return s, nil
}

// Send writes packet as a single UDP datagram, blocking until the rate
// limiter (if any) admits it.
func (s *UDPSink) Send(packet []byte) error {
	if s.limiter != nil {
		<-s.limiter.C
	}

	n, err := s.conn.Write(packet)
	if err != nil {
		return fmt.Errorf("udp write: %w", err)
	}

	if n != len(packet) {
		return fmt.Errorf("udp write: short write %d of %d bytes", n, len(packet))
	}

	return nil
}

// Close stops the rate limiter, if any, and closes the underlying socket.
func (s *UDPSink) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}

	return s.conn.Close()
}

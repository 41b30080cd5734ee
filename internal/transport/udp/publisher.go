// SPDX-License-Identifier: MIT
// Package udp publishes detection snapshots as compact binary packets,
// for dashboards and loggers that don't want a websocket connection.
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"vocalpitch/internal/detect"
	applog "vocalpitch/internal/log"
)

/*
Packet layout (BigEndian):

	+-------------------+--------------+------------------------------------+
	| Field             | Type         | Description                        |
	+-------------------+--------------+------------------------------------+
	| Sequence Number   | uint32       | Monotonically increasing           |
	| Timestamp         | int64        | Nanoseconds since epoch            |
	| Pitch             | float32      | Smoothed pitch in Hz (0 unvoiced)  |
	| Cents             | int16        | Signed deviation, [-50, 50]        |
	| Stability         | float32      | 0-100 percentage                   |
	| Flags             | uint8        | bit0 voiced, bit1 detecting        |
	| Note              | uint8 + N    | Length-prefixed ASCII, e.g. "A4"   |
	| Last Stable Note  | uint8 + N    | Length-prefixed ASCII              |
	| Method            | uint8 + N    | Length-prefixed ASCII              |
	+-------------------+--------------+------------------------------------+
*/

const (
	flagVoiced    = 1 << 0
	flagDetecting = 1 << 1
)

// Publisher packs each snapshot into the binary layout above and sends
// it through a Sender, rate limited to the configured interval.
type Publisher struct {
	sender   *Sender
	interval time.Duration

	sequenceNum  uint32
	lastSend     time.Time
	packetBuffer *bytes.Buffer // reused across packets
}

// NewPublisher wraps a Sender. Snapshots arriving faster than interval
// are dropped. An interval <= 0 disables rate limiting.
func NewPublisher(sender *Sender, interval time.Duration) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp publisher: sender cannot be nil")
	}
	return &Publisher{
		sender:       sender,
		interval:     interval,
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Publish implements detect.Publisher.
func (p *Publisher) Publish(s detect.State) error {
	now := time.Now()
	if p.interval > 0 && now.Sub(p.lastSend) < p.interval {
		return nil
	}
	p.lastSend = now

	p.sequenceNum++
	p.packetBuffer.Reset()

	var flags uint8
	if s.Voiced {
		flags |= flagVoiced
	}
	if s.Detecting {
		flags |= flagDetecting
	}

	err := binary.Write(p.packetBuffer, binary.BigEndian, p.sequenceNum)
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, now.UnixNano())
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, float32(s.PitchHz))
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, int16(s.CentsOff))
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, float32(s.StabilityPct))
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, flags)
	}
	if err == nil {
		err = writeString(p.packetBuffer, s.Note)
	}
	if err == nil {
		err = writeString(p.packetBuffer, s.LastStableNote)
	}
	if err == nil {
		err = writeString(p.packetBuffer, s.Method)
	}
	if err != nil {
		return fmt.Errorf("udp publisher: packing packet: %w", err)
	}

	if err := p.sender.Send(p.packetBuffer.Bytes()); err != nil {
		return err
	}
	applog.Debugf("transport: sent UDP packet %d (%d bytes)", p.sequenceNum, p.packetBuffer.Len())
	return nil
}

// Close implements detect.Publisher.
func (p *Publisher) Close() error {
	return p.sender.Close()
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 255 {
		s = s[:255]
	}
	if err := buf.WriteByte(uint8(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

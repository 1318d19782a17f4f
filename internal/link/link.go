// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

var (
	// ErrNoTelemetry is returned by Read until the first $RBODO arrives.
	ErrNoTelemetry = errors.New("link: no telemetry received yet")
	// ErrStaleTelemetry is returned by Read when the newest sample is older
	// than the configured maximum age.
	ErrStaleTelemetry = errors.New("link: telemetry is stale")
	// ErrLinkDown is returned by Read once Run has stopped.
	ErrLinkDown = errors.New("link: receiver stopped")
)

// Link keeps the latest telemetry from the controller and forwards wheel
// commands to it. Read and SetWheelVelocities are safe to call from the
// control loop while Run owns the receive side.
type Link struct {
	port   io.ReadWriteCloser
	logger customlog.Logger

	writeMu sync.Mutex

	// now is replaceable in tests
	now func() time.Time

	mu       sync.RWMutex
	latest   sensors.Reading
	received time.Time
	have     bool
	maxAge   time.Duration
	runErr   error
	dropped  uint64
}

// Open opens the serial port with 8N1 framing.
func Open(portName string, baudRate int, logger customlog.Logger) (*Link, error) {
	serialOpts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", portName, err)
	}
	logger.Infof("link: serial port opened on %s at %d baud", portName, baudRate)
	return New(port, logger), nil
}

// New wraps an already open port.
func New(port io.ReadWriteCloser, logger customlog.Logger) *Link {
	return &Link{port: port, logger: logger, now: time.Now}
}

// SetMaxAge makes Read fail with ErrStaleTelemetry when the newest sample is
// older than d. Zero disables the check.
func (l *Link) SetMaxAge(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxAge = d
}

// Run reads telemetry until the port fails or ctx is cancelled. Cancelling
// ctx closes the port.
func (l *Link) Run(ctx context.Context) (err error) {
	stop := context.AfterFunc(ctx, func() { l.port.Close() })
	defer stop()

	// after Run returns no new samples will arrive
	defer func() {
		l.mu.Lock()
		l.runErr = err
		l.mu.Unlock()
	}()

	reader := bufio.NewReader(l.port)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("link: read: %w", err)
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := Parse(line)
		if err != nil {
			// partial lines after reconnects are expected
			l.mu.Lock()
			l.dropped++
			l.mu.Unlock()
			l.logger.Debugf("link: dropped sentence %q: %v", line, err)
			continue
		}

		if t, ok := sentence.(Telemetry); ok {
			l.mu.Lock()
			l.latest = t.Reading()
			l.received = l.now()
			l.have = true
			l.mu.Unlock()
		}
	}
}

// Read returns the most recent telemetry. It fails once the receiver has
// stopped and, when a maximum age is set, when the newest sample is too old.
func (l *Link) Read() (sensors.Reading, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.runErr != nil {
		return sensors.Reading{}, fmt.Errorf("%w: %v", ErrLinkDown, l.runErr)
	}
	if !l.have {
		return sensors.Reading{}, ErrNoTelemetry
	}
	if l.maxAge > 0 {
		if age := l.now().Sub(l.received); age > l.maxAge {
			return sensors.Reading{}, fmt.Errorf("%w: last sample %v ago", ErrStaleTelemetry, age)
		}
	}
	return l.latest, nil
}

// Dropped is the number of lines that failed to parse.
func (l *Link) Dropped() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dropped
}

// SetWheelVelocities sends one $RBDRV sentence.
func (l *Link) SetWheelVelocities(w drive.WheelVelocities) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if _, err := io.WriteString(l.port, EncodeDrive(w)); err != nil {
		return fmt.Errorf("link: write: %w", err)
	}
	return nil
}

// Stop commands zero velocity on all wheels.
func (l *Link) Stop() error {
	return l.SetWheelVelocities(drive.WheelVelocities{})
}

// Close closes the port.
func (l *Link) Close() error {
	return l.port.Close()
}

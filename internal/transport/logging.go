// SPDX-License-Identifier: MIT
package transport

import (
	"vocalpitch/internal/detect"
	applog "vocalpitch/internal/log"
)

// LogPublisher writes a one-line summary of each snapshot to the
// application log. This is the default display of the CLI session.
type LogPublisher struct{}

// Publish implements detect.Publisher.
func (LogPublisher) Publish(s detect.State) error {
	if !s.Voiced {
		applog.Debugf("state: unvoiced (last stable %s)", s.LastStableNote)
		return nil
	}
	applog.Infof("state: %7.2f Hz  %-4s %+3d cents  stability %3.0f%%  [%s]",
		s.PitchHz, s.Note, s.CentsOff, s.StabilityPct, s.Method)
	return nil
}

// Close implements detect.Publisher.
func (LogPublisher) Close() error { return nil }

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import "fmt"

// DefaultHistoryDepth is the reader buffer bound used by DefaultQoS.
const DefaultHistoryDepth = 1000

// QoS configures a reader.
type QoS struct {
	// HistoryDepth is the maximum number of undrained samples a reader
	// keeps. Arrivals beyond it evict the oldest sample.
	HistoryDepth int
}

// DefaultQoS returns keep-last with DefaultHistoryDepth.
func DefaultQoS() QoS {
	return QoS{HistoryDepth: DefaultHistoryDepth}
}

func (qos QoS) validate() error {
	if qos.HistoryDepth <= 0 {
		return fmt.Errorf("history depth must be positive, got %d", qos.HistoryDepth)
	}
	return nil
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strconv"
	"strings"
)

// Sequencer allocates internal sequence numbers. Each entity family
// has its own monotonically increasing counter which starts from zero.
// Car, bike, and plane vehicles share the vehicle family counter, so
// two vehicles of the same brand never get the same display ID.
// The zero value is ready to use. A Sequencer is owned by exactly one
// Database and is not safe for concurrent use.
type Sequencer struct {
	next map[Family]int
}

// Next returns the next sequence number of the f family and consumes
// it, so it will never be returned again.
func (s *Sequencer) Next(f Family) int {
	if s.next == nil {
		s.next = make(map[Family]int)
	}
	n := s.next[f]
	s.next[f] = n + 1
	return n
}

// Peek returns the number which will be returned by the next call of
// Next for the f family without consuming it.
func (s *Sequencer) Peek(f Family) int {
	return s.next[f]
}

// Observe raises the f family counter, if necessary, so numbers which
// are returned by Next will be greater than the numeric suffix of id.
// All display IDs end with a dash and their sequence number. Display
// IDs which do not end with a number are ignored.
func (s *Sequencer) Observe(f Family, id string) {
	i := strings.LastIndexByte(id, '-')
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return
	}
	if s.next == nil {
		s.next = make(map[Family]int)
	}
	if s.next[f] <= n {
		s.next[f] = n + 1
	}
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
)

// Condition specifies the vehicle condition enum. Although this enum
// is numeric, it is (de)serialized as a string for readability in the
// adapter layer, as implemented by the MarshalText and UnmarshalText
// methods.
type Condition int

// Valid values for the Condition enum, from the best to the worst.
const (
	ConditionInvalid Condition = iota // zero value is invalid

	ConditionNew
	ConditionVeryGood
	ConditionGood
	ConditionPassable
	ConditionBad
	ConditionUnusable
)

var conditionNames = [...]string{
	ConditionNew:      "New",
	ConditionVeryGood: "VeryGood",
	ConditionGood:     "Good",
	ConditionPassable: "Passable",
	ConditionBad:      "Bad",
	ConditionUnusable: "Unusable",
}

// ErrUnknownCondition indicates that a given string may not be parsed
// as a valid/known condition. This error does not communicate the
// invalid condition string itself because the caller of Parse already
// knows about it and is responsible to wrap the error and add it.
var ErrUnknownCondition = errors.New("unknown condition")

// ConditionError indicates an invalid condition. This error contains
// the invalid condition as an integer.
type ConditionError int

// Error implements the error interface, returning a string
// representation of the ConditionError.
func (e ConditionError) Error() string {
	return fmt.Sprintf("invalid condition: %d", e)
}

// Conditions returns all valid conditions, from the best to the worst.
func Conditions() []Condition {
	return []Condition{
		ConditionNew, ConditionVeryGood, ConditionGood,
		ConditionPassable, ConditionBad, ConditionUnusable,
	}
}

// Validate returns nil if Condition value is valid. For invalid
// values, an instance of the ConditionError will be returned.
func (c Condition) Validate() error {
	if c < ConditionNew || c > ConditionUnusable {
		return ConditionError(c)
	}
	return nil
}

// String converts the Condition enum to a string.
// Invalid conditions are converted to "Invalid".
func (c Condition) String() string {
	if c.Validate() != nil {
		return "Invalid"
	}
	return conditionNames[c]
}

// MarshalText implements encoding.TextMarshaler interface.
// Invalid conditions may not be serialized.
func (c Condition) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(conditionNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler interface.
// In case of errors, c will be left unchanged.
func (c *Condition) UnmarshalText(text []byte) error {
	p, err := ParseCondition(string(text))
	if err != nil {
		return fmt.Errorf("parsing %q: %w", text, err)
	}
	*c = p
	return nil
}

// ParseCondition parses the given string (ignoring its case and its
// leading and trailing spaces) and returns a Condition.
// For unknown strings, ConditionInvalid and ErrUnknownCondition
// will be returned.
func ParseCondition(s string) (Condition, error) {
	s = strings.TrimSpace(s)
	for _, c := range Conditions() {
		if strings.EqualFold(conditionNames[c], s) {
			return c, nil
		}
	}
	return ConditionInvalid, ErrUnknownCondition
}

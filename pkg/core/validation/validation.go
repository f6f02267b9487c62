// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package validation provides stateless checks for the raw user input.
// All checks trim their input before checking it and report failures
// as cerr.InvalidInput errors which quote the offending raw value.
// Checks which convert their input (e.g., Date) return the converted
// value alongside the error.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/model"
)

// DateLayout is the layout of all dates which are entered by users,
// displayed in tables, or persisted in database files (dd/MM/yyyy).
const DateLayout = model.DateLayout

// Postal codes are numbers in the [MinPostalCode, MaxPostalCode] range.
const (
	MinPostalCode = 1000
	MaxPostalCode = 98890
)

var (
	phonePattern = regexp.MustCompile(`^([0-9]{2}\s*){5}$`)
	mailPattern  = regexp.MustCompile(`^\S+@\S+\.[a-z]{2,4}$`)

	// single digit days and months are also accepted while parsing
	dateLayouts = []string{DateLayout, "2/1/2006"}
)

// NonEmpty fails if any one of the given values is empty after being
// trimmed.
func NonEmpty(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return cerr.InvalidInputf("Field(s) cannot be empty.")
		}
	}
	return nil
}

// Date parses the raw string as a dd/MM/yyyy date in UTC.
func Date(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, cerr.InvalidInputf("'%s' is not a valid date.", raw)
}

// FormatDate formats d using the DateLayout.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// PostalCode fails if raw is not an integer in the
// [MinPostalCode, MaxPostalCode] range.
func PostalCode(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return cerr.InvalidInputf("'%s' is not a valid postal code.", raw)
	}
	if n < MinPostalCode || n > MaxPostalCode {
		return cerr.InvalidInputf(
			"'%s': postal code must be between %05d and %05d.",
			raw, MinPostalCode, MaxPostalCode,
		)
	}
	return nil
}

// PhoneNumber fails unless raw consists of five groups of two digits,
// optionally separated by whitespaces.
func PhoneNumber(raw string) error {
	if !phonePattern.MatchString(strings.TrimSpace(raw)) {
		return cerr.InvalidInputf("'%s' is not a valid phone number.", raw)
	}
	return nil
}

// MailAddress fails unless raw looks like local@domain.tld where tld
// has two to four lowercase letters.
func MailAddress(raw string) error {
	if !mailPattern.MatchString(strings.TrimSpace(raw)) {
		return cerr.InvalidInputf("'%s' is not a valid mail address.", raw)
	}
	return nil
}

// NonNegativeNumber parses raw as a non-negative integer.
func NonNegativeNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, cerr.InvalidInputf("'%s' is not a positive number.", raw)
	}
	if n < 0 {
		return 0, cerr.InvalidInputf("'%s' must be positive.", raw)
	}
	return n, nil
}

// NonNegative fails if n is negative.
func NonNegative(n int) error {
	if n < 0 {
		return cerr.InvalidInputf("Value must be >= 0 (got %d).", n)
	}
	return nil
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer represents a released semantic version, consisting of three
// components. It versions the database file format. Incrementing the
// major version represents backward-incompatible changes, such as
// renamed fields. The minor version represents backward compatible
// additions, such as new optional fields. The patch version represents
// changes which are invisible in the file contents.
type SemVer [3]uint

// FormatVersion is the database file format version which is written
// by this release.
var FormatVersion = SemVer{1, 0, 0}

// UnmarshalText deserializes text byte slice as a string consisting of
// one to three dot-separated numbers and fills the sv SemVer instance.
// Missing components are taken as zero. In case of errors, sv will be
// left unchanged.
func (sv *SemVer) UnmarshalText(text []byte) (err error) {
	p := strings.Split(strings.TrimSpace(string(text)), ".")
	l := len(p)
	if l > 3 {
		return fmt.Errorf("the %q has wrong number of components", text)
	}
	var v [3]int
	for i := 0; i < l; i++ {
		v[i], err = strconv.Atoi(p[i])
		if err != nil {
			return fmt.Errorf("the %q component is not numeric", p[i])
		}
		if v[i] < 0 {
			return fmt.Errorf("the %q component is negative", p[i])
		}
	}
	*sv = SemVer{uint(v[0]), uint(v[1]), uint(v[2])}
	return nil
}

// MarshalText implements encoding.TextMarshaler interface and
// serializes `sv` semantic version as its string representation.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

// String returns the sv semantic version as a dot-separated string
// consisting of three numbers like major.minor.patch where all numbers
// are non-negative.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}

// Readable reports whether files of the sv format version can be read
// by a reader supporting the latest format version. The major versions
// must be equal. Newer minor versions are readable because their extra
// fields are ignored.
func (sv SemVer) Readable(latest SemVer) bool {
	return sv[0] == latest[0]
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import "fmt"

// NotFoundError indicates that an entity which was referenced by its
// display ID does not exist. It is defined as an array containing two
// strings. The first element is the entity family name (e.g., "Client")
// and the second element is the missing display ID.
// It is usually wrapped by an InvalidInput error.
type NotFoundError [2]string

// Error returns a string representation of `nfe` error instance. This
// method causes *NotFoundError to implement error interface.
func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' does not exist", (*nfe)[0], (*nfe)[1])
}

// NotFound returns an invalid input error which wraps a NotFoundError
// for the given entity family and display ID.
func NotFound(family, id string) *Error {
	return InvalidInput(&NotFoundError{family, id})
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("loading db.json: %w", cerr.LoadingFailed(
		errors.New("File 'db.json' does not exist"),
	))
	assert.Equal(t, cerr.KindLoadingFailed, cerr.KindOf(err))
	assert.ErrorIs(t, err, cerr.ErrLoadingFailed)
	assert.NotErrorIs(t, err, cerr.ErrInvalidInput)
	assert.Equal(t, "loading db.json: File 'db.json' does not exist",
		err.Error())
	assert.Equal(t, cerr.KindUnknown, cerr.KindOf(errors.New("plain")))
	assert.Equal(t, cerr.KindUnknown, cerr.KindOf(nil))
}

func TestNotFound(t *testing.T) {
	err := cerr.NotFound("Client", "CLI-240101-SMI-0")
	assert.ErrorIs(t, err, cerr.ErrInvalidInput)
	var nfe *cerr.NotFoundError
	if assert.ErrorAs(t, err, &nfe) {
		assert.Equal(t, "CLI-240101-SMI-0", nfe[1])
	}
	assert.Equal(t, "Client 'CLI-240101-SMI-0' does not exist",
		err.Error())
}

func ExampleKindOf() {
	err := cerr.InvalidInputf("Invalid postal code: '%s'", "99999")
	fmt.Println(cerr.KindOf(err))
	fmt.Println(err)
	// Output:
	// invalid input
	// Invalid postal code: '99999'
}

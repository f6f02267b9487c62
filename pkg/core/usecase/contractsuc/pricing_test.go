// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package contractsuc_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/usecase/contractsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurchargeBrackets(t *testing.T) {
	for mileage, want := range map[int]int{
		0:    0,
		50:   0,
		51:   26, // round(25.5)
		99:   50, // round(49.5)
		100:  50,
		101:  30, // round(30.3)
		150:  45,
		200:  60,
		201:  40, // round(40.2)
		300:  60,
		301:  30, // round(30.1)
		305:  31, // round(30.5)
		1000: 100,
	} {
		assert.Equal(t, want, contractsuc.Surcharge(mileage), "mileage=%d", mileage)
	}
}

func TestDiscount(t *testing.T) {
	assert.Equal(t, 900, contractsuc.Discount(1000))
	assert.Equal(t, 1, contractsuc.Discount(1))   // round(0.9)
	assert.Equal(t, 5, contractsuc.Discount(5))   // round(4.5)
	assert.Equal(t, 14, contractsuc.Discount(15)) // round(13.5)
	assert.Equal(t, 0, contractsuc.Discount(0))
}

func date(s string) time.Time {
	d, err := time.Parse("02/01/2006", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPrice(t *testing.T) {
	q, err := contractsuc.Price(100, date("01/03/2024"), date("04/03/2024"), 150)
	require.NoError(t, err)
	assert.Equal(t, contractsuc.Quote{
		Days: 3, Base: 300, Surcharge: 45, Total: 345,
	}, q)

	q, err = contractsuc.Price(100, date("01/03/2024"), date("08/03/2024"), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, q.Days)
	assert.False(t, q.DiscountAvailable, "exactly seven days")

	q, err = contractsuc.Price(100, date("01/03/2024"), date("09/03/2024"), 60)
	require.NoError(t, err)
	assert.Equal(t, contractsuc.Quote{
		Days: 8, Base: 800, Surcharge: 30, Total: 830,
		DiscountAvailable: true, Discounted: 747,
	}, q)

	for _, end := range []string{"01/03/2024", "28/02/2024"} {
		_, err = contractsuc.Price(100, date("01/03/2024"), date(end), 0)
		assert.ErrorIs(t, err, cerr.ErrInvalidInput, end)
	}
}

func ExampleSurcharge() {
	for _, m := range []int{50, 51, 150} {
		fmt.Println(m, contractsuc.Surcharge(m))
	}
	// Output:
	// 50 0
	// 51 26
	// 150 45
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validation

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/momeni/carrent/pkg/core/cerr"
)

// checks maps the custom validator tags to their checking functions.
// These tags may be used in the `validate` tag of string fields.
// Fields may also be annotated by a `label` tag which is used as their
// name in the failure messages.
var checks = map[string]func(raw string) error{
	"nonempty":   func(raw string) error { return NonEmpty(raw) },
	"date":       func(raw string) error { _, err := Date(raw); return err },
	"postalcode": PostalCode,
	"phone":      PhoneNumber,
	"mail":       MailAddress,
	"nonneg": func(raw string) error {
		_, err := NonNegativeNumber(raw)
		return err
	},
}

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

func structEngine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		for tag, check := range checks {
			err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return check(fl.Field().String()) == nil
			})
			if err != nil {
				panic(fmt.Errorf("registering %q validator: %w", tag, err))
			}
		}
		engine = v
	})
	return engine
}

// Struct validates the s struct (or pointer to struct) based on the
// `validate` tags of its fields, stopping at the first failing field.
// The failure is reported with the same message which is produced by
// the corresponding check function (e.g., PostalCode) except for the
// nonempty tag which names the empty field.
func Struct(s any) error {
	switch err := structEngine().Struct(s).(type) {
	case nil:
		return nil
	case *validator.InvalidValidationError:
		return fmt.Errorf("validating %T: %w", s, err)
	case validator.ValidationErrors:
		fe := err[0]
		if fe.Tag() == "nonempty" {
			return cerr.InvalidInputf("%s cannot be empty.", fe.Field())
		}
		if check, ok := checks[fe.Tag()]; ok {
			raw, _ := fe.Value().(string)
			if verr := check(raw); verr != nil {
				return verr
			}
		}
		return cerr.InvalidInput(err)
	default:
		return fmt.Errorf("validating %T: %w", s, err)
	}
}

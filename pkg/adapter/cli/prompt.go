// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/momeni/carrent/pkg/core/usecase/contractsuc"
)

// ErrNoAnswer is returned when the input ends before a valid answer
// is read.
var ErrNoAnswer = errors.New("no answer was given")

var shortAnswers = map[string]contractsuc.DiscountAnswer{
	"y":   contractsuc.DiscountApply,
	"yes": contractsuc.DiscountApply,
	"a":   contractsuc.DiscountApply,
	"n":   contractsuc.DiscountKeep,
	"no":  contractsuc.DiscountKeep,
	"k":   contractsuc.DiscountKeep,
	"c":   contractsuc.DiscountAbort,
}

// DiscountPrompt asks the discount question on a text terminal.
// It implements the contractsuc.DiscountConfirmer interface.
type DiscountPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

var _ contractsuc.DiscountConfirmer = (*DiscountPrompt)(nil)

// NewDiscountPrompt instantiates a DiscountPrompt which reads answers
// from in and writes questions to out.
func NewDiscountPrompt(in io.Reader, out io.Writer) *DiscountPrompt {
	return &DiscountPrompt{in: bufio.NewReader(in), out: out}
}

// ConfirmDiscount shows the full and discounted prices of q and reads
// lines until one of them is a valid answer. Answers are apply (or y),
// keep (or n), and abort (or c), ignoring case.
func (p *DiscountPrompt) ConfirmDiscount(
	ctx context.Context, q contractsuc.Quote,
) (contractsuc.DiscountAnswer, error) {
	fmt.Fprintf(p.out,
		"The rental lasts %d days, a 10%% discount is available.\n"+
			"Full price: %d, discounted price: %d.\n",
		q.Days, q.Total, q.Discounted,
	)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(p.out, "Apply the discount? [apply/keep/abort]: ")
		line, err := p.in.ReadString('\n')
		s := strings.ToLower(strings.TrimSpace(line))
		if a, ok := shortAnswers[s]; ok {
			return a, nil
		}
		if a, perr := contractsuc.ParseDiscountAnswer(s); perr == nil {
			return a, nil
		}
		if err != nil {
			fmt.Fprintln(p.out)
			if errors.Is(err, io.EOF) {
				return 0, ErrNoAnswer
			}
			return 0, fmt.Errorf("reading answer: %w", err)
		}
		if s != "" {
			fmt.Fprintf(p.out, "'%s' is not a valid answer.\n", s)
		}
	}
}

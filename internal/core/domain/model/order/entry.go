package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Entry is one append-only record of completed units in an assignment's ledger.
// Its ID is supplied by the reporter (or generated) and identifies the report
// across retries: an assignment never applies the same entry ID twice.
type Entry struct {
	id         kernel.UUID
	quantity   int
	recordedAt time.Time
	author     string

	isConstructed bool
}

// NewEntry validates a completion report.
//
// Business rules:
//   - quantity must be strictly positive
//   - recordedAt is required and normalized to UTC
//   - author is required (who reported the units)
func NewEntry(id kernel.UUID, quantity int, recordedAt time.Time, author string) (Entry, error) {
	e := Entry{
		recordedAt:    recordedAt.UTC(),
		author:        strings.TrimSpace(author),
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setQuantity(quantity),
		e.validateRecordedAt(),
		e.validateAuthor(),
	); err != nil {
		return Entry{}, err
	}

	return e, nil
}

// Validate ensures the entry was created through NewEntry.
func (e Entry) Validate() error {
	if !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the idempotency key of the entry.
func (e Entry) ID() kernel.UUID {
	return e.id
}

// Quantity returns the number of units the entry reports.
func (e Entry) Quantity() int {
	return e.quantity
}

// RecordedAt returns when the units were completed.
func (e Entry) RecordedAt() time.Time {
	return e.recordedAt
}

// Author returns who reported the units.
func (e Entry) Author() string {
	return e.author
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("entry quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	e.quantity = quantity
	return nil
}

func (e *Entry) validateRecordedAt() error {
	if e.recordedAt.IsZero() {
		return errs.NewValueIsRequiredError("entry date")
	}
	return nil
}

func (e *Entry) validateAuthor() error {
	if e.author == "" {
		return errs.NewValueIsRequiredError("entry author")
	}
	return nil
}

// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package matching

import "github.com/pkg/errors"

var (
	// ErrDuplicateOrderID signals an ADD carrying an order id already
	// resting on the book. The book is unchanged.
	ErrDuplicateOrderID = errors.New("duplicate order id")
	// ErrUnknownOrderID signals an UPDATE or DELETE for an order id the
	// book has never seen, or has already removed.
	ErrUnknownOrderID = errors.New("unknown order id")
	// ErrStaleDelta signals a delta whose sequence number does not
	// advance the book's lineage. The book is unchanged.
	ErrStaleDelta = errors.New("stale delta")
	// ErrBookTypeMismatch signals an operation that has no meaning for
	// the book's granularity: an add or update on a book whose type is
	// not L1_TBBO, L2_MBP or L3_MBO. L1 and L2 books accept per-order
	// updates and deletes under their synthetic-id rules.
	ErrBookTypeMismatch = errors.New("operation not supported for book type")
	// ErrBookInvalid signals a poisoned book. A book poisons itself when
	// an internal invariant breaks (aggregation overflow, index
	// inconsistency); it must be discarded and rebuilt from a snapshot.
	ErrBookInvalid = errors.New("book invalid, rebuild required")
	// ErrInstrumentMismatch signals a delta for another instrument.
	ErrInstrumentMismatch = errors.New("delta instrument does not match book")
	// ErrMissingOrder signals a non-CLEAR delta without an order payload.
	ErrMissingOrder = errors.New("delta carries no order")
	// ErrNoOrders signals a query against an empty book side.
	ErrNoOrders = errors.New("no orders on the book")
)

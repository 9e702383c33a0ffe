// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package memory

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the failure condition behind an Error.  The set of kinds is
// closed.
type Kind uint8

const (
	// TooBig indicates an address (or computed bound) exceeds a maximum.
	TooBig Kind = iota + 1
	// TooSmall indicates a value is below a required minimum.
	TooSmall
	// InvalidAddr indicates an address is structurally invalid, irrespective
	// of the block's size.
	InvalidAddr
	// ReadOnly indicates a write to a block (or region) which forbids writes.
	ReadOnly
	// WriteOnly indicates a read from a block (or region) which forbids reads.
	WriteOnly
	// UnalignedAccess indicates a multi-byte access at a misaligned address.
	UnalignedAccess
	// NoData indicates there is no value at a given address.
	NoData
	// InvalidData indicates the value at a given address failed validation.
	InvalidData
	// HardwareFault indicates the underlying device reported a fault.
	HardwareFault
	// Uninitialized indicates an address which has never been written, where
	// the block distinguishes this from holding zero.
	Uninitialized
	// NotImplemented indicates an operation is not supported.
	NotImplemented
	// NotApplicable indicates an operation has no meaning at a given address.
	NotApplicable
)

var kindNames = [...]string{
	"unknown", "too big", "too small", "invalid address", "read only", "write only", "unaligned access",
	"no data", "invalid data", "hardware fault", "uninitialized", "not implemented", "not applicable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	//
	return kindNames[0]
}

// Error is the value reported by a block when an operation fails.  Which fields
// are meaningful depends upon the kind.
type Error struct {
	Kind Kind
	// Offending address (or value, for TooBig / TooSmall).
	Addr Addr
	// Maximum (TooBig), minimum (TooSmall) or required alignment
	// (UnalignedAccess).
	Limit Addr
	// Whether a ReadOnly or WriteOnly restriction applies to the whole block,
	// rather than some region of it.
	Global bool
	// Explanation of a HardwareFault.
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case TooBig:
		return fmt.Sprintf("memory: %#x is too big, %#x is the maximum", e.Addr, e.Limit)
	case TooSmall:
		return fmt.Sprintf("memory: %#x is too small, %#x is the minimum", e.Addr, e.Limit)
	case InvalidAddr:
		return fmt.Sprintf("memory: invalid address %#x", e.Addr)
	case ReadOnly:
		return fmt.Sprintf("memory: read only at %#x", e.Addr)
	case WriteOnly:
		return fmt.Sprintf("memory: write only at %#x", e.Addr)
	case UnalignedAccess:
		return fmt.Sprintf("memory: unaligned access at %#x, need %d byte alignment", e.Addr, e.Limit)
	case NoData:
		return fmt.Sprintf("memory: no data available at %#x", e.Addr)
	case InvalidData:
		return fmt.Sprintf("memory: invalid data at %#x", e.Addr)
	case HardwareFault:
		return fmt.Sprintf("memory: hardware fault at %#x: %s", e.Addr, e.Reason)
	case Uninitialized:
		return fmt.Sprintf("memory: %#x is uninitialized", e.Addr)
	case NotImplemented:
		return "memory: not implemented"
	case NotApplicable:
		return fmt.Sprintf("memory: action not applicable at %#x", e.Addr)
	default:
		return fmt.Sprintf("memory: unknown error at %#x", e.Addr)
	}
}

// KindOf returns the kind of the block error underlying err, which may have
// been wrapped with additional context any number of times.
func KindOf(err error) (Kind, bool) {
	var e *Error
	//
	if errors.As(err, &e) {
		return e.Kind, true
	}
	//
	return 0, false
}

// IsKind checks whether err is (or wraps) a block error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// TooBigError reports that given exceeds the maximum max.
func TooBigError(given, max Addr) error {
	return errors.WithStack(&Error{Kind: TooBig, Addr: given, Limit: max})
}

// TooSmallError reports that given is below the minimum min.
func TooSmallError(given, min Addr) error {
	return errors.WithStack(&Error{Kind: TooSmall, Addr: given, Limit: min})
}

// InvalidAddrError reports a structurally invalid address.
func InvalidAddrError(addr Addr) error {
	return errors.WithStack(&Error{Kind: InvalidAddr, Addr: addr})
}

// ReadOnlyError reports a write to an address which forbids writes.  The
// global flag indicates the restriction covers the whole block.
func ReadOnlyError(addr Addr, global bool) error {
	return errors.WithStack(&Error{Kind: ReadOnly, Addr: addr, Global: global})
}

// WriteOnlyError reports a read from an address which forbids reads.
func WriteOnlyError(addr Addr, global bool) error {
	return errors.WithStack(&Error{Kind: WriteOnly, Addr: addr, Global: global})
}

// UnalignedAccessError reports a multi-byte access at an address which is not
// a multiple of alignment.
func UnalignedAccessError(addr, alignment Addr) error {
	return errors.WithStack(&Error{Kind: UnalignedAccess, Addr: addr, Limit: alignment})
}

// NoDataError reports there is no value at a given address.
func NoDataError(addr Addr) error {
	return errors.WithStack(&Error{Kind: NoData, Addr: addr})
}

// InvalidDataError reports the value at a given address is invalid.
func InvalidDataError(addr Addr) error {
	return errors.WithStack(&Error{Kind: InvalidData, Addr: addr})
}

// HardwareFaultError reports a device fault at a given address.
func HardwareFaultError(addr Addr, reason string) error {
	return errors.WithStack(&Error{Kind: HardwareFault, Addr: addr, Reason: reason})
}

// UninitializedError reports an address which has never been written.
func UninitializedError(addr Addr) error {
	return errors.WithStack(&Error{Kind: Uninitialized, Addr: addr})
}

// NotImplementedError reports an unsupported operation.
func NotImplementedError() error {
	return errors.WithStack(&Error{Kind: NotImplemented})
}

// NotApplicableError reports an operation with no meaning at a given address.
func NotApplicableError(addr Addr) error {
	return errors.WithStack(&Error{Kind: NotApplicable, Addr: addr})
}

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
	"github.com/pkg/errors"
)

// Addr identifies a single byte-sized cell within a block.
type Addr = uint64

// Byte is the unit of storage and transfer.
type Byte = uint8

// MaxAddr is the highest address representable by Addr.
const MaxAddr Addr = ^Addr(0)

// Block represents a finite, byte-addressable region of storage.  This could
// be backed by RAM, a file, a block device, a remote memory server or an
// emulated hardware bus; callers need not know which.  Every block has a size,
// which is the highest accessible address (not the number of addresses).
// Thus, a block of size N holds N+1 cells, addressed 0..N inclusive.
//
// A block is owned by one logical owner at a time, and provides no internal
// locking.  Sharing a block between goroutines requires an external guard
// (see middleware.Synchronized).
type Block interface {
	// Size returns the highest valid address of this block.
	Size() Addr
	// Get returns the byte stored at a given address.  This fails if the
	// address exceeds the block's size, or the block holds no value there.
	// Reading never changes the block.
	Get(addr Addr) (Byte, error)
	// Set writes a byte at a given address.  This fails if the address
	// exceeds the block's size, or if writes are forbidden at that address.
	// Once a write succeeds, reading the same address returns the written
	// value until something else changes it.
	Set(addr Addr, value Byte) error
}

// Deleter is implemented by blocks which can erase a range of addresses more
// efficiently (or more correctly) than writing zero to each one in turn.  For
// example, a flash-backed block could perform wear-levelling aware erasure.
// Regardless, every address in the range must subsequently read as zero (or
// the block's documented erased value).
type Deleter interface {
	Delete(from, to Addr) error
}

// Flusher is implemented by blocks which buffer writes, and must therefore be
// told when those writes need to become durable (or visible).
type Flusher interface {
	Flush() error
}

// Delete logically clears the inclusive address range [from,to] of a given
// block.  If the block implements Deleter, then that is used.  Otherwise, this
// falls back to ZeroRange.
func Delete(b Block, from, to Addr) error {
	if d, ok := b.(Deleter); ok {
		return d.Delete(from, to)
	}
	//
	return ZeroRange(b, from, to)
}

// ZeroRange writes zero to every address in the inclusive range [from,to],
// including both endpoints.  Endpoints given in reverse order are swapped.
// Erasure stops at the first address which cannot be written, leaving those
// before it erased.
func ZeroRange(b Block, from, to Addr) error {
	from, to = order(from, to)
	//
	for i := from; ; i++ {
		if err := b.Set(i, 0); err != nil {
			if from == to {
				return errors.Wrapf(err, "failure to delete %#x", i)
			}
			//
			return errors.Wrapf(err, "failure to delete byte %d in %#x-%#x", i-from, from, to)
		}
		// NOTE: cannot use i <= to as the loop condition, since that never
		// terminates when to == MaxAddr.
		if i == to {
			return nil
		}
	}
}

// Flush forces any buffered writes of a given block to become durable.  If
// the block implements Flusher then that is used.  Otherwise, there is nothing
// to do.
func Flush(b Block) error {
	if f, ok := b.(Flusher); ok {
		return f.Flush()
	}
	//
	return nil
}

// Constructor creates a block of a given size, where every address in 0..size
// is defined and initially zero (or a documented sentinel value).
type Constructor func(size Addr) (Block, error)

// Middleware wraps an existing block, returning a new block with altered
// behaviour.  The returned block takes exclusive ownership of the one it
// wraps, which must not be accessed other than through the wrapper from then
// on.
type Middleware func(Block) Block

// Wrap applies a sequence of middleware layers to a given block, innermost
// first.  Thus, Wrap(b, m1, m2) gives m2(m1(b)).
func Wrap(b Block, layers ...Middleware) Block {
	for _, layer := range layers {
		b = layer(b)
	}
	//
	return b
}

// Return the given endpoints as an ordered pair (lowest first).
func order(from, to Addr) (Addr, Addr) {
	if from > to {
		return to, from
	}
	//
	return from, to
}

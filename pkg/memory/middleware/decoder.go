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
package middleware

import (
	"fmt"
	"math/bits"

	"github.com/consensys/go-memblock/pkg/memory"
)

// AddressDecoder translates an address, as seen by the user of a block, into
// the address at which the corresponding cell is actually held by the block
// underneath.  This allows one block to be presented with a different layout
// without copying it.  For example, emulated hardware frequently mirrors a
// small RAM across a larger region of the address space, or presents
// multi-byte words in the opposite byte order.
//
// Implementations are free to impose whatever layout they require, but must
// be deterministic.  A decoder may reject an address by returning an error
// (e.g. InvalidAddr).
type AddressDecoder interface {
	// Decode maps a given address onto the address of the underlying cell.
	Decode(addr memory.Addr) (memory.Addr, error)
}

// Mirror is an AddressDecoder which folds the address space onto its first
// period cells.  Thus, address i refers to the same cell as address i+period,
// i+2*period, etc.
type Mirror struct {
	period memory.Addr
}

// NewMirror constructs a decoder which repeats the first period cells
// throughout the address space.
func NewMirror(period memory.Addr) Mirror {
	if period == 0 {
		panic("mirror period must be non-zero")
	}
	//
	return Mirror{period}
}

// Decode implementation for the AddressDecoder interface.
func (p Mirror) Decode(addr memory.Addr) (memory.Addr, error) {
	return addr % p.period, nil
}

// ByteSwap is an AddressDecoder which reverses the order of bytes within each
// aligned word of a given width.  For example, with a width of 4, addresses
// 0,1,2,3 map to 3,2,1,0 (and 4,5,6,7 to 7,6,5,4, etc).  Thus, a big endian
// block appears little endian, and vice versa.
type ByteSwap struct {
	width memory.Addr
}

// NewByteSwap constructs a decoder which reverses bytes within each word of the
// given width, which must be a power of two.
func NewByteSwap(width memory.Addr) ByteSwap {
	if bits.OnesCount64(width) != 1 {
		panic(fmt.Sprintf("invalid word width (%d)", width))
	}
	//
	return ByteSwap{width}
}

// Decode implementation for the AddressDecoder interface.
func (p ByteSwap) Decode(addr memory.Addr) (memory.Addr, error) {
	return addr ^ (p.width - 1), nil
}

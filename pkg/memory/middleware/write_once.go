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
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-memblock/pkg/memory"
)

// Largest block size for which written locations are tracked with a bitset.
// Beyond this, a bitset covering the highest written address could be
// arbitrarily large, so locations are tracked individually instead.
const maxBitsetSize memory.Addr = 1<<24 - 1

// WriteOnce wraps a block such that each location can be written at most once.
// Thereafter, further writes to that location fail with a (local) read only
// error.  Thus, a WriteOnce block can be viewed as an output record which, once
// produced, cannot be amended.  Reads are passed through unchanged.
type WriteOnce struct {
	inner memory.Block
	// Locations written so far, for small blocks.
	written *bitset.BitSet
	// Locations written so far, for large blocks.
	sparse map[memory.Addr]struct{}
}

// NewWriteOnce wraps a given block, taking exclusive ownership of it.  No
// location of the block is considered written initially.
func NewWriteOnce(inner memory.Block) *WriteOnce {
	if inner.Size() > maxBitsetSize {
		return &WriteOnce{inner, nil, make(map[memory.Addr]struct{})}
	}
	//
	return &WriteOnce{inner, bitset.New(0), nil}
}

// Size implementation for memory.Block interface.
func (p *WriteOnce) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *WriteOnce) Get(addr memory.Addr) (memory.Byte, error) {
	return p.inner.Get(addr)
}

// Set implementation for memory.Block interface.
func (p *WriteOnce) Set(addr memory.Addr, value memory.Byte) error {
	if p.isWritten(addr) {
		return memory.ReadOnlyError(addr, false)
	} else if err := p.inner.Set(addr, value); err != nil {
		return err
	}
	//
	if p.written != nil {
		p.written.Set(uint(addr))
	} else {
		p.sparse[addr] = struct{}{}
	}
	//
	return nil
}

// Written returns the number of locations written so far.
func (p *WriteOnce) Written() uint {
	if p.written != nil {
		return p.written.Count()
	}
	//
	return uint(len(p.sparse))
}

// Flush implementation for memory.Flusher interface.
func (p *WriteOnce) Flush() error {
	return memory.Flush(p.inner)
}

func (p *WriteOnce) isWritten(addr memory.Addr) bool {
	if p.written != nil {
		// Addresses beyond the block are never written
		return addr <= maxBitsetSize && p.written.Test(uint(addr))
	}
	//
	_, ok := p.sparse[addr]
	//
	return ok
}

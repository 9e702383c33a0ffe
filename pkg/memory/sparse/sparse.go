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
package sparse

import (
	"cmp"
	"slices"

	"github.com/consensys/go-memblock/pkg/memory"
)

// Block is a sparse block, which only holds storage for those locations which
// have been written.  Unlike most blocks, it distinguishes a location which has
// never been written from one holding zero: reading the former fails with an
// Uninitialized error.  Deleting a range of addresses releases their storage,
// after which they read as zero.  Thus, very large address spaces can be used
// cheaply, provided only a small portion of them is touched.
type Block struct {
	size  memory.Addr
	cells map[memory.Addr]memory.Byte
	// Disjoint, sorted ranges of addresses which have been erased.
	erased []span
}

// Inclusive range of addresses.
type span struct {
	from, to memory.Addr
}

// New constructs an empty sparse block whose highest address is size.
func New(size memory.Addr) *Block {
	return &Block{size, make(map[memory.Addr]memory.Byte), nil}
}

// Constructor implementation for memory.Constructor.  Observe that, unlike
// other backends, locations of a sparse block are uninitialised (rather than
// zero) until written.
func Constructor(size memory.Addr) (memory.Block, error) {
	return New(size), nil
}

// Size implementation for memory.Block interface.
func (p *Block) Size() memory.Addr {
	return p.size
}

// Get implementation for memory.Block interface.
func (p *Block) Get(addr memory.Addr) (memory.Byte, error) {
	if addr > p.size {
		return 0, memory.TooBigError(addr, p.size)
	} else if v, ok := p.cells[addr]; ok {
		return v, nil
	} else if p.isErased(addr) {
		return 0, nil
	}
	//
	return 0, memory.UninitializedError(addr)
}

// Set implementation for memory.Block interface.
func (p *Block) Set(addr memory.Addr, value memory.Byte) error {
	if addr > p.size {
		return memory.TooBigError(addr, p.size)
	}
	//
	p.cells[addr] = value
	//
	return nil
}

// Delete implementation for memory.Deleter interface.  Rather than writing
// zero to every location, this discards any storage held for the range and
// records it as erased.
func (p *Block) Delete(from, to memory.Addr) error {
	if from > to {
		from, to = to, from
	}
	//
	if to > p.size {
		return memory.TooBigError(to, p.size)
	}
	// Release storage, choosing whichever is the smaller iteration space.
	if to-from >= memory.Addr(len(p.cells)) {
		for addr := range p.cells {
			if from <= addr && addr <= to {
				delete(p.cells, addr)
			}
		}
	} else {
		for addr := from; ; addr++ {
			delete(p.cells, addr)
			//
			if addr == to {
				break
			}
		}
	}
	//
	p.erase(span{from, to})
	//
	return nil
}

// Len returns the number of locations currently holding storage.
func (p *Block) Len() int {
	return len(p.cells)
}

func (p *Block) isErased(addr memory.Addr) bool {
	_, found := slices.BinarySearchFunc(p.erased, addr, func(s span, addr memory.Addr) int {
		if addr < s.from {
			return 1
		} else if addr > s.to {
			return -1
		}
		//
		return 0
	})
	//
	return found
}

// Record a given range as erased, merging it with any ranges it overlaps or
// abuts.
func (p *Block) erase(s span) {
	var merged []span
	//
	p.erased = append(p.erased, s)
	slices.SortFunc(p.erased, func(l, r span) int { return cmp.Compare(l.from, r.from) })
	//
	for _, next := range p.erased {
		n := len(merged)
		//
		if n > 0 && (merged[n-1].to == memory.MaxAddr || next.from <= merged[n-1].to+1) {
			merged[n-1].to = max(merged[n-1].to, next.to)
		} else {
			merged = append(merged, next)
		}
	}
	//
	p.erased = merged
}

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
package ram

import (
	"github.com/consensys/go-memblock/pkg/memory"
)

// Vector is the simplest form of block, backed by a flat slice of bytes.
// Initially, all locations hold zero.  Thus, reading a location which has not
// yet been written will return zero; otherwise, it will return the last value
// written.  Vector does no caching and, hence, relies on the default Delete and
// Flush behaviour.
type Vector struct {
	size memory.Addr
	data []memory.Byte
}

// New constructs a Vector whose highest address is size, with every location
// initialised to zero.  Since a vector holds size+1 bytes, size cannot be
// memory.MaxAddr and this panics if it is.  Use Constructor to obtain an error
// instead.
func New(size memory.Addr) *Vector {
	if size == memory.MaxAddr {
		panic("vector cannot span entire address space")
	}
	//
	return &Vector{size, make([]memory.Byte, size+1)}
}

// FromBytes constructs a Vector holding a copy of the given bytes.  The size
// of the resulting vector is one less than the number of bytes.  Since every
// block holds at least one location, this panics if no bytes are given.
func FromBytes(bytes []byte) *Vector {
	if len(bytes) == 0 {
		panic("cannot construct empty vector")
	}
	//
	data := make([]memory.Byte, len(bytes))
	copy(data, bytes)
	//
	return &Vector{memory.Addr(len(bytes) - 1), data}
}

// Constructor implementation for memory.Constructor.
func Constructor(size memory.Addr) (memory.Block, error) {
	if size == memory.MaxAddr {
		return nil, memory.TooBigError(size, memory.MaxAddr-1)
	}
	//
	return New(size), nil
}

// Size implementation for memory.Block interface.
func (p *Vector) Size() memory.Addr {
	return p.size
}

// Get implementation for memory.Block interface.
func (p *Vector) Get(addr memory.Addr) (memory.Byte, error) {
	if addr >= memory.Addr(len(p.data)) {
		return 0, memory.NoDataError(addr)
	}
	//
	return p.data[addr], nil
}

// Set implementation for memory.Block interface.
func (p *Vector) Set(addr memory.Addr, value memory.Byte) error {
	if addr > p.size {
		return memory.TooBigError(addr, p.size)
	}
	//
	p.data[addr] = value
	//
	return nil
}

// Bytes returns the contents of this vector.  The returned slice aliases the
// vector's storage.
func (p *Vector) Bytes() []byte {
	return p.data
}

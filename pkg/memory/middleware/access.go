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
	"github.com/consensys/go-memblock/pkg/memory"
)

// ReadOnly wraps a block so that it can be read, but never written.  Reads are
// passed through unchanged, whilst every write fails with a (global) read only
// error without reaching the wrapped block.  This is useful, for example, for
// ROMs holding static reference tables, or when dynamically dispatching between
// blocks some of which must not be modified.  ReadOnly relies upon the default
// Delete and Flush behaviour.  Hence, deleting any range fails on its first
// address, whilst flushing has nothing to do.
type ReadOnly struct {
	inner memory.Block
}

// NewReadOnly wraps a given block, taking exclusive ownership of it.
func NewReadOnly(inner memory.Block) *ReadOnly {
	return &ReadOnly{inner}
}

// Size implementation for memory.Block interface.
func (p *ReadOnly) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *ReadOnly) Get(addr memory.Addr) (memory.Byte, error) {
	return p.inner.Get(addr)
}

// Set implementation for memory.Block interface.
func (p *ReadOnly) Set(addr memory.Addr, _ memory.Byte) error {
	return memory.ReadOnlyError(addr, true)
}

// WriteOnly wraps a block so that it can be written, but never read.  Every
// read fails with a (global) write only error, whilst all other operations are
// passed through.  This is useful, for example, for output ports and other
// write-only device registers.
type WriteOnly struct {
	inner memory.Block
}

// NewWriteOnly wraps a given block, taking exclusive ownership of it.
func NewWriteOnly(inner memory.Block) *WriteOnly {
	return &WriteOnly{inner}
}

// Size implementation for memory.Block interface.
func (p *WriteOnly) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *WriteOnly) Get(addr memory.Addr) (memory.Byte, error) {
	return 0, memory.WriteOnlyError(addr, true)
}

// Set implementation for memory.Block interface.
func (p *WriteOnly) Set(addr memory.Addr, value memory.Byte) error {
	return p.inner.Set(addr, value)
}

// Delete implementation for memory.Deleter interface.
func (p *WriteOnly) Delete(from, to memory.Addr) error {
	return memory.Delete(p.inner, from, to)
}

// Flush implementation for memory.Flusher interface.
func (p *WriteOnly) Flush() error {
	return memory.Flush(p.inner)
}

// Protect wraps a block such that a given region of it is read only.  Writes
// within the (inclusive) region fail with a (local) read only error, whilst
// everything else is passed through.
type Protect struct {
	inner    memory.Block
	from, to memory.Addr
}

// NewProtect wraps a given block, such that the inclusive range [from,to] cannot
// be written.  The endpoints may be given in either order.
func NewProtect(inner memory.Block, from, to memory.Addr) *Protect {
	if from > to {
		from, to = to, from
	}
	//
	return &Protect{inner, from, to}
}

// Size implementation for memory.Block interface.
func (p *Protect) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *Protect) Get(addr memory.Addr) (memory.Byte, error) {
	return p.inner.Get(addr)
}

// Set implementation for memory.Block interface.
func (p *Protect) Set(addr memory.Addr, value memory.Byte) error {
	if p.from <= addr && addr <= p.to {
		return memory.ReadOnlyError(addr, false)
	}
	//
	return p.inner.Set(addr, value)
}

// Flush implementation for memory.Flusher interface.
func (p *Protect) Flush() error {
	return memory.Flush(p.inner)
}

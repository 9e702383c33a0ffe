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

// Fault wraps a block to simulate faulty hardware.  Any attempt to read or
// write one of a given set of addresses fails with a hardware fault, whilst
// all other accesses are passed through.  This is useful for testing how
// higher-level code (e.g. an emulator) copes with failing devices.
type Fault struct {
	inner  memory.Block
	reason string
	faulty map[memory.Addr]struct{}
}

// NewFault wraps a given block such that accessing any of the given addresses
// fails with a hardware fault, giving the reason provided.
func NewFault(inner memory.Block, reason string, addrs ...memory.Addr) *Fault {
	faulty := make(map[memory.Addr]struct{}, len(addrs))
	//
	for _, addr := range addrs {
		faulty[addr] = struct{}{}
	}
	//
	return &Fault{inner, reason, faulty}
}

// Size implementation for memory.Block interface.
func (p *Fault) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *Fault) Get(addr memory.Addr) (memory.Byte, error) {
	if _, ok := p.faulty[addr]; ok {
		return 0, memory.HardwareFaultError(addr, p.reason)
	}
	//
	return p.inner.Get(addr)
}

// Set implementation for memory.Block interface.
func (p *Fault) Set(addr memory.Addr, value memory.Byte) error {
	if _, ok := p.faulty[addr]; ok {
		return memory.HardwareFaultError(addr, p.reason)
	}
	//
	return p.inner.Set(addr, value)
}

// Flush implementation for memory.Flusher interface.
func (p *Fault) Flush() error {
	return memory.Flush(p.inner)
}

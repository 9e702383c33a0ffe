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
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// Endian provides fixed-width multi-byte accessors for any block, in a given
// byte order.  Each access is made up of single byte reads (or writes) at
// consecutive addresses, starting from the given address.  Should any of these
// fail, the error identifies which byte failed and in which operation.  Note
// that a failed write may leave earlier bytes written.
type Endian struct {
	order binary.ByteOrder
	// Suffix used when naming operations (e.g. "be" for get32be)
	suffix string
	// Whether addresses must be a multiple of the access width.
	aligned bool
}

var (
	// BigEndian accessors store the most significant byte first.
	BigEndian = Endian{binary.BigEndian, "be", false}
	// LittleEndian accessors store the least significant byte first.
	LittleEndian = Endian{binary.LittleEndian, "le", false}
)

// Aligned returns a variant of these accessors which reject any address which
// is not a multiple of the access width.
func (e Endian) Aligned() Endian {
	return Endian{e.order, e.suffix, true}
}

// Get16 reads a 16bit value at a given address.
func (e Endian) Get16(b Block, addr Addr) (uint16, error) {
	var bytes [2]byte
	//
	if err := e.read(b, "get16", addr, bytes[:]); err != nil {
		return 0, err
	}
	//
	return e.order.Uint16(bytes[:]), nil
}

// Set16 writes a 16bit value at a given address.
func (e Endian) Set16(b Block, addr Addr, value uint16) error {
	var bytes [2]byte
	//
	e.order.PutUint16(bytes[:], value)
	//
	return e.write(b, "set16", addr, bytes[:])
}

// Get32 reads a 32bit value at a given address.
func (e Endian) Get32(b Block, addr Addr) (uint32, error) {
	var bytes [4]byte
	//
	if err := e.read(b, "get32", addr, bytes[:]); err != nil {
		return 0, err
	}
	//
	return e.order.Uint32(bytes[:]), nil
}

// Set32 writes a 32bit value at a given address.
func (e Endian) Set32(b Block, addr Addr, value uint32) error {
	var bytes [4]byte
	//
	e.order.PutUint32(bytes[:], value)
	//
	return e.write(b, "set32", addr, bytes[:])
}

// Get64 reads a 64bit value at a given address.
func (e Endian) Get64(b Block, addr Addr) (uint64, error) {
	var bytes [8]byte
	//
	if err := e.read(b, "get64", addr, bytes[:]); err != nil {
		return 0, err
	}
	//
	return e.order.Uint64(bytes[:]), nil
}

// Set64 writes a 64bit value at a given address.
func (e Endian) Set64(b Block, addr Addr, value uint64) error {
	var bytes [8]byte
	//
	e.order.PutUint64(bytes[:], value)
	//
	return e.write(b, "set64", addr, bytes[:])
}

func (e Endian) read(b Block, op string, addr Addr, bytes []byte) error {
	op = e.name(op)
	//
	if err := e.check(b, op, addr, len(bytes)); err != nil {
		return err
	}
	//
	for i := range bytes {
		var err error
		//
		if bytes[i], err = b.Get(addr + Addr(i)); err != nil {
			return errors.Wrapf(err, "%s at %#x: byte %d", op, addr, i)
		}
	}
	//
	return nil
}

func (e Endian) write(b Block, op string, addr Addr, bytes []byte) error {
	op = e.name(op)
	//
	if err := e.check(b, op, addr, len(bytes)); err != nil {
		return err
	}
	//
	for i, v := range bytes {
		if err := b.Set(addr+Addr(i), v); err != nil {
			return errors.Wrapf(err, "%s at %#x: byte %d", op, addr, i)
		}
	}
	//
	return nil
}

// Check an access of n bytes at addr is aligned (when required), and does not
// wrap around the top of the address space.
func (e Endian) check(b Block, op string, addr Addr, n int) error {
	var width = Addr(n)
	//
	if e.aligned && addr%width != 0 {
		return errors.Wrap(UnalignedAccessError(addr, width), op)
	} else if addr > MaxAddr-(width-1) {
		return errors.Wrap(TooBigError(MaxAddr, b.Size()), op)
	}
	//
	return nil
}

func (e Endian) name(op string) string {
	return fmt.Sprintf("%s%s", op, e.suffix)
}

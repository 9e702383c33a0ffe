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

// Copy copies the whole of src (i.e. addresses 0..src.Size()) into dst,
// starting at address 0.  This fails without touching dst when src is larger
// than dst.  Otherwise, the transfer aborts on the first byte which cannot be
// read or written, and bytes already written are left in place.  On success,
// this returns the size of src.
func Copy(src, dst Block) (Addr, error) {
	var (
		srcSize = src.Size()
		dstSize = dst.Size()
	)
	//
	if srcSize > dstSize {
		return 0, TooBigError(srcSize, dstSize)
	}
	//
	for i := Addr(0); ; i++ {
		if err := transfer(src, i, dst, i); err != nil {
			return 0, errors.Wrap(err, "in copy")
		}
		// NOTE: loop condition here avoids overflow when srcSize == MaxAddr.
		if i == srcSize {
			return srcSize, nil
		}
	}
}

// CopyAt copies the inclusive range [from,to] of src into dst, starting at
// address pos.  The endpoints may be given in either order, and the lowest
// is always copied to pos.  This fails without touching dst if either range
// would exceed its block.  Otherwise, the transfer aborts on the first byte
// which cannot be read or written.  On success, this returns the difference
// between the endpoints, which is one less than the number of bytes copied.
func CopyAt(src, dst Block, from, to, pos Addr) (Addr, error) {
	var (
		srcSize         = src.Size()
		dstSize         = dst.Size()
		lowest, highest = order(from, to)
		numbytes        = highest - lowest
	)
	// Handle invalid cases.
	if highest > srcSize {
		return 0, TooBigError(highest, srcSize)
	} else if pos > dstSize || numbytes > dstSize-pos {
		return 0, TooBigError(saturatingAdd(pos, numbytes), dstSize)
	}
	// Actual copying
	for i := lowest; ; i++ {
		if err := transfer(src, i, dst, pos+(i-lowest)); err != nil {
			return 0, errors.Wrap(err, "in copy_at")
		}
		//
		if i == highest {
			return numbytes, nil
		}
	}
}

// Move one byte from a given address in src to a given address in dst.
func transfer(src Block, from Addr, dst Block, to Addr) error {
	b, err := src.Get(from)
	//
	if err != nil {
		return err
	}
	//
	return dst.Set(to, b)
}

func saturatingAdd(lhs, rhs Addr) Addr {
	if lhs > MaxAddr-rhs {
		return MaxAddr
	}
	//
	return lhs + rhs
}

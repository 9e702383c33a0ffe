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
package file

import (
	"fmt"
	"runtime/debug"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-memblock/pkg/memory"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// PageSize determines the granularity of the write cache.
const PageSize = 4096

// MaxSize is the largest size of file-backed block which can be opened.
const MaxSize memory.Addr = 1<<40 - 1

// Block is a block backed by a memory-mapped file (or block device).  Reads
// are served from the memory map, whilst writes are held in a page cache until
// the block is flushed.  At that point, every dirty page is written back in
// ascending order (through the file descriptor, rather than the map) and the
// file is synchronised with the storage device.  A page fault when reading the
// memory map (e.g. because the file was truncated underneath us) is reported
// as a hardware fault.
//
// The file holds exactly size+1 bytes, so that the size of the block can be
// recovered from the length of the file when it is reopened.
type Block struct {
	path string
	size memory.Addr
	fd   int
	// Read-only shared mapping of the file, rounded up to whole sectors.
	data []byte
	// Cached copies of pages which have been written since the last flush.
	pages map[uint][]byte
	// Indices of dirty pages.
	dirty *bitset.BitSet
	// Sector size reported by the file system.
	sectorSize int
}

// Open a file-backed block whose highest address is size, creating the file
// if it does not already exist.  The file is extended (with zeros) as
// necessary to hold size+1 bytes.  Existing contents are retained, and an
// existing file is never shortened.
func Open(path string, size memory.Addr) (*Block, error) {
	if size > MaxSize {
		return nil, memory.TooBigError(size, MaxSize)
	}
	//
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0666)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to open file %#v", path)
	}
	// Use the block size returned by fstat() to determine the sector size,
	// and hence the extent of the memory map.
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to obtain size of file %#v", path)
	}
	//
	var (
		sectorSize = int64(stat.Blksize)
		length     = int64(size) + 1
		mapLength  = ((length + sectorSize - 1) / sectorSize) * sectorSize
	)
	//
	if stat.Size < length {
		if err := unix.Ftruncate(fd, length); err != nil {
			_ = unix.Close(fd)
			return nil, pkgErrors.Wrapf(err, "failed to extend file %#v to %d bytes", path, length)
		}
	}
	// Mapping beyond the end of the file is permitted, provided those pages
	// are never touched.  Only addresses up to size are ever read.
	data, err := unix.Mmap(fd, 0, int(mapLength), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to memory map file %#v", path)
	}
	//
	return &Block{
		path:       path,
		size:       size,
		fd:         fd,
		data:       data,
		pages:      make(map[uint][]byte),
		dirty:      bitset.New(numPages(size)),
		sectorSize: int(sectorSize),
	}, nil
}

// Path returns the path of the underlying file.
func (p *Block) Path() string {
	return p.path
}

// SectorSize returns the sector size of the underlying file system.
func (p *Block) SectorSize() int {
	return p.sectorSize
}

// Size implementation for memory.Block interface.
func (p *Block) Size() memory.Addr {
	return p.size
}

// Get implementation for memory.Block interface.
func (p *Block) Get(addr memory.Addr) (memory.Byte, error) {
	var bytes [1]byte
	//
	if addr > p.size {
		return 0, memory.TooBigError(addr, p.size)
	} else if page, ok := p.pages[pageOf(addr)]; ok {
		return page[addr%PageSize], nil
	} else if err := p.load(addr, bytes[:]); err != nil {
		return 0, err
	}
	//
	return bytes[0], nil
}

// Set implementation for memory.Block interface.
func (p *Block) Set(addr memory.Addr, value memory.Byte) error {
	if addr > p.size {
		return memory.TooBigError(addr, p.size)
	}
	//
	index := pageOf(addr)
	page, ok := p.pages[index]
	// Load page into cache (if not already)
	if !ok {
		page = make([]byte, PageSize)
		//
		if err := p.load(memory.Addr(index)*PageSize, page[:p.pageLength(index)]); err != nil {
			return err
		}
		//
		p.pages[index] = page
	}
	//
	page[addr%PageSize] = value
	p.dirty.Set(index)
	//
	return nil
}

// Delete implementation for memory.Deleter interface.  Any buffered writes
// are first flushed, after which the range is overwritten with zeros directly
// on the underlying file (rather than one byte at a time through the cache).
func (p *Block) Delete(from, to memory.Addr) error {
	if from > to {
		from, to = to, from
	}
	//
	if to > p.size {
		return memory.TooBigError(to, p.size)
	} else if err := p.writeBack(); err != nil {
		return pkgErrors.Wrapf(err, "failure to delete %#x-%#x", from, to)
	}
	//
	var zeros [PageSize]byte
	//
	for start := from; start <= to; {
		n := min(to-start+1, PageSize)
		//
		if err := p.store(start, zeros[:n]); err != nil {
			return pkgErrors.Wrapf(err, "failure to delete byte %d in %#x-%#x", start-from, from, to)
		}
		//
		start += n
	}
	//
	return nil
}

// Flush implementation for memory.Flusher interface.
func (p *Block) Flush() error {
	if err := p.writeBack(); err != nil {
		return err
	} else if err := unix.Fsync(p.fd); err != nil {
		return memory.HardwareFaultError(0, fmt.Sprintf("failed to sync %s: %s", p.path, err))
	}
	//
	return nil
}

// Close flushes any buffered writes, and releases the underlying file.  The
// block cannot be used afterwards.
func (p *Block) Close() error {
	err := p.Flush()
	//
	if merr := unix.Munmap(p.data); err == nil && merr != nil {
		err = pkgErrors.Wrapf(merr, "failed to unmap file %#v", p.path)
	}
	//
	if cerr := unix.Close(p.fd); err == nil && cerr != nil {
		err = pkgErrors.Wrapf(cerr, "failed to close file %#v", p.path)
	}
	//
	return err
}

// Copy bytes from the memory map, starting at a given address.  A fault
// whilst doing so (e.g. an I/O error, or the file having been truncated) is
// recovered from, rather than crashing the program.
func (p *Block) load(addr memory.Addr, bytes []byte) (err error) {
	old := debug.SetPanicOnFault(true)
	//
	defer func() {
		debug.SetPanicOnFault(old)
		//
		if recover() != nil {
			err = memory.HardwareFaultError(addr, "page fault reading memory map")
		}
	}()
	//
	copy(bytes, p.data[addr:])
	//
	return nil
}

// Write bytes to the file at a given address, through the file descriptor.
// The written data is visible through the memory map immediately afterwards.
// A short write (without an error) is retried for whatever remains.
func (p *Block) store(addr memory.Addr, bytes []byte) error {
	for len(bytes) > 0 {
		n, err := unix.Pwrite(p.fd, bytes, int64(addr))
		if err != nil {
			return memory.HardwareFaultError(addr, err.Error())
		}
		//
		bytes = bytes[n:]
		addr += memory.Addr(n)
	}
	//
	return nil
}

// Write every dirty page back to the file, in ascending order, and empty the
// cache.
func (p *Block) writeBack() error {
	for i, ok := p.dirty.NextSet(0); ok; i, ok = p.dirty.NextSet(i + 1) {
		if err := p.store(memory.Addr(i)*PageSize, p.pages[i][:p.pageLength(i)]); err != nil {
			return err
		}
		//
		p.dirty.Clear(i)
	}
	//
	clear(p.pages)
	//
	return nil
}

// Determine the number of bytes of a given page which lie within the block.
func (p *Block) pageLength(index uint) memory.Addr {
	start := memory.Addr(index) * PageSize
	return min(p.size-start+1, PageSize)
}

func pageOf(addr memory.Addr) uint {
	return uint(addr / PageSize)
}

func numPages(size memory.Addr) uint {
	return uint(size/PageSize) + 1
}

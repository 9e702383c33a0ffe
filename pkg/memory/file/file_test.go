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
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/stretchr/testify/require"
)

func Test_File_00(t *testing.T) {
	var (
		size = memory.Addr(123456)
		path = filepath.Join(t.TempDir(), "test_block")
	)
	//
	block, err := Open(path, size)
	require.NoError(t, err)
	//
	defer block.Close()
	// The sector size should be a power of two, and the file should hold
	// exactly one byte for every address.
	sectorSize := block.SectorSize()
	require.LessOrEqual(t, 512, sectorSize)
	require.Equal(t, 0, sectorSize&(sectorSize-1))
	//
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(size)+1, info.Size())
	require.Equal(t, size, block.Size())
	// Initially zero throughout
	for _, addr := range []memory.Addr{0, 1, 4095, 4096, size} {
		b, err := block.Get(addr)
		require.NoError(t, err)
		require.Equal(t, memory.Byte(0), b)
	}
}

func Test_File_01(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "test_block")
	//
	block, err := Open(path, 0xFF)
	require.NoError(t, err)
	// Write, read, flush
	require.NoError(t, block.Set(0x00, 101))
	require.NoError(t, block.Flush())
	//
	b, err := block.Get(0x00)
	require.NoError(t, err)
	require.Equal(t, memory.Byte(101), b)
	//
	for i := memory.Addr(0); i <= 0xFF; i++ {
		require.NoError(t, block.Set(i, memory.Byte(i&0xFF)))
	}
	// Buffered writes are visible before flushing
	for i := memory.Addr(0); i <= 0xFF; i++ {
		b, err := block.Get(i)
		require.NoError(t, err)
		require.Equal(t, memory.Byte(i&0xFF), b)
	}
	// But are not on disk
	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte(0), bytes[0xFF])
	//
	require.NoError(t, block.Close())
	// Reopening sees everything written
	bytes, err = os.ReadFile(path)
	require.NoError(t, err)
	//
	for i := 0; i <= 0xFF; i++ {
		require.Equal(t, byte(i), bytes[i])
	}
	//
	block, err = Open(path, 0xFF)
	require.NoError(t, err)
	//
	defer block.Close()
	//
	b, err = block.Get(0x80)
	require.NoError(t, err)
	require.Equal(t, memory.Byte(0x80), b)
}

func Test_File_02(t *testing.T) {
	block, err := Open(filepath.Join(t.TempDir(), "test_block"), 3*PageSize)
	require.NoError(t, err)
	//
	defer block.Close()
	// Dirty pages spanning multiple pages, some flushed and some not.
	for i := memory.Addr(0); i <= block.Size(); i += 7 {
		require.NoError(t, block.Set(i, 0xAA))
	}
	//
	require.NoError(t, block.Flush())
	require.NoError(t, block.Set(PageSize+1, 0xBB))
	// Erase across page boundaries, including a pending write.
	require.NoError(t, memory.Delete(block, 2*PageSize+10, PageSize-10))
	//
	for i := memory.Addr(0); i <= block.Size(); i++ {
		var expected memory.Byte
		//
		if i < PageSize-10 || i > 2*PageSize+10 {
			if i%7 == 0 {
				expected = 0xAA
			}
		}
		//
		b, err := block.Get(i)
		require.NoError(t, err)
		require.Equal(t, expected, b, "address %#x", i)
	}
}

func Test_File_03(t *testing.T) {
	block, err := Open(filepath.Join(t.TempDir(), "test_block"), 0x0F)
	require.NoError(t, err)
	//
	defer block.Close()
	//
	_, err = block.Get(0x10)
	require.True(t, memory.IsKind(err, memory.TooBig))
	require.True(t, memory.IsKind(block.Set(0x10, 0), memory.TooBig))
	require.True(t, memory.IsKind(block.Delete(0, 0x10), memory.TooBig))
	//
	_, err = Open(filepath.Join(t.TempDir(), "huge"), MaxSize+1)
	require.True(t, memory.IsKind(err, memory.TooBig))
}

func Test_File_04(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "test_block")
	//
	block, err := Open(path, 0xFFFF)
	require.NoError(t, err)
	//
	defer block.Close()
	// Truncating the file will cause future read access to the
	// memory map to raise SIGBUS. Such page faults should be caught
	// and reported as hardware faults. Furthermore, the previous
	// value of the panic-on-fault option should be restored.
	require.NoError(t, os.Truncate(path, 0))
	//
	debug.SetPanicOnFault(false)
	//
	_, err = block.Get(0x8000)
	require.True(t, memory.IsKind(err, memory.HardwareFault))
	require.Contains(t, err.Error(), "page fault")
	require.False(t, debug.SetPanicOnFault(false))
}

func Test_File_05(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "test_block")
	// The length of the file records the size of the block, and survives
	// reopening.
	block, err := Open(path, 0x10)
	require.NoError(t, err)
	require.NoError(t, block.Set(0x10, 0x5A))
	require.NoError(t, block.Close())
	//
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(0x11), info.Size())
	// Reopening with a smaller size neither shortens the file, nor exposes
	// anything beyond the given size.
	block, err = Open(path, 0x08)
	require.NoError(t, err)
	//
	_, err = block.Get(0x10)
	require.True(t, memory.IsKind(err, memory.TooBig))
	require.NoError(t, block.Close())
	// Reopening with a larger size extends with zeros.
	block, err = Open(path, 0x1000)
	require.NoError(t, err)
	//
	defer block.Close()
	//
	b, err := block.Get(0x10)
	require.NoError(t, err)
	require.Equal(t, memory.Byte(0x5A), b)
	//
	b, err = block.Get(0x1000)
	require.NoError(t, err)
	require.Equal(t, memory.Byte(0), b)
	//
	info, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(0x1001), info.Size())
}

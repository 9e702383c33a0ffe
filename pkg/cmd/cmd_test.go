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
package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/consensys/go-memblock/pkg/memory/file"
	"github.com/consensys/go-memblock/pkg/memory/ram"
)

func Test_ParseAddr_00(t *testing.T) {
	checkParseAddr(t, "0", 0)
	checkParseAddr(t, "4096", 4096)
	checkParseAddr(t, "0x1000", 0x1000)
	checkParseAddr(t, "0xFFFF_FFFF", 0xFFFF_FFFF)
	checkParseAddr(t, "0xffffffffffffffff", memory.MaxAddr)
}

func Test_ParseAddr_01(t *testing.T) {
	for _, str := range []string{"", "-1", "0x", "abc", "0x10000000000000000"} {
		if _, err := ParseAddr(str); err == nil {
			t.Errorf("address \"%s\" should not parse", str)
		}
	}
}

func Test_ParseByte_00(t *testing.T) {
	if b, err := ParseByte("0xff"); err != nil || b != 0xFF {
		t.Errorf("unexpected result (%#x, %v)", b, err)
	} else if _, err := ParseByte("256"); err == nil {
		t.Errorf("byte 256 should not parse")
	}
}

func Test_Peek_00(t *testing.T) {
	var block = ram.New(0x0F)
	//
	for _, bits := range []uint{8, 16, 32, 64} {
		for _, order := range []memory.Endian{memory.BigEndian, memory.LittleEndian} {
			var value = uint64(0x0102030405060708) >> (64 - bits)
			//
			if err := poke(block, 0x04, value, bits, order); err != nil {
				t.Fatal(err)
			} else if v, err := peek(block, 0x04, bits, order); err != nil {
				t.Error(err)
			} else if v != value {
				t.Errorf("expected %#x (%d bits), got %#x", value, bits, v)
			}
		}
	}
}

func Test_Peek_01(t *testing.T) {
	var block = ram.New(0x0F)
	//
	if _, err := peek(block, 0, 24, memory.BigEndian); err == nil {
		t.Errorf("24 bit peek should fail")
	} else if err := poke(block, 0, 0, 12, memory.BigEndian); err == nil {
		t.Errorf("12 bit poke should fail")
	} else if _, err := peek(block, 0x02, 32, memory.BigEndian.Aligned()); !memory.IsKind(err, memory.UnalignedAccess) {
		t.Errorf("expected unaligned access, got %v", err)
	}
}

func Test_Dump_00(t *testing.T) {
	block := ram.FromBytes([]byte("Hello, World!\x00\x01\xff"))
	//
	checkDump(t, block, 0, block.Size(), 8,
		"00000000  48 65 6c 6c 6f 2c 20 57  |Hello, W|",
		"00000008  6f 72 6c 64 21 00 01 ff  |orld!...|")
}

func Test_Dump_01(t *testing.T) {
	block := ram.FromBytes([]byte("Hello, World!"))
	// Partial rows are padded, and endpoints can be given in either order
	checkDump(t, block, 0x0C, 0x02, 4,
		"00000002  6c 6c 6f 2c  |llo,|",
		"00000006  20 57 6f 72  | Wor|",
		"0000000a  6c 64 21     |ld!|")
}

func Test_Dump_02(t *testing.T) {
	var (
		block = ram.New(0x0F)
		out   strings.Builder
	)
	//
	if err := dump(&out, block, 0x08, 0x10, 16); !memory.IsKind(err, memory.NoData) {
		t.Errorf("expected no data error, got %v", err)
	}
}

func Test_FileSize_00(t *testing.T) {
	// A created file reopens with the size it was created with.
	for _, size := range []memory.Addr{0, 0x10, 0xFFF, 0x1000, 0x12345} {
		path := filepath.Join(t.TempDir(), "block")
		//
		block, err := file.Open(path, size)
		if err != nil {
			t.Fatal(err)
		} else if err := block.Close(); err != nil {
			t.Fatal(err)
		} else if n := fileSize(path); n != size {
			t.Errorf("created with size %#x, reopened as %#x", size, n)
		}
	}
}

func checkParseAddr(t *testing.T, str string, expected memory.Addr) {
	addr, err := ParseAddr(str)
	//
	if err != nil {
		t.Errorf("address \"%s\" failed to parse: %s", str, err)
	} else if addr != expected {
		t.Errorf("address \"%s\" parsed as %#x, expected %#x", str, addr, expected)
	}
}

func checkDump(t *testing.T, block memory.Block, from, to memory.Addr, width uint, lines ...string) {
	var out strings.Builder
	//
	if err := dump(&out, block, from, to, width); err != nil {
		t.Fatal(err)
	}
	//
	expected := strings.Join(lines, "\n") + "\n"
	//
	if out.String() != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, out.String())
	}
}

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
	"testing"

	"github.com/consensys/go-memblock/pkg/memory"
)

func Test_Vector_00(t *testing.T) {
	var mem = New(0xFF)
	//
	if err := mem.Set(0x00, 101); err != nil {
		t.Fatal(err)
	} else if err := memory.Flush(mem); err != nil {
		t.Fatal(err)
	} else if b, err := mem.Get(0x00); err != nil || b != 101 {
		t.Errorf("expected 101, got %d (%v)", b, err)
	}
}

func Test_Vector_01(t *testing.T) {
	var (
		mem = New(0xFF)
		sz  = mem.Size()
	)
	//
	if sz != 0xFF {
		t.Fatalf("expected size 0xff, got %#x", sz)
	}
	// Set stuff.
	for i := memory.Addr(0); i <= sz; i++ {
		if err := mem.Set(i, memory.Byte(i&0xFF)); err != nil {
			t.Fatal(err)
		}
	}
	//
	if err := memory.Flush(mem); err != nil {
		t.Fatal(err)
	}
	// Get stuff.
	checkContents(t, mem, func(i memory.Addr) memory.Byte { return memory.Byte(i & 0xFF) })
	// Delete stuff.
	if err := memory.Delete(mem, 0, sz); err != nil {
		t.Fatal(err)
	} else if err := memory.Flush(mem); err != nil {
		t.Fatal(err)
	}
	// Get stuff.
	checkContents(t, mem, func(memory.Addr) memory.Byte { return 0 })
}

func Test_Vector_02(t *testing.T) {
	var mem = New(0x0F)
	//
	if _, err := mem.Get(0x10); !memory.IsKind(err, memory.NoData) {
		t.Errorf("expected no data error, got %v", err)
	} else if err := mem.Set(0x10, 1); !memory.IsKind(err, memory.TooBig) {
		t.Errorf("expected too big error, got %v", err)
	} else if _, err := mem.Get(memory.MaxAddr); !memory.IsKind(err, memory.NoData) {
		t.Errorf("expected no data error, got %v", err)
	}
}

func Test_Vector_03(t *testing.T) {
	// Size zero still holds one cell
	var mem = New(0)
	//
	if err := mem.Set(0, 0xAA); err != nil {
		t.Fatal(err)
	} else if len(mem.Bytes()) != 1 || mem.Bytes()[0] != 0xAA {
		t.Errorf("unexpected contents %v", mem.Bytes())
	}
}

func Test_Vector_04(t *testing.T) {
	var (
		bytes = []byte("hello")
		mem   = FromBytes(bytes)
	)
	// Contents are copied
	bytes[0] = 'j'
	//
	if mem.Size() != 4 {
		t.Errorf("expected size 4, got %d", mem.Size())
	} else if string(mem.Bytes()) != "hello" {
		t.Errorf("unexpected contents %s", mem.Bytes())
	}
}

func Test_Constructor_00(t *testing.T) {
	var ctor memory.Constructor = Constructor
	//
	if block, err := ctor(0x3F); err != nil {
		t.Fatal(err)
	} else if block.Size() != 0x3F {
		t.Errorf("expected size 0x3f, got %#x", block.Size())
	} else if _, err := ctor(memory.MaxAddr); !memory.IsKind(err, memory.TooBig) {
		t.Errorf("expected too big error, got %v", err)
	}
}

func Test_Constructor_01(t *testing.T) {
	checkPanics(t, "New(MaxAddr)", func() { New(memory.MaxAddr) })
	checkPanics(t, "FromBytes(nil)", func() { FromBytes(nil) })
	// The largest block a constructor refuses is still refused cleanly
	if _, err := Constructor(memory.MaxAddr); !memory.IsKind(err, memory.TooBig) {
		t.Errorf("expected too big error, got %v", err)
	}
}

func checkPanics(t *testing.T, name string, fn func()) {
	defer func() {
		if recover() == nil {
			t.Errorf("%s should panic", name)
		}
	}()
	//
	fn()
}

func checkContents(t *testing.T, mem memory.Block, expected func(memory.Addr) memory.Byte) {
	for i := memory.Addr(0); i <= mem.Size(); i++ {
		b, err := mem.Get(i)
		//
		if err != nil {
			t.Fatal(err)
		} else if b != expected(i) {
			t.Errorf("expected %#x at %#x, got %#x", expected(i), i, b)
		}
	}
}

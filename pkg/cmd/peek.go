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
	"fmt"
	"os"
	"strconv"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/spf13/cobra"
)

var peekCmd = &cobra.Command{
	Use:   "peek [flags] target addr",
	Short: "read a value from a block.",
	Long: `Read a byte (or a 16, 32 or 64 bit word) from a given address of a
	block.  Words are big endian unless --le is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 2)
		configureLogging(cmd)
		//
		target := openTarget(cmd, args[0])
		defer func() { exitOnError(target.Close()) }()
		//
		value, err := peek(target.Block, parseAddrOrExit(args[1]), GetUint(cmd, "bits"), endian(cmd))
		exitOnError(err)
		//
		fmt.Printf("%#x\n", value)
	},
}

var pokeCmd = &cobra.Command{
	Use:   "poke [flags] target addr value...",
	Short: "write values to a block.",
	Long: `Write one or more bytes to consecutive addresses of a block, starting
	from a given address.  Alternatively, with --bits, write a single 16, 32 or
	64 bit word.  Words are big endian unless --le is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 3)
		configureLogging(cmd)
		//
		var (
			addr = parseAddrOrExit(args[1])
			bits = GetUint(cmd, "bits")
		)
		//
		target := openTarget(cmd, args[0])
		defer func() { exitOnError(target.Close()) }()
		//
		if bits == 8 {
			for i, arg := range args[2:] {
				b, err := ParseByte(arg)
				exitOnError(err)
				exitOnError(target.Set(addr+memory.Addr(i), b))
			}
		} else if len(args) != 3 {
			fmt.Println("only one word can be written at a time")
			os.Exit(2)
		} else {
			value, err := strconv.ParseUint(args[2], 0, int(bits))
			exitOnError(err)
			exitOnError(poke(target.Block, addr, value, bits, endian(cmd)))
		}
	},
}

// Read a value of a given bitwidth from a block.
func peek(block memory.Block, addr memory.Addr, bits uint, order memory.Endian) (uint64, error) {
	switch bits {
	case 8:
		b, err := block.Get(addr)
		return uint64(b), err
	case 16:
		v, err := order.Get16(block, addr)
		return uint64(v), err
	case 32:
		v, err := order.Get32(block, addr)
		return uint64(v), err
	case 64:
		return order.Get64(block, addr)
	default:
		return 0, fmt.Errorf("unsupported bitwidth %d", bits)
	}
}

// Write a value of a given bitwidth to a block.
func poke(block memory.Block, addr memory.Addr, value uint64, bits uint, order memory.Endian) error {
	switch bits {
	case 8:
		return block.Set(addr, memory.Byte(value))
	case 16:
		return order.Set16(block, addr, uint16(value))
	case 32:
		return order.Set32(block, addr, uint32(value))
	case 64:
		return order.Set64(block, addr, value)
	default:
		return fmt.Errorf("unsupported bitwidth %d", bits)
	}
}

// Determine the byte order (and alignment) requested by flags.
func endian(cmd *cobra.Command) memory.Endian {
	order := memory.BigEndian
	//
	if GetFlag(cmd, "le") {
		order = memory.LittleEndian
	}
	//
	if GetFlag(cmd, "aligned") {
		order = order.Aligned()
	}
	//
	return order
}

func init() {
	rootCmd.AddCommand(peekCmd)
	rootCmd.AddCommand(pokeCmd)
	//
	for _, c := range []*cobra.Command{peekCmd, pokeCmd} {
		c.Flags().Uint("bits", 8, "bitwidth of value (8, 16, 32 or 64)")
		c.Flags().Bool("le", false, "use little endian byte order")
		c.Flags().Bool("aligned", false, "require words to be naturally aligned")
	}
}

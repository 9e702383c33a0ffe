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
	"io"
	"os"
	"strings"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Bytes per row when the output is not a terminal.
const defaultDumpWidth = 16

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] target [from [to]]",
	Short: "print the contents of a block in hexadecimal.",
	Long: `Print the contents of a block (or part of it) in hexadecimal,
	alongside their printable characters.  When printing to a terminal, the
	number of bytes per row is chosen to fit the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 1)
		configureLogging(cmd)
		//
		target := openTarget(cmd, args[0])
		defer func() { exitOnError(target.Close()) }()
		//
		var (
			from  memory.Addr
			to    = target.Size()
			width = GetUint(cmd, "width")
		)
		//
		if len(args) > 1 {
			from = parseAddrOrExit(args[1])
		}
		//
		if len(args) > 2 {
			to = parseAddrOrExit(args[2])
		}
		//
		if width == 0 {
			width = dumpWidth()
		}
		//
		exitOnError(dump(os.Stdout, target.Block, from, to, width))
	},
}

// Write the inclusive range [from,to] of a block, with a given number of bytes
// per row.
func dump(out io.Writer, block memory.Block, from, to memory.Addr, width uint) error {
	var (
		row   strings.Builder
		ascii strings.Builder
	)
	//
	if from > to {
		from, to = to, from
	}
	//
	for addr := from; ; addr++ {
		if (addr-from)%memory.Addr(width) == 0 {
			row.Reset()
			ascii.Reset()
			fmt.Fprintf(&row, "%08x ", addr)
		}
		//
		b, err := block.Get(addr)
		if err != nil {
			return err
		}
		//
		fmt.Fprintf(&row, " %02x", b)
		//
		if b >= 0x20 && b < 0x7f {
			ascii.WriteByte(b)
		} else {
			ascii.WriteByte('.')
		}
		//
		if addr == to || (addr-from+1)%memory.Addr(width) == 0 {
			padding := int(width) - ascii.Len()
			fmt.Fprintf(out, "%s%s  |%s|\n", row.String(), strings.Repeat("   ", padding), ascii.String())
		}
		//
		if addr == to {
			return nil
		}
	}
}

// Determine how many bytes fit on a row of the terminal.  Each byte takes four
// characters (three for hex, one for ascii), after allowing for the address
// and separators.
func dumpWidth() uint {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return defaultDumpWidth
	}
	//
	cols, _, err := term.GetSize(fd)
	if err != nil || cols < 48 {
		return defaultDumpWidth
	}
	// Round down to a multiple of 8
	return uint((cols-13)/4) &^ 7
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Uint("width", 0, "bytes per row (default: fit terminal)")
}

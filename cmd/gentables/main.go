// Command gentables prints the leaper attack tables as Go source, for
// embedding them where computing them at init is not wanted.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"os"

	"github.com/hailam/chesscore/internal/board"
)

var (
	pkgName = flag.String("pkg", "tables", "package clause of the generated file")
	outPath = flag.String("o", "", "output file (default stdout)")
)

func main() {
	flag.Parse()

	src, err := generate(*pkgName)
	if err != nil {
		log.Fatal(err)
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(src); err != nil {
		log.Fatal(err)
	}
}

func generate(pkg string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by gentables. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	writeTable(&buf, "KnightAttacks", board.LeaperTable(board.KnightOffsets[:]))
	writeTable(&buf, "KingAttacks", board.LeaperTable(board.KingOffsets[:]))

	var white, black [64]board.Bitboard
	for sq := board.A1; sq <= board.H8; sq++ {
		white[sq] = board.PawnAttacks(sq, board.White)
		black[sq] = board.PawnAttacks(sq, board.Black)
	}
	writeTable(&buf, "WhitePawnAttacks", white)
	writeTable(&buf, "BlackPawnAttacks", black)

	return format.Source(buf.Bytes())
}

func writeTable(w io.Writer, name string, table [64]board.Bitboard) {
	fmt.Fprintf(w, "// %s is indexed by square, A1 = 0.\n", name)
	fmt.Fprintf(w, "var %s = [64]uint64{\n", name)
	for sq, bb := range table {
		fmt.Fprintf(w, "0x%016x, // %v\n", bb.Uint64(), board.Square(sq))
	}
	fmt.Fprintf(w, "}\n\n")
}

// Package render draws board diagrams as SVG and PNG.
package render

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// SquareSize is the side of one square in SVG user units.
const SquareSize = 45

// BoardSize is the side of the whole diagram in SVG user units.
const BoardSize = 8 * SquareSize

// Board colours
const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	whiteFill   = "#ffffff"
	blackFill   = "#222222"
	outline     = "#000000"
)

type point struct{ x, y float64 }

type circle struct {
	point
	r float64
}

// glyph is a piece silhouette in unit coordinates, (0,0) being the top-left
// corner of its square.
type glyph struct {
	polygons [][]point
	circles  []circle
}

var glyphs = [board.NumPieceTypes]glyph{
	board.Pawn: {
		polygons: [][]point{{{0.32, 0.85}, {0.68, 0.85}, {0.6, 0.55}, {0.4, 0.55}}},
		circles:  []circle{{point{0.5, 0.4}, 0.12}},
	},
	board.Knight: {
		polygons: [][]point{{
			{0.28, 0.85}, {0.75, 0.85}, {0.72, 0.5}, {0.62, 0.22}, {0.5, 0.15}, {0.45, 0.22},
			{0.3, 0.4}, {0.26, 0.5}, {0.34, 0.55}, {0.48, 0.45}, {0.36, 0.7},
		}},
	},
	board.Bishop: {
		polygons: [][]point{{
			{0.5, 0.22}, {0.64, 0.42}, {0.58, 0.62}, {0.68, 0.78}, {0.7, 0.85},
			{0.3, 0.85}, {0.32, 0.78}, {0.42, 0.62}, {0.36, 0.42},
		}},
		circles: []circle{{point{0.5, 0.16}, 0.05}},
	},
	board.Rook: {
		polygons: [][]point{{
			{0.25, 0.85}, {0.75, 0.85}, {0.75, 0.78}, {0.68, 0.78}, {0.65, 0.38}, {0.72, 0.38},
			{0.72, 0.2}, {0.63, 0.2}, {0.63, 0.28}, {0.55, 0.28}, {0.55, 0.2}, {0.45, 0.2},
			{0.45, 0.28}, {0.37, 0.28}, {0.37, 0.2}, {0.28, 0.2}, {0.28, 0.38}, {0.35, 0.38},
			{0.32, 0.78}, {0.25, 0.78},
		}},
	},
	board.Queen: {
		polygons: [][]point{{
			{0.25, 0.85}, {0.75, 0.85}, {0.72, 0.72}, {0.82, 0.3}, {0.65, 0.55}, {0.6, 0.22},
			{0.5, 0.5}, {0.4, 0.22}, {0.35, 0.55}, {0.18, 0.3}, {0.28, 0.72},
		}},
		circles: []circle{
			{point{0.18, 0.27}, 0.04}, {point{0.4, 0.19}, 0.04}, {point{0.6, 0.19}, 0.04}, {point{0.82, 0.27}, 0.04},
		},
	},
	board.King: {
		polygons: [][]point{
			{{0.27, 0.85}, {0.73, 0.85}, {0.75, 0.55}, {0.62, 0.42}, {0.38, 0.42}, {0.25, 0.55}},
			{
				{0.46, 0.1}, {0.54, 0.1}, {0.54, 0.18}, {0.62, 0.18}, {0.62, 0.25}, {0.54, 0.25},
				{0.54, 0.42}, {0.46, 0.42}, {0.46, 0.25}, {0.38, 0.25}, {0.38, 0.18}, {0.46, 0.18},
			},
		},
	},
}

// squareOrigin returns the top-left corner of sq with White at the bottom.
func squareOrigin(sq board.Square) (x, y float64) {
	return float64(sq.File()) * SquareSize, float64(7-int(sq.Rank())) * SquareSize
}

// SVG returns a diagram of b with White at the bottom.
func SVG(b *board.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		BoardSize, BoardSize, BoardSize, BoardSize)

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := squareOrigin(sq)
		fill := lightSquare
		if (int(sq.Rank())+int(sq.File()))%2 == 0 {
			fill = darkSquare
		}
		fmt.Fprintf(&sb, `<rect x="%g" y="%g" width="%d" height="%d" fill="%s"/>`+"\n", x, y, SquareSize, SquareSize, fill)
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		if p := b.PieceAt(sq); p != board.NoPiece {
			writePiece(&sb, p, sq)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePiece(sb *strings.Builder, p board.Piece, sq board.Square) {
	x0, y0 := squareOrigin(sq)
	fill := whiteFill
	if p.Color() == board.Black {
		fill = blackFill
	}
	g := glyphs[p.Type()]

	for _, poly := range g.polygons {
		pts := make([]string, len(poly))
		for i, pt := range poly {
			pts[i] = fmt.Sprintf("%g,%g", x0+pt.x*SquareSize, y0+pt.y*SquareSize)
		}
		fmt.Fprintf(sb, `<polygon points="%s" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			strings.Join(pts, " "), fill, outline)
	}
	for _, c := range g.circles {
		fmt.Fprintf(sb, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			x0+c.x*SquareSize, y0+c.y*SquareSize, c.r*SquareSize, fill, outline)
	}
}

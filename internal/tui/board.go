package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"negachess/internal/chess"
)

var (
	lightSquare = lipgloss.NewStyle().Background(lipgloss.Color("180")).Foreground(lipgloss.Color("0"))
	darkSquare  = lipgloss.NewStyle().Background(lipgloss.Color("94")).Foreground(lipgloss.Color("0"))
	whitePiece  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	blackPiece  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16"))
	lastSquare  = lipgloss.NewStyle().Background(lipgloss.Color("143")).Foreground(lipgloss.Color("0"))
	coordStyle  = lipgloss.NewStyle().Faint(true)
)

// renderBoard 白方在下；上一步的起止格高亮
func renderBoard(pos *chess.Position) string {
	from, to := chess.NoSquare, chess.NoSquare
	if mv, ok := pos.LastMove(); ok {
		from, to = mv.From, mv.To
	}

	var sb strings.Builder
	for r := 0; r < chess.Rows; r++ {
		sb.WriteString(coordStyle.Render(string(rune('8'-r)) + " "))
		for c := 0; c < chess.Cols; c++ {
			sq := chess.SquareAt(r, c)
			style := lightSquare
			if (r+c)%2 == 1 {
				style = darkSquare
			}
			if sq == from || sq == to {
				style = lastSquare
			}

			p := pos.Board.At(sq)
			var cell string
			if !p.IsEmpty() {
				pieceStyle := blackPiece
				if p.Color() == chess.White {
					pieceStyle = whitePiece
				}
				cell = pieceStyle.Inherit(style).Render(p.String())
				cell = style.Render(" ") + cell + style.Render(" ")
			} else {
				cell = style.Render("   ")
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(coordStyle.Render("   a  b  c  d  e  f  g  h"))
	return sb.String()
}

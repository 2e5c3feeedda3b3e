package main

import (
	"strings"

	"liveiron/internal/grid"
	"liveiron/internal/sims/ant"
	"liveiron/internal/sims/life"
)

func renderLife(snap *grid.Snapshot[life.State]) string {
	var b strings.Builder
	for _, row := range snap.Rows() {
		for _, state := range row {
			if state == life.Alive {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderAnt(snap *grid.Snapshot[ant.State]) string {
	glyphs := map[ant.Heading]byte{
		ant.Up:    '^',
		ant.Right: '>',
		ant.Down:  'v',
		ant.Left:  '<',
	}
	var b strings.Builder
	for _, row := range snap.Rows() {
		for _, state := range row {
			switch {
			case state.Ant != ant.NoAnt:
				b.WriteByte(glyphs[state.Ant])
			case state.Colour == ant.Black:
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

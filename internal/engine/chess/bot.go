package chess

import "math/rand"

// SelectMove picks a randomized legal move for side: pieces are visited in a
// shuffled order and the first piece with at least one legal destination
// moves to a uniformly random destination among its own legal ones. The rand
// source is injected so callers can seed it deterministically.
//
// ok is false only when no piece of that side has any legal destination. The
// rule set has no stalemate concept, so the caller decides what a silent bot
// means (the game simply continues in bot mode).
func SelectMove(b *Board, side Side, rng *rand.Rand) (from, to Square, ok bool) {
	var pieces []Square
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b[row][col]; p != nil && p.Side == side {
				pieces = append(pieces, Square{Row: row, Col: col})
			}
		}
	}
	rng.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})

	for _, src := range pieces {
		var dests []Square
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				dst := Square{Row: row, Col: col}
				if b.IsLegal(src, dst) {
					dests = append(dests, dst)
				}
			}
		}
		if len(dests) > 0 {
			return src, dests[rng.Intn(len(dests))], true
		}
	}
	return Square{}, Square{}, false
}

package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][8][8]uint64 // [Color][Kind][Row][Col]
	zobristCastling   [4]uint64          // K, Q, k, q
	zobristSideToMove uint64             // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

// xorshift64* algorithm
func (r *prng) next() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234} // Fixed seed

	for c := range zobristPiece {
		for k := range zobristPiece[c] {
			for row := 0; row < 8; row++ {
				for col := 0; col < 8; col++ {
					zobristPiece[c][k][row][col] = rng.next()
				}
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns a Zobrist key over piece placement, castling rights and
// side to move. Positions with equal hashes are treated as repetitions.
func (p *Position) Hash(side Color) uint64 {
	var h uint64
	for _, pc := range p.all {
		h ^= zobristPiece[pc.Color][pc.Kind][pc.Row][pc.Col]
	}
	for _, ch := range p.castlingRights() {
		switch ch {
		case 'K':
			h ^= zobristCastling[0]
		case 'Q':
			h ^= zobristCastling[1]
		case 'k':
			h ^= zobristCastling[2]
		case 'q':
			h ^= zobristCastling[3]
		}
	}
	if side == Black {
		h ^= zobristSideToMove
	}
	return h
}

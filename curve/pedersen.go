package curve

import "math/big"

// Commit draws fresh randomness r and returns C = vG + rH together with r.
func (g *Group) Commit(value *big.Int) (Point, *big.Int, error) {
	r, err := g.RandomScalar()
	if err != nil {
		return Point{}, nil, err
	}
	c, err := g.CommitWith(value, r)
	if err != nil {
		return Point{}, nil, err
	}
	return c, r, nil
}

// CommitWith returns C = vG + rH for caller-supplied randomness.
func (g *Group) CommitWith(value, randomness *big.Int) (Point, error) {
	vG := g.ScalarBaseMult(value)
	rH, err := g.ScalarMult(g.H, randomness)
	if err != nil {
		return Point{}, err
	}
	return g.Add(vG, rH)
}

// OpenCommit reports whether value and randomness open commitment.
func (g *Group) OpenCommit(value, randomness *big.Int, commitment Point) bool {
	c, err := g.CommitWith(value, randomness)
	return err == nil && c.Equal(commitment)
}

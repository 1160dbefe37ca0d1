package models

// Instrument identifies a single tradable product, e.g. "BTC-USD".
type Instrument string

func (i Instrument) String() string {
	return string(i)
}

// Side is the direction of an open position.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Opposite returns the reversing side.
func (s Side) Opposite() Side {
	if s == SideLong {
		return SideShort
	}

	return SideLong
}

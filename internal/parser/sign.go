package parser

import (
	"fmt"
	"strings"
)

// SignPolicy decides what a minus sign in front of a hex literal means.
// Decompiled scripts print some bitfields with a leading minus; which
// reading is correct is not settled, so callers pick one.
type SignPolicy int

const (
	// SignMagnitude drops the sign and keeps the magnitude.
	SignMagnitude SignPolicy = iota
	// SignComplement inverts the magnitude within 32 bits.
	SignComplement
	// SignTwos negates the magnitude in 32-bit two's complement.
	SignTwos
)

var signPolicyNames = map[SignPolicy]string{
	SignMagnitude:  "magnitude",
	SignComplement: "complement",
	SignTwos:       "twos",
}

func (p SignPolicy) String() string {
	if name, ok := signPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SignPolicy(%d)", int(p))
}

func (p SignPolicy) apply(magnitude uint32) uint32 {
	switch p {
	case SignComplement:
		return ^magnitude
	case SignTwos:
		return -magnitude
	default:
		return magnitude
	}
}

// ParseSignPolicy maps a flag value to a policy. The empty string selects
// SignMagnitude.
func ParseSignPolicy(name string) (SignPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "magnitude", "abs":
		return SignMagnitude, nil
	case "complement", "invert":
		return SignComplement, nil
	case "twos", "twos-complement":
		return SignTwos, nil
	default:
		return SignMagnitude, fmt.Errorf("unknown sign policy %q (want magnitude, complement or twos)", name)
	}
}

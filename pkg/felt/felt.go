// Package felt implements the prime-field element used throughout the
// Cairo VM's memory. Arithmetic is performed modulo the Stark prime
// 2^251 + 17*2^192 + 1 via gnark-crypto's stark-curve field
// implementation.
package felt

import (
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/pkg/errors"
)

// ErrValueOutOfRange is returned when a Felt's representative does not fit
// in the target machine word.
var ErrValueOutOfRange = errors.New("felt: representative exceeds word range")

// Felt is a 252-bit prime-field element.
type Felt struct {
	inner fp.Element
}

// FromUint64 builds a Felt from an unsigned machine integer, reduced mod P.
func FromUint64(value uint64) Felt {
	var e fp.Element
	e.SetUint64(value)
	return Felt{inner: e}
}

// FromInt64 builds a Felt from a signed machine integer, reduced mod P.
func FromInt64(value int64) Felt {
	var e fp.Element
	e.SetInt64(value)
	return Felt{inner: e}
}

// FromHex parses a hexadecimal string (with or without "0x" prefix).
func FromHex(value string) Felt {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	n, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return Zero()
	}
	var e fp.Element
	e.SetBigInt(n)
	return Felt{inner: e}
}

// FromDecString parses a decimal string, including a leading "-" for
// negative values, which are reduced into [0, P).
func FromDecString(value string) Felt {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return Zero()
	}
	var e fp.Element
	e.SetBigInt(n)
	return Felt{inner: e}
}

// Zero returns the additive identity.
func Zero() Felt {
	var e fp.Element
	e.SetZero()
	return Felt{inner: e}
}

// One returns the multiplicative identity.
func One() Felt {
	var e fp.Element
	e.SetOne()
	return Felt{inner: e}
}

// IsZero reports whether f is the additive identity.
func (f Felt) IsZero() bool {
	return f.inner.IsZero()
}

// IsOne reports whether f is the multiplicative identity.
func (f Felt) IsOne() bool {
	one := One()
	return f.inner.Equal(&one.inner)
}

// Equal reports structural equality between two field elements.
func (f Felt) Equal(other Felt) bool {
	return f.inner.Equal(&other.inner)
}

// Add returns f + other, mod P.
func (f Felt) Add(other Felt) Felt {
	var r fp.Element
	r.Add(&f.inner, &other.inner)
	return Felt{inner: r}
}

// Sub returns f - other, mod P.
func (f Felt) Sub(other Felt) Felt {
	var r fp.Element
	r.Sub(&f.inner, &other.inner)
	return Felt{inner: r}
}

// Neg returns -f, mod P.
func (f Felt) Neg() Felt {
	var r fp.Element
	r.Neg(&f.inner)
	return Felt{inner: r}
}

// Mul returns f * other, mod P.
func (f Felt) Mul(other Felt) Felt {
	var r fp.Element
	r.Mul(&f.inner, &other.inner)
	return Felt{inner: r}
}

// Div returns f / other, mod P. Behavior is undefined if other is zero.
func (f Felt) Div(other Felt) Felt {
	var r fp.Element
	r.Div(&f.inner, &other.inner)
	return Felt{inner: r}
}

// ToU64 converts f to a uint64, failing if the representative doesn't fit.
func (f Felt) ToU64() (uint64, error) {
	var n big.Int
	f.inner.BigInt(&n)
	if !n.IsUint64() {
		return 0, ErrValueOutOfRange
	}
	return n.Uint64(), nil
}

// ToUsize converts f to a usize-equivalent machine word, failing when
// the representative exceeds word range.
func (f Felt) ToUsize() (uint, error) {
	v, err := f.ToU64()
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// BigInt returns f's canonical representative in [0, P) as a big.Int.
func (f Felt) BigInt() *big.Int {
	var n big.Int
	f.inner.BigInt(&n)
	return &n
}

// ToBeBytes returns the big-endian 32-byte representation of f.
func (f Felt) ToBeBytes() *[32]byte {
	b := f.inner.Bytes()
	return &b
}

// ToLeBytes returns the little-endian 32-byte representation of f.
func (f Felt) ToLeBytes() *[32]byte {
	be := f.inner.Bytes()
	var le [32]byte
	for i, b := range be {
		le[31-i] = b
	}
	return &le
}

// FromBeBytes builds a Felt from its big-endian 32-byte representation.
func FromBeBytes(bytes *[32]byte) Felt {
	var e fp.Element
	e.SetBytes(bytes[:])
	return Felt{inner: e}
}

// FromLeBytes builds a Felt from its little-endian 32-byte representation.
func FromLeBytes(bytes *[32]byte) Felt {
	var be [32]byte
	for i, b := range bytes {
		be[31-i] = b
	}
	var e fp.Element
	e.SetBytes(be[:])
	return Felt{inner: e}
}

// String renders the decimal representation of f.
func (f Felt) String() string {
	return f.inner.String()
}

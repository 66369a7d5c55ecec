// Package codec converts embedding vectors to the opaque bytes stored in
// embedding slots.
//
// Dense vectors are packed little-endian float32 values. Sparse vectors
// are a little-endian uint32 count followed by that many
// (uint32 index, float32 value) pairs with strictly increasing indices.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

const (
	float32Size = 4
	pairSize    = 8
	headerSize  = 4
)

// Codec implements driven.VectorCodec.
type Codec struct{}

var _ driven.VectorCodec = Codec{}

// New returns a codec.
func New() Codec {
	return Codec{}
}

// EncodeDense packs v as little-endian float32 values.
func (Codec) EncodeDense(v []float32) []byte {
	buf := make([]byte, len(v)*float32Size)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*float32Size:], math.Float32bits(f))
	}
	return buf
}

// DecodeDense unpacks little-endian float32 values.
func (Codec) DecodeDense(b []byte) ([]float32, error) {
	if len(b)%float32Size != 0 {
		return nil, goerr.Wrap(domain.ErrInvalidInput, "dense embedding length is not a multiple of 4",
			goerr.V("length", len(b)))
	}
	v := make([]float32, len(b)/float32Size)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*float32Size:]))
	}
	return v, nil
}

// EncodeSparse writes the count followed by (index, value) pairs.
func (Codec) EncodeSparse(v domain.SparseVector) ([]byte, error) {
	if err := checkSparse(v); err != nil {
		return nil, err
	}
	buf := make([]byte, headerSize+len(v.Indices)*pairSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(v.Indices))) //nolint:gosec // length checked by checkSparse
	for i, idx := range v.Indices {
		off := headerSize + i*pairSize
		binary.LittleEndian.PutUint32(buf[off:], idx)
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Values[i]))
	}
	return buf, nil
}

// DecodeSparse reads a sparse vector written by EncodeSparse.
func (Codec) DecodeSparse(b []byte) (domain.SparseVector, error) {
	if len(b) < headerSize {
		return domain.SparseVector{}, goerr.Wrap(domain.ErrInvalidInput, "sparse embedding too short",
			goerr.V("length", len(b)))
	}
	n := int(binary.LittleEndian.Uint32(b))
	if len(b) != headerSize+n*pairSize {
		return domain.SparseVector{}, goerr.Wrap(domain.ErrInvalidInput, "sparse embedding length mismatch",
			goerr.V("count", n), goerr.V("length", len(b)))
	}
	v := domain.SparseVector{
		Indices: make([]uint32, n),
		Values:  make([]float32, n),
	}
	for i := 0; i < n; i++ {
		off := headerSize + i*pairSize
		v.Indices[i] = binary.LittleEndian.Uint32(b[off:])
		v.Values[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:]))
	}
	if err := checkSparse(v); err != nil {
		return domain.SparseVector{}, err
	}
	return v, nil
}

func checkSparse(v domain.SparseVector) error {
	if len(v.Indices) != len(v.Values) {
		return goerr.Wrap(domain.ErrInvalidInput, "sparse indices and values differ in length",
			goerr.V("indices", len(v.Indices)), goerr.V("values", len(v.Values)))
	}
	if uint64(len(v.Indices)) > math.MaxUint32 {
		return goerr.Wrap(domain.ErrInvalidInput, "sparse vector too long")
	}
	for i := 1; i < len(v.Indices); i++ {
		if v.Indices[i] <= v.Indices[i-1] {
			return goerr.Wrap(domain.ErrInvalidInput, "sparse indices must be strictly increasing",
				goerr.V("position", i))
		}
	}
	return nil
}

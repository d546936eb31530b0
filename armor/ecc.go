package armor

import (
	"math/rand"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"

	"github.com/yyyoichi/stego_lsb/internal/bitconv"
)

var _ scheme = (*shuffledgolay)(nil)

type shuffledgolay int64

func (sg shuffledgolay) protect(frame []byte) []byte {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range frame {
		w.Write8(0, 8, v)
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	_ = enc.Encode(w.Data(), w.Bits())
	encodedLen := enc.Bits()

	// shuffle
	index := sg.generatePermutation(encodedLen)
	r := bitstream.NewBitReader(encoded, 0, 0)
	bits := make([]bool, encodedLen)
	for i := range encodedLen {
		bits[i], _ = r.ReadBitAt(index[i])
	}
	// encodedLen is a multiple of 24, so the bits pack into whole bytes
	return bitconv.BoolsToBytes(bits)
}

func (sg shuffledgolay) recover(raw []byte) []byte {
	bits := bitconv.BytesToBools(raw)
	// reverse shuffle: create same permutation then apply inverse
	index := sg.generatePermutation(len(bits))
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i := range bits {
		w.WriteBitAt(index[i], bits[i])
	}

	var frame []byte
	_ = golay.DecodeBinay(w.Data(), &frame)
	return frame
}

func (sg shuffledgolay) generatePermutation(length int) []int {
	index := make([]int, length)
	for i := range index {
		index[i] = i
	}
	seed := int64(sg)
	rd := rand.New(rand.NewSource(seed))
	rd.Shuffle(length, func(i, j int) {
		index[i], index[j] = index[j], index[i]
	})
	return index
}

var _ scheme = (*withoutecc)(nil)

type withoutecc struct{}

func (we withoutecc) protect(frame []byte) []byte {
	return frame
}

func (we withoutecc) recover(raw []byte) []byte {
	return raw
}

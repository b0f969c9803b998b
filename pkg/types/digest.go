package types

import (
	"encoding/binary"
	"sort"

	"github.com/spaolacci/murmur3"
)

// Digest returns a 64-bit murmur3 hash of the fingerprint's canonical form.
// Columns are hashed in sorted-name order so the digest is independent of
// column order, matching Equal. Two fingerprints with the same digest are
// still deep-compared before a change is ruled out.
func (f Fingerprint) Digest() uint64 {
	h := murmur3.New64()

	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeStr := func(s string) {
		writeInt(len(s))
		h.Write([]byte(s))
	}

	writeInt(f.Shape.Rows)
	writeInt(f.Shape.Cols)

	names := append([]string(nil), f.Columns.Names()...)
	sort.Strings(names)
	for _, name := range names {
		stat, _ := f.Columns.Get(name)
		writeStr(name)
		writeStr(stat.DType)
		writeInt(stat.NullCount)
		writeInt(stat.TotalCount)
	}

	return h.Sum64()
}

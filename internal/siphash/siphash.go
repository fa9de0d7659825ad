// Package siphash implements SipHash-1-3 (one compression round, three
// finalization rounds) over a byte stream. It exists only to reproduce the
// framebuffer-hash regression scenarios in spec.md section 8 (the Super
// Mario Bros. / Mega Man II replay hashes); no library in the retrieval
// pack offers SipHash, so this is implemented directly against the
// published algorithm rather than pulled in as a third-party dependency.
package siphash

const (
	initV0 = 0x736f6d6570736575
	initV1 = 0x646f72616e646f6d
	initV2 = 0x6c7967656e657261
	initV3 = 0x7465646279746573
)

func rotl(x uint64, b uint) uint64 { return (x << b) | (x >> (64 - b)) }

// Sum64 computes SipHash-1-3 of data using the given 128-bit key (k0, k1).
func Sum64(k0, k1 uint64, data []byte) uint64 {
	v0 := initV0 ^ k0
	v1 := initV1 ^ k1
	v2 := initV2 ^ k0
	v3 := initV3 ^ k1

	round := func() {
		v0 += v1
		v1 = rotl(v1, 13)
		v1 ^= v0
		v0 = rotl(v0, 32)
		v2 += v3
		v3 = rotl(v3, 16)
		v3 ^= v2
		v0 += v3
		v3 = rotl(v3, 21)
		v3 ^= v0
		v2 += v1
		v1 = rotl(v1, 17)
		v1 ^= v2
		v2 = rotl(v2, 32)
	}

	n := len(data)
	end := n - n%8
	var i int
	for i = 0; i < end; i += 8 {
		m := leUint64(data[i : i+8])
		v3 ^= m
		round() // c=1 compression round
		v0 ^= m
	}

	var last uint64 = uint64(n) << 56
	tail := data[end:]
	for j := 0; j < len(tail); j++ {
		last |= uint64(tail[j]) << (8 * uint(j))
	}

	v3 ^= last
	round()
	v0 ^= last

	v2 ^= 0xff
	round() // d=3 finalization rounds
	round()
	round()

	return v0 ^ v1 ^ v2 ^ v3
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// FrameBuffer hashes a palette-index framebuffer with the fixed zero key,
// matching the golden hashes recorded in spec.md section 8 (scenarios 5-6).
func FrameBuffer(fb *[256 * 240]uint8) uint64 {
	return Sum64(0, 0, fb[:])
}

package sourcemap

var base64Digits = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

var base64Values = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i, c := range base64Digits {
		t[c] = int8(i)
	}
	return t
}()

// WriteVLQ appends the Base64 VLQ encoding of val to b. The lowest bit of the first digit is the sign, the sixth bit of every digit marks continuation.
func WriteVLQ(b []byte, val int32) []byte {
	var vlq uint32
	if val < 0 {
		vlq = uint32(-int64(val))<<1 | 1
	} else {
		vlq = uint32(val) << 1
	}
	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		b = append(b, base64Digits[digit])
		if vlq == 0 {
			return b
		}
	}
}

// ReadVLQ decodes a Base64 VLQ value starting at b[i], it returns the value and the index after it.
func ReadVLQ(b []byte, i int) (int32, int, bool) {
	shift := uint(0)
	vlq := uint32(0)
	for {
		if len(b) <= i || 32 <= shift {
			return 0, i, false
		}
		digit := base64Values[b[i]]
		if digit < 0 {
			return 0, i, false
		}
		i++
		vlq |= uint32(digit&31) << shift
		shift += 5
		if digit&32 == 0 {
			break
		}
	}
	val := int32(vlq >> 1)
	if vlq&1 != 0 {
		val = -val
	}
	return val, i, true
}

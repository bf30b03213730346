package utils

import (
	"crypto/rand"
	"math/big"
)

const shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ShortCodeLength is the length of order and voucher codes.
const ShortCodeLength = 5

// GenerateShortCode returns n characters drawn uniformly from A-Z0-9.
func GenerateShortCode(n int) string {
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = shortCodeAlphabet[idx.Int64()]
	}
	return string(buf)
}

// GenerateOrderCode is the human-readable order identifier.
func GenerateOrderCode() string {
	return GenerateShortCode(ShortCodeLength)
}

// GenerateVoucherCodes returns n distinct voucher codes.
func GenerateVoucherCodes(n int) []string {
	seen := make(map[string]struct{}, n)
	codes := make([]string, 0, n)
	for len(codes) < n {
		code := GenerateShortCode(ShortCodeLength)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

package authentication

import (
	"crypto/rand"
	"math/big"
)

// GenerateOTP returns a numeric one-time code of the given length.
func GenerateOTP(length int) string {
	const digits = "0123456789"
	otp := make([]byte, length)
	for i := range otp {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand failing means the process has bigger problems
			panic(err)
		}
		otp[i] = digits[n.Int64()]
	}
	return string(otp)
}

// ValidateOTP compares the stored code against the submitted one.
func ValidateOTP(stored, submitted string) bool {
	return stored != "" && stored == submitted
}

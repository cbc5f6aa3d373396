package util

import (
	"math/rand"
	"time"
)

// Panics if there is an error, otherwise returns the result
func Try[T any](result T, err error) T {
	CheckErr(err)
	return result
}

// Panics if error is not null
func CheckErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Returns the current unix time in seconds
func EpochSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(1e9)
}

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Returns a random alphanumeric string with 'length' bytes
func RandomString(length int) string {
	var s = make([]byte, length)
	for i := range s {
		s[i] = alphanumerics[rand.Intn(len(alphanumerics))]
	}
	return string(s)
}

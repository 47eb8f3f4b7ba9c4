package sunit

import (
	"github.com/stretchr/testify/assert"
)

// Pass returns ErrPass. Returning it from a test body ends the test as passed.
func Pass() error {
	return ErrPass
}

// Fail returns an assertion error with the message "Fail".
func Fail() error {
	return assertf("Fail")
}

// Failf returns an assertion error with a formatted message.
func Failf(format string, args ...any) error {
	return assertf(format, args...)
}

// AreEqual fails unless a and b are equal by value.
func AreEqual(a, b any) error {
	if !Equal(a, b) {
		return assertf("%v does not equal %v", a, b)
	}
	return nil
}

// AreNotEqual fails when a and b are equal by value.
func AreNotEqual(a, b any) error {
	if Equal(a, b) {
		return assertf("%v is equal to %v", a, b)
	}
	return nil
}

// True fails unless a is true.
func True(a bool) error {
	if !a {
		return assertf("%v is not true", a)
	}
	return nil
}

// False fails unless a is false.
func False(a bool) error {
	if a {
		return assertf("%v is not false", a)
	}
	return nil
}

// NoError fails when err is not nil.
func NoError(err error) error {
	if err != nil {
		return assertf("unexpected error: %v", err)
	}
	return nil
}

// Equal reports whether expected and actual are equal by value. Types must
// match: int(5) and int64(5) are different values.
func Equal(expected, actual any) bool {
	return assert.ObjectsAreEqual(expected, actual)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type phoneFixture struct {
	Phone string `validate:"bdphone"`
}

func TestBDPhoneValidation(t *testing.T) {
	valid := []string{
		"+8801712345678",
		"8801712345678",
		"01712345678",
		"01912345678",
		"017-1234-5678",
		"017 1234 5678",
		"+880 17 1234 5678",
		"(017) 1234.5678",
		"02955512345", // Dhaka landline
	}
	for _, phone := range valid {
		assert.NoError(t, Validate.Struct(phoneFixture{Phone: phone}), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"abc",
		"+8801712",         // too short for the mobile prefix
		"1234567",          // below the bare minimum length
		"1234567890123456", // above the bare maximum length
		"+++8801712345678",
	}
	for _, phone := range invalid {
		assert.Error(t, Validate.Struct(phoneFixture{Phone: phone}), "expected %q to be invalid", phone)
	}
}

type slugFixture struct {
	Slug string `validate:"slug"`
}

func TestSlugValidation(t *testing.T) {
	for _, slug := range []string{"kings-arena", "turf-7", "a"} {
		assert.NoError(t, Validate.Struct(slugFixture{Slug: slug}), "expected %q to be valid", slug)
	}
	for _, slug := range []string{"", "Kings-Arena", "kings arena", "kings_arena", "café"} {
		assert.Error(t, Validate.Struct(slugFixture{Slug: slug}), "expected %q to be invalid", slug)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+8801712345678", normalizePhone(" +880 17-1234-5678 "))
	assert.Equal(t, "01712345678", normalizePhone("017 1234 5678"))
	assert.Equal(t, "01712345678", normalizePhone("(017) 1234.5678"))
}

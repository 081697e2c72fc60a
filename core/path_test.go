package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"users":                "users",
		"/users":               "users",
		"users/":               "users",
		"///users/ada///":      "users/ada",
		"  /users/ada/  ":      "users/ada",
		"users/ada/name/first": "users/ada/name/first",
		"0/1":                  "0/1",
		"/ users /ada/ ":       "users /ada",
		"users/ada.lovelace":   "users/ada.lovelace",
		"tags/$id/#h/[0]":      "tags/$id/#h/[0]",
	}
	for in, want := range cases {
		got, err := NormalizePath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)

		again, err := NormalizePath(got)
		require.NoError(t, err)
		assert.Equal(t, got, again, "normalization must be idempotent")
	}
}

func TestNormalizePath_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "/", "////", " / "} {
		_, err := NormalizePath(in)
		assert.ErrorIs(t, err, ErrEmptyPath, "%q", in)
	}

	for _, in := range []string{"a//b", "users///ada", string([]byte{0xff, 0xfe})} {
		_, err := NormalizePath(in)
		assert.ErrorIs(t, err, ErrInvalidPath, "%q", in)

		var pe *PathError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, in, pe.Path)
	}
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("ada"))
	assert.ErrorIs(t, ValidateKey(""), ErrEmptyPath)
	assert.ErrorIs(t, ValidateKey("a/b"), ErrInvalidPath)
	assert.NoError(t, ValidateKey(".sv"))
	assert.NoError(t, ValidateKey("ada.lovelace@example.com"))
	assert.NoError(t, ValidateKey(" ada "))
	assert.ErrorIs(t, ValidateKey(string([]byte{0xff})), ErrInvalidPath)
}

func TestPathHelpers(t *testing.T) {
	p, err := JoinPath("users/ada", "/name/first/")
	require.NoError(t, err)
	assert.Equal(t, "users/ada/name/first", p)

	p, err = JoinPath("", "users")
	require.NoError(t, err)
	assert.Equal(t, "users", p)

	_, err = JoinPath("users", "")
	assert.ErrorIs(t, err, ErrEmptyPath)

	assert.Equal(t, "users/ada", ParentPath("users/ada/name"))
	assert.Equal(t, "", ParentPath("users"))
	assert.Equal(t, "users", RootPath("users/ada/name"))
	assert.Equal(t, "users", RootPath("users"))
	assert.Equal(t, "name", LastSegment("users/ada/name"))
	assert.Equal(t, "users", LastSegment("users"))
	assert.Equal(t, []string{"users", "ada"}, Segments("users/ada"))
	assert.Nil(t, Segments(""))

	assert.True(t, IsDescendant("users/ada", "users"))
	assert.False(t, IsDescendant("users", "users"))
	assert.False(t, IsDescendant("usersx/ada", "users"))
}

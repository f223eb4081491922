package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v123456789/avatars/sample.webp": "avatars/sample",
		"https://res.cloudinary.com/demo/image/upload/avatars/sample.jpg":             "avatars/sample",
		"https://res.cloudinary.com/demo/image/upload/videos/clip.png":                "videos/clip",
		"https://example.com/not-cloudinary.png":                                      "",
		"https://res.cloudinary.com/demo/image/upload/":                               "",
	}

	for in, want := range cases {
		assert.Equal(t, want, ExtractPublicID(in), "url %q", in)
	}
}

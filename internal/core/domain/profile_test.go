package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_HasDisplayableImage(t *testing.T) {
	cases := map[string]bool{
		"":                                  false,
		"   ":                               false,
		"content://media/external/images/1": true,
		"file:///sdcard/avatar.png":         true,
		"https://example.com/me.png":        true,
		"http://example.com/me.png":         true,
		"ftp://example.com/me.png":          false,
		"avatar.png":                        false,
	}

	for uri, expected := range cases {
		profile := Profile{ID: ProfileID, ImageURI: uri}
		assert.Equal(t, expected, profile.HasDisplayableImage(), uri)
	}
}

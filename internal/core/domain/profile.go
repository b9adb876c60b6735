package domain

import "strings"

// ProfileID keys the single profile row of an installation.
const ProfileID = 1

type Profile struct {
	ID       int
	Nickname string `validate:"max=100"`
	ImageURI string
}

var displayableSchemes = []string{"content://", "file://", "http"}

// HasDisplayableImage reports whether ImageURI points at something a client can render.
func (p *Profile) HasDisplayableImage() bool {
	uri := strings.TrimSpace(p.ImageURI)

	if uri == "" {
		return false
	}

	for _, scheme := range displayableSchemes {
		if strings.HasPrefix(uri, scheme) {
			return true
		}
	}

	return false
}

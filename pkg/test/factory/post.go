package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"

	"lovemap/internal/core/domain"
)

// NewPost builds an unsaved post stamped now, without image or location unless overridden.
func NewPost(customData ...map[string]any) domain.Post {
	post := fab.New(domain.Post{}).Build(merge(customData))

	if !provided(customData, "ID") {
		post.ID = 0
	}

	if !provided(customData, "Title") {
		post.Title = "A day at the park"
	}

	if !provided(customData, "Content") {
		post.Content = "We walked along the river until sunset."
	}

	if !provided(customData, "ImageURI") {
		post.ImageURI = nil
	}

	if !provided(customData, "Location") {
		post.Location = nil
	}

	if !provided(customData, "Timestamp") {
		post.Timestamp = time.Now().UnixMilli()
	}

	return post
}

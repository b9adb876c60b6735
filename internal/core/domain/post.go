package domain

import (
	"strings"
	"time"
)

type Post struct {
	ID        int64
	Title     string `validate:"required,max=255"`
	Content   string `validate:"required"`
	ImageURI  *string
	Location  *Location
	Timestamp int64
}

func (p *Post) CreatedAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}

func (p *Post) Stamp(now time.Time) {
	if p.Timestamp == 0 {
		p.Timestamp = now.UnixMilli()
	}
}

func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)

	if p.ImageURI != nil && strings.TrimSpace(*p.ImageURI) == "" {
		p.ImageURI = nil
	}
}

func (p *Post) ToMap() map[string]interface{} {
	lat, lng := p.Location.Columns()

	return map[string]interface{}{
		"title":     p.Title,
		"content":   p.Content,
		"image_uri": p.ImageURI,
		"lat":       lat,
		"lng":       lng,
		"timestamp": p.Timestamp,
	}
}

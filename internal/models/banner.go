package models

import "strings"

// Banner es una imagen destacada de la portada.
type Banner struct {
	Base   `bson:",inline"`
	Title  string `json:"title" bson:"title" binding:"required"`
	Image  string `json:"image" bson:"image" binding:"required"`
	Link   string `json:"link" bson:"link"`
	Active *bool  `json:"active,omitempty" bson:"active,omitempty"`
	Order  int    `json:"order" bson:"order"`
}

func (b *Banner) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Image = strings.TrimSpace(b.Image)
	if b.Active == nil {
		active := true
		b.Active = &active
	}
}

type BannerUpdate struct {
	Title  *string `json:"title,omitempty" binding:"omitempty,min=1"`
	Image  *string `json:"image,omitempty" binding:"omitempty,min=1"`
	Link   *string `json:"link,omitempty"`
	Active *bool   `json:"active,omitempty"`
	Order  *int    `json:"order,omitempty"`
}

func (u *BannerUpdate) Normalize() {}

func (u *BannerUpdate) Fields() map[string]any {
	f := map[string]any{}
	setString(f, "title", u.Title)
	setString(f, "image", u.Image)
	setString(f, "link", u.Link)
	setBool(f, "active", u.Active)
	if u.Order != nil {
		f["order"] = *u.Order
	}
	return f
}

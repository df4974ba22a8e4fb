package models

import "strings"

// Variant es una presentación del producto (tamaño, color...).
type Variant struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price" binding:"gte=0"`
	Stock int     `json:"stock" bson:"stock" binding:"gte=0"`
}

// Product representa un producto en el catálogo
type Product struct {
	Base           `bson:",inline"`
	Name           string            `json:"name" bson:"name" binding:"required,min=3"`
	Description    string            `json:"description" bson:"description" binding:"required,min=10"`
	Price          float64           `json:"price" bson:"price" binding:"gt=0"`
	OriginalPrice  float64           `json:"originalPrice,omitempty" bson:"originalPrice,omitempty" binding:"gte=0"`
	Category       string            `json:"category" bson:"category" binding:"required"`
	Image          string            `json:"image,omitempty" bson:"image,omitempty"`
	Images         []string          `json:"images" bson:"images"`
	Variants       []Variant         `json:"variants,omitempty" bson:"variants,omitempty" binding:"dive"`
	Directions     []string          `json:"directions,omitempty" bson:"directions,omitempty"`
	Benefits       []string          `json:"benefits,omitempty" bson:"benefits,omitempty"`
	Tags           []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Rating         float64           `json:"rating" bson:"rating" binding:"gte=0,lte=5"`
	Reviews        int               `json:"reviews" bson:"reviews" binding:"gte=0"`
	Featured       bool              `json:"featured" bson:"featured"`
	OnSale         bool              `json:"onSale" bson:"onSale"`
	Discount       float64           `json:"discount,omitempty" bson:"discount,omitempty" binding:"gte=0,lte=100"`
	Stock          int               `json:"stock" bson:"stock" binding:"gte=0"`
	Specifications map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	IsActive       *bool             `json:"isActive,omitempty" bson:"isActive,omitempty"`
}

// Normalize aplica las reglas de formato antes de validar.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if len(p.Images) == 0 && p.Image != "" {
		p.Images = []string{p.Image}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.IsActive == nil {
		active := true
		p.IsActive = &active
	}
}

// Active indica si el producto es visible en el catálogo público.
func (p *Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Name           *string           `json:"name,omitempty" binding:"omitempty,min=3"`
	Description    *string           `json:"description,omitempty" binding:"omitempty,min=10"`
	Price          *float64          `json:"price,omitempty" binding:"omitempty,gt=0"`
	OriginalPrice  *float64          `json:"originalPrice,omitempty" binding:"omitempty,gte=0"`
	Category       *string           `json:"category,omitempty"`
	Image          *string           `json:"image,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Variants       []Variant         `json:"variants,omitempty" binding:"omitempty,dive"`
	Directions     []string          `json:"directions,omitempty"`
	Benefits       []string          `json:"benefits,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Featured       *bool             `json:"featured,omitempty"`
	OnSale         *bool             `json:"onSale,omitempty"`
	Discount       *float64          `json:"discount,omitempty" binding:"omitempty,gte=0,lte=100"`
	Stock          *int              `json:"stock,omitempty" binding:"omitempty,gte=0"`
	Specifications map[string]string `json:"specifications,omitempty"`
	IsActive       *bool             `json:"isActive,omitempty"`
}

func (u *ProductUpdate) Normalize() {
	if u.Category != nil {
		c := strings.ToLower(strings.TrimSpace(*u.Category))
		u.Category = &c
	}
	if u.Name != nil {
		n := strings.TrimSpace(*u.Name)
		u.Name = &n
	}
}

// Fields convierte la actualización en un mapa campo -> valor.
func (u *ProductUpdate) Fields() map[string]any {
	f := map[string]any{}
	setString(f, "name", u.Name)
	setString(f, "description", u.Description)
	setString(f, "category", u.Category)
	setString(f, "image", u.Image)
	setFloat(f, "price", u.Price)
	setFloat(f, "originalPrice", u.OriginalPrice)
	setFloat(f, "discount", u.Discount)
	setBool(f, "featured", u.Featured)
	setBool(f, "onSale", u.OnSale)
	setBool(f, "isActive", u.IsActive)
	if u.Stock != nil {
		f["stock"] = *u.Stock
	}
	if u.Images != nil {
		f["images"] = u.Images
	}
	if u.Variants != nil {
		f["variants"] = u.Variants
	}
	if u.Directions != nil {
		f["directions"] = u.Directions
	}
	if u.Benefits != nil {
		f["benefits"] = u.Benefits
	}
	if u.Tags != nil {
		f["tags"] = u.Tags
	}
	if u.Specifications != nil {
		f["specifications"] = u.Specifications
	}
	return f
}

func setString(f map[string]any, key string, v *string) {
	if v != nil {
		f[key] = *v
	}
}

func setFloat(f map[string]any, key string, v *float64) {
	if v != nil {
		f[key] = *v
	}
}

func setBool(f map[string]any, key string, v *bool) {
	if v != nil {
		f[key] = *v
	}
}

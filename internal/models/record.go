package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base agrupa los campos comunes de todas las colecciones.
// El campo id lo elige la aplicación y es distinto del _id interno de Mongo.
type Base struct {
	MongoID   primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID        string             `json:"id" bson:"id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) GetID() string   { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }

// Stamp fija createdAt (solo la primera vez) y updatedAt.
func (b *Base) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Record es lo que necesita el almacenamiento genérico.
type Record interface {
	GetID() string
	SetID(id string)
	Stamp(now time.Time)
}

// Normalizer se aplica antes de validar una entrada.
type Normalizer interface {
	Normalize()
}

// NewID genera un id de aplicación con prefijo, p. ej. PROD_3f2a9c1b4d5e
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + strings.ToUpper(raw[:12])
}

// Campos que nunca se aceptan en una actualización parcial.
var protectedFields = []string{"_id", "id", "createdAt", "updatedAt"}

// StripProtected elimina los campos del sistema de un mapa de actualización.
func StripProtected(fields map[string]any) {
	for _, f := range protectedFields {
		delete(fields, f)
	}
}

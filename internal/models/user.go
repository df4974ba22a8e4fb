package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

type Address struct {
	Type          string `json:"type" bson:"type" binding:"omitempty,oneof=home work other"`
	FlatNumber    string `json:"flatNumber,omitempty" bson:"flatNumber,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty" bson:"streetAddress,omitempty"`
	City          string `json:"city,omitempty" bson:"city,omitempty"`
	State         string `json:"state,omitempty" bson:"state,omitempty"`
	Pincode       string `json:"pincode,omitempty" bson:"pincode,omitempty" binding:"omitempty,pincode"`
	IsDefault     bool   `json:"isDefault" bson:"isDefault"`
}

// User es una cuenta de cliente o de administración.
// PasswordHash se persiste pero nunca se devuelve al cliente (ver Public).
type User struct {
	Base          `bson:",inline"`
	Username      string     `json:"username,omitempty" bson:"username,omitempty"`
	FirstName     string     `json:"firstName" bson:"firstName"`
	LastName      string     `json:"lastName" bson:"lastName"`
	Name          string     `json:"name,omitempty" bson:"-"`
	Email         string     `json:"email" bson:"email"`
	PasswordHash  string     `json:"passwordHash,omitempty" bson:"passwordHash"`
	Phone         string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Role          Role       `json:"role" bson:"role"`
	Addresses     []Address  `json:"addresses" bson:"addresses"`
	Wishlist      []string   `json:"wishlist" bson:"wishlist"`
	IsActive      bool       `json:"isActive" bson:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	EmailVerified bool       `json:"emailVerified" bson:"emailVerified"`
}

// FullName une nombre y apellido.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Public devuelve una copia apta para respuestas HTTP.
func (u User) Public() User {
	u.PasswordHash = ""
	u.Name = u.FullName()
	return u
}

// RegisterInput es el cuerpo de POST /auth/register.
type RegisterInput struct {
	Username  string `json:"username" binding:"omitempty,alphanum,min=3"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone" binding:"omitempty,phone"`
}

func (in *RegisterInput) Normalize() {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = CleanPhone(in.Phone)
}

// LoginInput acepta email o username.
type LoginInput struct {
	Email    string `json:"email" binding:"required_without=Username"`
	Username string `json:"username" binding:"required_without=Email"`
	Password string `json:"password" binding:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
}

type UserUpdate struct {
	FirstName     *string   `json:"firstName,omitempty" binding:"omitempty,min=1"`
	LastName      *string   `json:"lastName,omitempty" binding:"omitempty,min=1"`
	Phone         *string   `json:"phone,omitempty" binding:"omitempty,phone"`
	Password      *string   `json:"password,omitempty" binding:"omitempty,min=6"`
	Role          *Role     `json:"role,omitempty" binding:"omitempty,oneof=customer admin super_admin"`
	Addresses     []Address `json:"addresses,omitempty" binding:"omitempty,dive"`
	Wishlist      []string  `json:"wishlist,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
	EmailVerified *bool     `json:"emailVerified,omitempty"`
}

func (u *UserUpdate) Normalize() {
	if u.Phone != nil {
		p := CleanPhone(*u.Phone)
		u.Phone = &p
	}
}

// Fields no incluye la contraseña: el handler la cifra antes de guardarla.
func (u *UserUpdate) Fields() map[string]any {
	f := map[string]any{}
	setString(f, "firstName", u.FirstName)
	setString(f, "lastName", u.LastName)
	setString(f, "phone", u.Phone)
	setBool(f, "isActive", u.IsActive)
	setBool(f, "emailVerified", u.EmailVerified)
	if u.Role != nil {
		f["role"] = string(*u.Role)
	}
	if u.Addresses != nil {
		f["addresses"] = u.Addresses
	}
	if u.Wishlist != nil {
		f["wishlist"] = u.Wishlist
	}
	return f
}

package pets

import "time"

// Species define las especies soportadas.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// SizeCategory es el porte de la mascota; junto con el pelaje define
// el tier de precios de grooming y la tarifa diaria de hospedaje.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

func ValidSize(s SizeCategory) bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	default:
		return false
	}
}

// CoatType es el tipo de pelaje.
type CoatType string

const (
	CoatShort  CoatType = "short"
	CoatMedium CoatType = "medium"
	CoatLong   CoatType = "long"
)

func ValidCoat(c CoatType) bool {
	switch c {
	case CoatShort, CoatMedium, CoatLong:
		return true
	default:
		return false
	}
}

// Pet es el perfil de una mascota registrada.
type Pet struct {
	ID       string
	ClientID string

	Name    string
	Species Species
	Breed   string
	Size    SizeCategory
	Coat    CoatType

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import "time"

const (
	PropertyTypeVilla     = "villa"
	PropertyTypeHotel     = "hotel"
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
)

type Property struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title        string    `json:"title" bson:"title" validate:"required,min=1,max=200"`
	Description  string    `json:"description" bson:"description" validate:"required,max=1000"`
	Price        float64   `json:"price" bson:"price" validate:"min=0"`
	Location     string    `json:"location" bson:"location" validate:"required,max=200"`
	Images       []string  `json:"images" bson:"images" validate:"required,min=1,dive,url"`
	Amenities    []string  `json:"amenities" bson:"amenities" validate:"omitempty,dive,min=1,max=100"`
	MaxGuests    int       `json:"maxGuests" bson:"max_guests" validate:"required,min=1,max=20"`
	Bedrooms     int       `json:"bedrooms" bson:"bedrooms" validate:"min=0"`
	Bathrooms    int       `json:"bathrooms" bson:"bathrooms" validate:"required,min=1"`
	PropertyType string    `json:"propertyType" bson:"property_type" validate:"required,oneof=villa hotel apartment house"`
	IsAvailable  bool      `json:"isAvailable" bson:"is_available"`
	OwnerID      string    `json:"owner" bson:"owner_id" validate:"omitempty,mongodb"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

// PropertyUpdate carries the administrative edits allowed after creation.
// Pointer fields distinguish "not supplied" from zero values.
type PropertyUpdate struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
	MaxGuests   *int     `json:"maxGuests,omitempty" validate:"omitempty,min=1,max=20"`
	Amenities   []string `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=100"`
}

// PropertyFilter holds the public catalog query parameters.
type PropertyFilter struct {
	Location     string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Guests       *int
}

// PropertySummary is the denormalized slice of a property joined onto booking
// responses for display.
type PropertySummary struct {
	ID       string   `json:"id" bson:"_id"`
	Title    string   `json:"title" bson:"title"`
	Location string   `json:"location" bson:"location"`
	Images   []string `json:"images" bson:"images"`
	Price    float64  `json:"price" bson:"price"`
}

func (p *Property) Summary() PropertySummary {
	return PropertySummary{
		ID:       p.ID,
		Title:    p.Title,
		Location: p.Location,
		Images:   p.Images,
		Price:    p.Price,
	}
}

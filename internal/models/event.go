package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,notnull" json:"description"`
	Icon        string    `bun:"icon,notnull" json:"icon"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Icon        string `json:"icon" validate:"required"`
}

type Location struct {
	Region      int       `json:"region"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Slug        string    `bun:"slug,unique,notnull" json:"slug"`
	StartDate   time.Time `bun:"start_date,notnull" json:"startDate"`
	EndDate     time.Time `bun:"end_date,notnull" json:"endDate"`
	Description string    `bun:"description,notnull" json:"description"`
	Banner      string    `bun:"banner,notnull" json:"banner"`
	CategoryID  string    `bun:"category_id,notnull" json:"category"`
	CreatedBy   string    `bun:"created_by,notnull" json:"createdBy"`
	IsOnline    bool      `bun:"is_online,notnull" json:"isOnline"`
	IsFeatured  bool      `bun:"is_featured,notnull" json:"isFeatured"`
	IsPublish   bool      `bun:"is_publish,notnull" json:"isPublish"`
	Location    Location  `bun:"location,type:jsonb" json:"location"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updatedAt"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"categoryDetail,omitempty"`
}

type EventRequest struct {
	Name        string    `json:"name" validate:"required"`
	Slug        string    `json:"slug"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Description string    `json:"description" validate:"required"`
	Banner      string    `json:"banner" validate:"required"`
	CategoryID  string    `json:"category" validate:"required,uuid"`
	IsOnline    *bool     `json:"isOnline" validate:"required"`
	IsFeatured  *bool     `json:"isFeatured" validate:"required"`
	IsPublish   *bool     `json:"isPublish"`
	Location    Location  `json:"location"`
}

// Slugify lowercases name and joins its space-separated words with hyphens.
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Split(strings.TrimSpace(name), " "), "-"))
}

type Banner struct {
	bun.BaseModel `bun:"table:banners,alias:b"`

	ID        string    `bun:"id,pk" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Image     string    `bun:"image,notnull" json:"image"`
	IsShow    bool      `bun:"is_show,notnull" json:"isShow"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

type BannerRequest struct {
	Title  string `json:"title" validate:"required"`
	Image  string `json:"image" validate:"required"`
	IsShow *bool  `json:"isShow" validate:"required"`
}

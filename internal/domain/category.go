package domain

import "time"

// Category groups published content
type Category struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NameAr      string    `gorm:"column:name_ar;size:100;not null" json:"name_ar"`
	NameEn      string    `gorm:"column:name_en;size:100" json:"name_en"`
	Slug        string    `gorm:"column:slug;size:100;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (Category) TableName() string {
	return "categories"
}

package model

import "time"

type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"firstName" gorm:"size:100;not null"`
	LastName  string    `json:"lastName" gorm:"size:100;not null;index:idx_customer_name,priority:1"`
	Email     *string   `json:"email,omitempty" gorm:"size:200"`
	Phone     *string   `json:"phone,omitempty" gorm:"size:20"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
	Images    []Image   `json:"images" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE;"`
}

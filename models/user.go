package models

import "time"

type User struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id" bson:"_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt" bson:"updated_at"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name" bson:"name"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	GoogleID      string    `gorm:"type:varchar(255);index" json:"-" bson:"google_id,omitempty"`
	Avatar        string    `json:"avatar" bson:"avatar,omitempty"`
	IsAdmin       bool      `gorm:"default:false" json:"isAdmin" bson:"is_admin"`
	Code          string    `json:"-" bson:"code,omitempty"`
	CodeCreatedAt time.Time `json:"-" bson:"code_created_at,omitempty"`
}

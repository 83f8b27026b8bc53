package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductImage struct {
	gorm.Model
	Url       string `json:"url"`
	ProductID uint   `json:"productId" gorm:"index"`
}

type Product struct {
	gorm.Model
	SellerID    uint            `json:"sellerId" gorm:"index"`
	Name        string          `json:"name" gorm:"size:191;index"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category" gorm:"size:64;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Stock       int             `json:"stock"`
	Images      []ProductImage  `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
}

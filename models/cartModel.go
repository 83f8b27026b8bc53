package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	CartID    uint    `json:"cartId" gorm:"index"`
	ProductID uint    `json:"productId" gorm:"index"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}

type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

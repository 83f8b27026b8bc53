package models

import "time"

// Conversation is a buyer-seller thread about one product.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SellerID  uint      `json:"sellerId" gorm:"uniqueIndex:idx_conversation_participants"`
	BuyerID   uint      `json:"buyerId" gorm:"uniqueIndex:idx_conversation_participants"`
	ProductID uint      `json:"productId" gorm:"uniqueIndex:idx_conversation_participants"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"index"`
	Messages  []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// HasParticipant reports whether userID is the buyer or the seller of the conversation.
func (c Conversation) HasParticipant(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// Counterpart returns the other participant.
func (c Conversation) Counterpart(userID uint) uint {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversationId" gorm:"index"`
	SenderID       uint      `json:"senderId"`
	Content        string    `json:"content" gorm:"type:text"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
}

type ConversationInput struct {
	SellerID  uint `json:"sellerId" binding:"required"`
	ProductID uint `json:"productId" binding:"required"`
}

type MessageInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

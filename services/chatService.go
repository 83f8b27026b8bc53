package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/relay"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultMessagePage = 30
	maxMessagePage     = 100
)

type ChatService struct {
	DB    *gorm.DB
	Relay relay.Publisher
}

func NewChatService(db *gorm.DB, publisher relay.Publisher) *ChatService {
	return &ChatService{DB: db, Relay: publisher}
}

type messageDeleted struct {
	ID             uint `json:"id"`
	ConversationID uint `json:"conversationId"`
}

// StartConversation returns the buyer's conversation with the seller about the
// product, creating it on first contact.
func (s *ChatService) StartConversation(ctx context.Context, buyerID uint, in models.ConversationInput) (*models.Conversation, bool, error) {
	if buyerID == in.SellerID {
		return nil, false, fmt.Errorf("%w: cannot start a conversation with yourself", ErrInvalidInput)
	}
	db := s.DB.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: product %d does not exist", ErrInvalidInput, in.ProductID)
		}
		return nil, false, err
	}
	if product.SellerID != in.SellerID {
		return nil, false, fmt.Errorf("%w: product %d is not sold by seller %d", ErrInvalidInput, in.ProductID, in.SellerID)
	}

	// The participants index makes a concurrent duplicate insert a no-op.
	conversation := models.Conversation{SellerID: in.SellerID, BuyerID: buyerID, ProductID: in.ProductID}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conversation)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		var existing models.Conversation
		err := db.Where("seller_id = ? AND buyer_id = ? AND product_id = ?", in.SellerID, buyerID, in.ProductID).
			First(&existing).Error
		if err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	s.publish(ctx, conversation.SellerID, relay.EventConversationCreated, conversation)
	return &conversation, true, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.DB.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// Conversation loads a conversation the user participates in.
func (s *ChatService) Conversation(ctx context.Context, conversationID, userID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.DB.WithContext(ctx).First(&conversation, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return &conversation, nil
}

// ListMessages pages forward through a conversation: messages with id greater
// than afterID, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, conversationID, userID, afterID uint, limit int) ([]models.Message, error) {
	if _, err := s.Conversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxMessagePage {
		limit = defaultMessagePage
	}
	q := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Limit(limit)
	if afterID > 0 {
		q = q.Where("id > ?", afterID)
	}
	var messages []models.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}
	conversation, err := s.Conversation(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	message := models.Message{ConversationID: conversation.ID, SenderID: senderID, Content: content}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(conversation).UpdateColumn("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	// Both sides receive the event; the sender's other sessions drop it by id if already applied.
	s.publish(ctx, conversation.Counterpart(senderID), relay.EventMessageCreated, message)
	s.publish(ctx, senderID, relay.EventMessageCreated, message)
	return &message, nil
}

func (s *ChatService) DeleteMessage(ctx context.Context, conversationID, messageID, userID uint) error {
	conversation, err := s.Conversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	var message models.Message
	err = s.DB.WithContext(ctx).Where("id = ? AND conversation_id = ?", messageID, conversationID).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if message.SenderID != userID {
		return fmt.Errorf("%w: only the sender can delete a message", ErrForbidden)
	}
	if err := s.DB.WithContext(ctx).Delete(&message).Error; err != nil {
		return err
	}

	payload := messageDeleted{ID: message.ID, ConversationID: conversationID}
	s.publish(ctx, conversation.Counterpart(userID), relay.EventMessageDeleted, payload)
	s.publish(ctx, userID, relay.EventMessageDeleted, payload)
	return nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, conversationID, userID uint) error {
	conversation, err := s.Conversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversation.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(conversation).Error
	})
	if err != nil {
		return err
	}
	s.publish(ctx, conversation.Counterpart(userID), relay.EventConversationDeleted, conversation)
	return nil
}

func (s *ChatService) publish(ctx context.Context, userID uint, name string, data any) {
	if s.Relay == nil {
		return
	}
	if err := s.Relay.Publish(ctx, relay.UserChannel(userID), name, data); err != nil {
		zap.L().Warn("relay publish failed", zap.String("event", name), zap.Uint("userId", userID), zap.Error(err))
	}
}

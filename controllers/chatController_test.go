package controllers_test

import (
	"net/http"
	"testing"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/relay"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationLifecycle(t *testing.T) {
	env := setup(t)
	_, buyerToken := env.user(models.RoleBuyer, "buyer@example.com")
	_, strangerToken := env.user(models.RoleBuyer, "stranger@example.com")
	seller, sellerToken := env.user(models.RoleSeller, "seller@example.com")
	product := env.product(seller.ID, "8.00", 5)

	type conversationResponse struct {
		Conversation models.Conversation `json:"conversation"`
	}
	start := gin.H{"sellerId": seller.ID, "productId": product.ID}

	res := env.do(http.MethodPost, "/conversations", sellerToken, start)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = env.do(http.MethodPost, "/conversations", buyerToken, start)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	conversation := decode[conversationResponse](t, res).Conversation

	res = env.do(http.MethodPost, "/conversations", buyerToken, start)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, conversation.ID, decode[conversationResponse](t, res).Conversation.ID)

	messages := path("/conversations/%d/messages", conversation.ID)
	res = env.do(http.MethodPost, messages, buyerToken, gin.H{"content": "Is the halaya sugar free?"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	sent := decode[struct {
		Message models.Message `json:"message"`
	}](t, res).Message
	res = env.do(http.MethodPost, messages, sellerToken, gin.H{"content": "Not yet, next batch."})
	require.Equal(t, http.StatusCreated, res.Code)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, messages, strangerToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, messages, strangerToken, gin.H{"content": "hi"}).Code)

	res = env.do(http.MethodGet, messages+"?after=0", sellerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	listed := decode[struct {
		Messages []models.Message `json:"messages"`
	}](t, res).Messages
	require.Len(t, listed, 2)
	assert.Equal(t, sent.ID, listed[0].ID)

	res = env.do(http.MethodGet, path("%s?after=%d", messages, sent.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[struct {
		Messages []models.Message `json:"messages"`
	}](t, res).Messages, 1)

	res = env.do(http.MethodDelete, path("%s/%d", messages, sent.ID), sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = env.do(http.MethodDelete, path("%s/%d", messages, sent.ID), buyerToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = env.do(http.MethodGet, "/conversations", sellerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[struct {
		Conversations []models.Conversation `json:"conversations"`
	}](t, res).Conversations, 1)

	res = env.do(http.MethodDelete, path("/conversations/%d", conversation.ID), buyerToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, messages, buyerToken, nil).Code)

	env.relay.mu.Lock()
	defer env.relay.mu.Unlock()
	assert.Contains(t, env.relay.names, relay.EventConversationCreated)
	assert.Contains(t, env.relay.names, relay.EventMessageCreated)
	assert.Contains(t, env.relay.names, relay.EventMessageDeleted)
	assert.Contains(t, env.relay.names, relay.EventConversationDeleted)
}

func TestStreamEventsNeedsSubscriber(t *testing.T) {
	env := setup(t)
	_, token := env.user(models.RoleBuyer, "buyer@example.com")

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/events", "", nil).Code)
	assert.Equal(t, http.StatusNotImplemented, env.do(http.MethodGet, "/events", token, nil).Code)
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
)

// StartConversation finds or creates the buyer's conversation with a seller about a product.
func StartConversation(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var input models.ConversationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	conversation, created, err := chatService().StartConversation(ctx.Request.Context(), actor.ID, input)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to start conversation")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	sendJSONResponse(ctx, status, gin.H{"conversation": conversation})
}

func GetConversations(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	conversations, err := chatService().ListConversations(ctx.Request.Context(), actor.ID)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch conversations")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"conversations": conversations})
}

func GetMessages(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	conversationId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	after, _ := strconv.ParseUint(ctx.DefaultQuery("after", "0"), 10, 64)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	messages, err := chatService().ListMessages(ctx.Request.Context(), conversationId, actor.ID, uint(after), limit)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch messages")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"messages": messages})
}

func SendMessage(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	conversationId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var input models.MessageInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	message, err := chatService().SendMessage(ctx.Request.Context(), conversationId, actor.ID, input.Content)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to send message")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": message})
}

func DeleteMessage(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	conversationId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	messageId, ok := paramID(ctx, "messageId")
	if !ok {
		return
	}

	if err := chatService().DeleteMessage(ctx.Request.Context(), conversationId, messageId, actor.ID); err != nil {
		respondWithServiceError(ctx, err, "Failed to delete message")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Message deleted"})
}

func DeleteConversation(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	conversationId, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := chatService().DeleteConversation(ctx.Request.Context(), conversationId, actor.ID); err != nil {
		respondWithServiceError(ctx, err, "Failed to delete conversation")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Conversation deleted"})
}

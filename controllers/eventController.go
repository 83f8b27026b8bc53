package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/relay"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamHeartbeat = 25 * time.Second

// StreamEvents relays the caller's channel as server-sent events. Only relays
// that can be subscribed to (redis) support it.
func StreamEvents(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	subscriber, ok := initializers.Relay.(relay.Subscriber)
	if !ok {
		sendErrorResponse(ctx, http.StatusNotImplemented, "event streaming is not available with the configured relay")
		return
	}

	channel := relay.UserChannel(actor.ID)
	events, err := subscriber.Subscribe(ctx.Request.Context(), channel)
	if err != nil {
		zap.L().Error("subscribe failed", zap.String("channel", channel), zap.Error(err))
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "unable to open event stream")
		return
	}

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			ctx.SSEvent(ev.Name, ev)
			return true
		case <-heartbeat.C:
			ctx.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

// Package v1 implements the HTTP API of the budget backend.
package v1

import (
	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/config"
	"github.com/college-budget/backend/internal/notify"
	"github.com/gin-gonic/gin"
)

// Controller holds what the request handlers need beyond the database:
// the runtime configuration and the notification dispatcher.
type Controller struct {
	Config   config.Config
	Notifier *notify.Notifier
}

// actorKey is the gin context key the authentication middleware stores
// the verified actor under.
const actorKey = "actor"

// SetActor attaches the verified actor to the request context.
func SetActor(c *gin.Context, actor auth.Actor) {
	c.Set(actorKey, actor)
}

// requestHost reconstructs the external base URL for response links.
// Reverse proxies are expected to set x-forwarded-host, and optionally
// x-forwarded-proto and x-forwarded-prefix.
func requestHost(c *gin.Context) string {
	scheme := "http"
	if c.Request.Header.Get("x-forwarded-proto") == "https" {
		scheme = "https"
	}

	host := c.Request.Host
	var forwardedPrefix string

	xForwardedHost := c.Request.Header.Get("x-forwarded-host")
	if xForwardedHost != "" {
		host = xForwardedHost
		forwardedPrefix = c.Request.Header.Get("x-forwarded-prefix")
	}

	return scheme + "://" + host + forwardedPrefix
}

func currentActor(c *gin.Context) auth.Actor {
	value, ok := c.Get(actorKey)
	if !ok {
		return auth.Actor{}
	}

	actor, ok := value.(auth.Actor)
	if !ok {
		return auth.Actor{}
	}

	return actor
}

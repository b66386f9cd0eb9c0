package app

import (
	"context"
	"strings"
)

// Channel names the surface a mutation arrived through.
type Channel string

// Channel values.
const (
	ChannelHTTP Channel = "http"
	ChannelMCP  Channel = "mcp"
	ChannelCLI  Channel = "cli"
)

// Actor carries normalized caller identity metadata for mutation attribution.
type Actor struct {
	Name    string
	Channel Channel
}

// WithActor attaches normalized actor metadata to context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, normalizeActor(actor))
}

// ActorFromContext returns normalized actor metadata when present.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	if !ok {
		return Actor{}, false
	}
	actor = normalizeActor(actor)
	if actor.Name == "" {
		return Actor{}, false
	}
	return actor, true
}

// actorContextKey stores context keys for actor metadata.
type actorContextKey struct{}

// normalizeActor trims and canonicalizes actor metadata.
func normalizeActor(actor Actor) Actor {
	actor.Name = strings.TrimSpace(actor.Name)
	actor.Channel = Channel(strings.TrimSpace(strings.ToLower(string(actor.Channel))))
	switch actor.Channel {
	case ChannelHTTP, ChannelMCP, ChannelCLI:
	default:
		actor.Channel = ChannelHTTP
	}
	return actor
}

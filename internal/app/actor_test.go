package app

import (
	"context"
	"testing"
)

// TestActorContextRoundTrip verifies normalization and retrieval from context.
func TestActorContextRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{Name: " ops-bot ", Channel: " MCP "})
	actor, ok := ActorFromContext(ctx)
	if !ok {
		t.Fatal("ActorFromContext() expected actor")
	}
	if actor.Name != "ops-bot" {
		t.Fatalf("Name = %q, want ops-bot", actor.Name)
	}
	if actor.Channel != ChannelMCP {
		t.Fatalf("Channel = %q, want mcp", actor.Channel)
	}
}

// TestActorContextEmpty verifies absence semantics and channel defaulting.
func TestActorContextEmpty(t *testing.T) {
	if _, ok := ActorFromContext(context.Background()); ok {
		t.Fatal("ActorFromContext() expected no actor for empty context")
	}
	if _, ok := ActorFromContext(WithActor(context.Background(), Actor{})); ok {
		t.Fatal("ActorFromContext() expected no actor for empty value")
	}
	actor, ok := ActorFromContext(WithActor(context.Background(), Actor{Name: "a", Channel: "carrier-pigeon"}))
	if !ok || actor.Channel != ChannelHTTP {
		t.Fatalf("expected http channel default, got %#v", actor)
	}
}

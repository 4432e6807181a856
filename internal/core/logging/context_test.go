package logging

import (
	"context"
	"testing"
)

func TestWithUserID(t *testing.T) {
	ctx := context.Background()
	userID := "user-123"

	ctx = WithUserID(ctx, userID)
	got := GetUserID(ctx)

	if got != userID {
		t.Errorf("GetUserID() = %q, want %q", got, userID)
	}
}

func TestWithConnectionID(t *testing.T) {
	ctx := context.Background()
	connectionID := "conn-456"

	ctx = WithConnectionID(ctx, connectionID)
	got := GetConnectionID(ctx)

	if got != connectionID {
		t.Errorf("GetConnectionID() = %q, want %q", got, connectionID)
	}
}

func TestGetUserID_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetUserID(ctx)

	if got != "" {
		t.Errorf("GetUserID() = %q, want empty string", got)
	}
}

func TestGetConnectionID_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetConnectionID(ctx)

	if got != "" {
		t.Errorf("GetConnectionID() = %q, want empty string", got)
	}
}

func TestBothIDs(t *testing.T) {
	ctx := context.Background()
	userID := "user-1"
	connectionID := "conn-1"

	ctx = WithUserID(ctx, userID)
	ctx = WithConnectionID(ctx, connectionID)

	if got := GetUserID(ctx); got != userID {
		t.Errorf("GetUserID() = %q, want %q", got, userID)
	}

	if got := GetConnectionID(ctx); got != connectionID {
		t.Errorf("GetConnectionID() = %q, want %q", got, connectionID)
	}
}

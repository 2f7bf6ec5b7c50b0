package service

import (
	"context"
	"testing"

	"jansan-commerce/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatReply(t *testing.T) {
	svc := NewChatService()
	ctx := context.Background()

	tests := []struct {
		message  string
		contains string
	}{
		{"What products do you have?", "eco-friendly"},
		{"HOW MUCH does it cost", "₹100 to ₹1000"},
		{"I want to buy something", "checkout"},
		{"when is delivery?", "3-5 business days"},
		{"hello there", "Welcome"},
		{"do you speak tamil?", "Tamil and English"},
		{"I need support", "customer support"},
		{"asdf qwerty", "products page"},
	}

	for _, tt := range tests {
		reply, err := svc.Reply(ctx, tt.message)
		require.NoError(t, err)
		assert.Contains(t, reply, tt.contains, "message: %s", tt.message)
	}
}

func TestChatReply_EmptyMessage(t *testing.T) {
	svc := NewChatService()

	_, err := svc.Reply(context.Background(), "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

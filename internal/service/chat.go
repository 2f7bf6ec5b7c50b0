package service

import (
	"context"
	"strings"

	"jansan-commerce/internal/apperr"
)

type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

type chatServiceImpl struct{}

func NewChatService() ChatService {
	return &chatServiceImpl{}
}

// chatRule maps trigger keywords to a canned support answer. Rules are
// checked in order and the first match wins.
type chatRule struct {
	keywords []string
	reply    string
}

var chatRules = []chatRule{
	{
		keywords: []string{"product", "what do you have"},
		reply:    "We offer various eco-friendly cleaning products for home and office use. Our products include surface cleaners, floor cleaners, and disinfectants that are safe for the environment!",
	},
	{
		keywords: []string{"price", "cost", "how much"},
		reply:    "Our products range from ₹100 to ₹1000 depending on type and size. We have affordable options for every budget!",
	},
	{
		keywords: []string{"order", "buy", "purchase"},
		reply:    "You can easily order through our website! Just browse our products, add items to cart, and proceed to checkout. We accept multiple payment methods.",
	},
	{
		keywords: []string{"shipping", "delivery"},
		reply:    "We deliver across India! Standard delivery takes 3-5 business days. Express delivery is available in major cities.",
	},
	{
		keywords: []string{"hello", "hi"},
		reply:    "Hello! Welcome to Jansan Eco Solutions! How can I help you today?",
	},
	{
		keywords: []string{"tamil", "language"},
		reply:    "Yes! We support both Tamil and English. How can I assist you today?",
	},
	{
		keywords: []string{"contact", "support", "help"},
		reply:    "You can reach our customer support via email at support@jansan.com or call us at +91-9876543210. We're available Monday to Saturday, 9 AM to 6 PM.",
	},
}

const chatFallback = "Thank you for your question! For more specific information about our eco-friendly cleaning products, please check our products page or contact our customer support."

func (s *chatServiceImpl) Reply(_ context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperr.Validationf("message is required")
	}

	lower := strings.ToLower(message)
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply, nil
			}
		}
	}
	return chatFallback, nil
}

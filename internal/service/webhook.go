package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"jansan-commerce/internal/client"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"gorm.io/gorm"
)

// WebhookService reconciles local Payment/Order state with gateway
// events. Deliveries are at-least-once and unordered, so every handler
// must be safe to apply redundantly.
type WebhookService interface {
	// HandleEvent returns an error only when the signature is missing or
	// invalid (or the envelope cannot be parsed at all). Processing
	// failures after that point are logged and acknowledged, so the
	// gateway does not retry a permanently-unprocessable event forever.
	HandleEvent(ctx context.Context, body []byte, sigHeader string) error
}

type webhookServiceImpl struct {
	db            *gorm.DB
	gatewayClient client.GatewayClient
	paymentRepo   repository.PaymentRepository
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	eventRepo     repository.WebhookEventRepository
}

func NewWebhookService(
	db *gorm.DB,
	gatewayClient client.GatewayClient,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	eventRepo repository.WebhookEventRepository,
) WebhookService {
	return &webhookServiceImpl{
		db:            db,
		gatewayClient: gatewayClient,
		paymentRepo:   paymentRepo,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		eventRepo:     eventRepo,
	}
}

func (s *webhookServiceImpl) HandleEvent(ctx context.Context, body []byte, sigHeader string) error {
	event, err := s.gatewayClient.ConstructWebhookEvent(body, sigHeader)
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	if event.ID != "" {
		seen, err := s.eventRepo.Exists(ctx, event.ID)
		if err != nil {
			log.Println("webhook dedupe lookup failed:", err)
		} else if seen {
			log.Println("webhook event already processed:", event.ID)
			return nil
		}
	}

	if err := s.dispatch(ctx, event); err != nil {
		// acknowledged anyway; the failure is for operator follow-up
		log.Printf("webhook %s (%s) processing failed: %v", event.ID, event.Type, err)
		return nil
	}

	if event.ID != "" {
		if err := s.eventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
			log.Println("mark webhook event processed:", err)
		}
	}
	return nil
}

func (s *webhookServiceImpl) dispatch(ctx context.Context, event *model.GatewayWebhookEvent) error {
	switch event.Type {
	case "payment_intent.succeeded":
		var intent model.GatewayIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			return fmt.Errorf("decode intent object: %w", err)
		}
		return s.handlePaymentSucceeded(ctx, &intent)

	case "payment_intent.payment_failed":
		var intent model.GatewayIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			return fmt.Errorf("decode intent object: %w", err)
		}
		return s.handlePaymentFailed(ctx, &intent)

	case "payment_intent.canceled":
		var intent model.GatewayIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			return fmt.Errorf("decode intent object: %w", err)
		}
		return s.handlePaymentCanceled(ctx, &intent)

	case "charge.dispute.created":
		var dispute model.GatewayDispute
		if err := json.Unmarshal(event.Data.Object, &dispute); err != nil {
			return fmt.Errorf("decode dispute object: %w", err)
		}
		return s.handleChargebackCreated(ctx, &dispute)

	case "charge.refunded":
		var charge model.GatewayCharge
		if err := json.Unmarshal(event.Data.Object, &charge); err != nil {
			return fmt.Errorf("decode charge object: %w", err)
		}
		return s.handleChargeRefunded(ctx, &charge)

	default:
		log.Println("unhandled webhook event type:", event.Type)
		return nil
	}
}

func (s *webhookServiceImpl) handlePaymentSucceeded(ctx context.Context, intent *model.GatewayIntent) error {
	payment, ok, err := s.findByIntent(ctx, intent.ID)
	if err != nil || !ok {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.paymentRepo.MarkSucceeded(ctx, tx, intent.ID, intent.LatestCharge, "")
		if err != nil {
			return fmt.Errorf("mark payment succeeded: %w", err)
		}
		if !changed || payment.OrderID == nil {
			return nil
		}

		_, err = s.orderRepo.Transition(ctx, tx, *payment.OrderID, repository.OrderTransition{
			From:             []model.OrderStatus{model.OrderProcessing},
			To:               model.OrderProcessing,
			PaymentStatus:    model.OrderPaymentPaid,
			Note:             "Payment confirmed via gateway webhook",
			GatewayPaymentID: intent.ID,
		})
		return err
	})
}

func (s *webhookServiceImpl) handlePaymentFailed(ctx context.Context, intent *model.GatewayIntent) error {
	payment, ok, err := s.findByIntent(ctx, intent.ID)
	if err != nil || !ok {
		return err
	}

	reason := "Payment failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Message != "" {
		reason = intent.LastPaymentError.Message
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.paymentRepo.MarkFailed(ctx, tx, intent.ID, reason)
		if err != nil {
			return fmt.Errorf("mark payment failed: %w", err)
		}
		if !changed || payment.OrderID == nil {
			return nil
		}

		return s.cancelOrderForPayment(ctx, tx, *payment.OrderID, model.OrderPaymentFailed,
			"Payment failed: "+reason)
	})
}

func (s *webhookServiceImpl) handlePaymentCanceled(ctx context.Context, intent *model.GatewayIntent) error {
	payment, ok, err := s.findByIntent(ctx, intent.ID)
	if err != nil || !ok {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.paymentRepo.MarkCanceled(ctx, tx, intent.ID)
		if err != nil {
			return fmt.Errorf("mark payment canceled: %w", err)
		}
		if !changed || payment.OrderID == nil {
			return nil
		}

		return s.cancelOrderForPayment(ctx, tx, *payment.OrderID, model.OrderPaymentCanceled,
			"Payment was canceled")
	})
}

func (s *webhookServiceImpl) handleChargebackCreated(ctx context.Context, dispute *model.GatewayDispute) error {
	payment, ok, err := s.findByCharge(ctx, dispute.Charge)
	if err != nil || !ok {
		return err
	}
	if payment.OrderID == nil {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.orderRepo.Transition(ctx, tx, *payment.OrderID, repository.OrderTransition{
			From: []model.OrderStatus{model.OrderProcessing},
			To:   model.OrderDisputed,
			Note: "Chargeback initiated: " + dispute.ID,
		})
		return err
	})
}

func (s *webhookServiceImpl) handleChargeRefunded(ctx context.Context, charge *model.GatewayCharge) error {
	payment, ok, err := s.findByCharge(ctx, charge.ID)
	if err != nil || !ok {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.paymentRepo.MarkRefunded(ctx, tx, payment.ID, repository.RefundFields{
			RefundAmount: charge.AmountRefunded,
		})
		if err != nil {
			return fmt.Errorf("mark payment refunded: %w", err)
		}
		if !changed || payment.OrderID == nil {
			return nil
		}

		_, err = s.orderRepo.Transition(ctx, tx, *payment.OrderID, repository.OrderTransition{
			From:          []model.OrderStatus{model.OrderProcessing, model.OrderDelivered},
			To:            model.OrderRefunded,
			PaymentStatus: model.OrderPaymentRefunded,
			Note:          fmt.Sprintf("Payment refunded: ₹%.2f", float64(charge.AmountRefunded)/100),
		})
		return err
	})
}

// cancelOrderForPayment cancels the linked order and releases its stock.
func (s *webhookServiceImpl) cancelOrderForPayment(ctx context.Context, tx *gorm.DB, orderID string, paymentStatus model.OrderPaymentStatus, note string) error {
	changed, err := s.orderRepo.Transition(ctx, tx, orderID, repository.OrderTransition{
		From:          []model.OrderStatus{model.OrderProcessing},
		To:            model.OrderCancelled,
		PaymentStatus: paymentStatus,
		Note:          note,
	})
	if err != nil || !changed {
		return err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	return restoreStock(ctx, tx, s.productRepo, order.Items)
}

// findByIntent treats a missing local payment as a valid, expected
// outcome: the record may never have existed on this side.
func (s *webhookServiceImpl) findByIntent(ctx context.Context, intentID string) (*model.Payment, bool, error) {
	payment, err := s.paymentRepo.FindByIntentID(ctx, intentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("payment record not found for intent:", intentID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payment, true, nil
}

func (s *webhookServiceImpl) findByCharge(ctx context.Context, chargeID string) (*model.Payment, bool, error) {
	payment, err := s.paymentRepo.FindByChargeID(ctx, chargeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("payment record not found for charge:", chargeID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payment, true, nil
}

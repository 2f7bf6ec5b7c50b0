package service

import (
	"context"
	"errors"
	"fmt"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/client"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, userID string, req *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*model.Payment, error)
	ProcessRefund(ctx context.Context, req *dto.RefundRequest) (*dto.RefundResponse, error)

	GetPaymentByID(ctx context.Context, requesterID string, isAdmin bool, paymentID string) (*model.Payment, error)
	GetPaymentByIntentID(ctx context.Context, requesterID string, isAdmin bool, intentID string) (*model.Payment, error)
	GetUserPayments(ctx context.Context, userID, status string, page, limit int) (*dto.PaymentListResponse, error)
	GetAllPayments(ctx context.Context, userID, status string, page, limit int) (*dto.PaymentListResponse, error)
}

type paymentServiceImpl struct {
	db            *gorm.DB
	gatewayClient client.GatewayClient
	paymentRepo   repository.PaymentRepository
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
}

func NewPaymentService(
	db *gorm.DB,
	gatewayClient client.GatewayClient,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
) PaymentService {
	return &paymentServiceImpl{
		db:            db,
		gatewayClient: gatewayClient,
		paymentRepo:   paymentRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
	}
}

func (s *paymentServiceImpl) CreatePaymentIntent(ctx context.Context, userID string, req *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validationf("amount must be greater than 0")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, apperr.Validationf("user email is required for payment processing")
	}

	currency := req.Currency
	if currency == "" {
		currency = "inr"
	}

	// rupees to paise
	amountInPaise := decimal.NewFromFloat(req.Amount).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	metadata := map[string]string{
		"userId":  userID,
		"orderId": req.OrderID,
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	// remote intent first: a gateway failure must not leave an orphan
	// local record
	intent, err := s.gatewayClient.CreatePaymentIntent(ctx, client.CreateIntentParams{
		Amount:       amountInPaise,
		Currency:     currency,
		ReceiptEmail: user.Email,
		Metadata:     metadata,
	})
	if err != nil {
		return nil, apperr.Upstreamf("create payment intent: %v", err)
	}

	payment := &model.Payment{
		ID:              uuid.NewString(),
		UserID:          userID,
		GatewayIntentID: intent.ID,
		Amount:          amountInPaise,
		Currency:        currency,
		Status:          model.PaymentPending,
		ReceiptEmail:    user.Email,
	}
	if req.OrderID != "" {
		payment.OrderID = &req.OrderID
	}

	if err := s.paymentRepo.Create(ctx, s.db, payment); err != nil {
		return nil, fmt.Errorf("store payment in db: %w", err)
	}

	return &dto.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		PaymentID:       payment.ID,
		Amount:          req.Amount,
		Currency:        currency,
	}, nil
}

// ConfirmPayment is the synchronous counterpart of the succeeded webhook.
// Both paths race; the status-conditional update means whichever lands
// second is a no-op.
func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*model.Payment, error) {
	if req.PaymentIntentID == "" {
		return nil, apperr.Validationf("payment intent ID is required")
	}

	intent, err := s.gatewayClient.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, apperr.Upstreamf("retrieve payment intent: %v", err)
	}

	if intent.Status != "succeeded" {
		return nil, apperr.Validationf("payment not successful, status: %s", intent.Status)
	}

	payment, err := s.paymentRepo.FindByIntentID(ctx, req.PaymentIntentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("payment record not found")
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.paymentRepo.MarkSucceeded(ctx, tx, req.PaymentIntentID, intent.LatestCharge, req.OrderID)
		if err != nil {
			return err
		}
		if !changed {
			// the webhook got here first; nothing left to reconcile
			return nil
		}

		orderID := req.OrderID
		if orderID == "" && payment.OrderID != nil {
			orderID = *payment.OrderID
		}
		if orderID == "" {
			return nil
		}

		_, err = s.orderRepo.Transition(ctx, tx, orderID, repository.OrderTransition{
			From:             []model.OrderStatus{model.OrderProcessing},
			To:               model.OrderProcessing,
			PaymentStatus:    model.OrderPaymentPaid,
			Note:             "Payment confirmed",
			GatewayPaymentID: req.PaymentIntentID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.paymentRepo.FindByIntentID(ctx, req.PaymentIntentID)
}

func (s *paymentServiceImpl) ProcessRefund(ctx context.Context, req *dto.RefundRequest) (*dto.RefundResponse, error) {
	reason := req.Reason
	if reason == "" {
		reason = "Customer requested refund"
	}

	payment, err := s.paymentRepo.FindByID(ctx, req.PaymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("payment not found")
	}
	if err != nil {
		return nil, err
	}

	if payment.Status != model.PaymentSucceeded {
		return nil, apperr.Conflictf("only successful payments can be refunded")
	}

	refund, err := s.gatewayClient.CreateRefund(ctx, payment.GatewayIntentID, reason)
	if err != nil {
		return nil, apperr.Upstreamf("create refund: %v", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.paymentRepo.MarkRefunded(ctx, tx, payment.ID, repository.RefundFields{
			RefundID:     refund.ID,
			RefundAmount: refund.Amount,
			RefundReason: reason,
		})
		if err != nil {
			return err
		}
		if !changed {
			return apperr.Conflictf("payment was already refunded")
		}

		if payment.OrderID == nil {
			return nil
		}
		_, err = s.orderRepo.Transition(ctx, tx, *payment.OrderID, repository.OrderTransition{
			From:          []model.OrderStatus{model.OrderProcessing, model.OrderDelivered},
			To:            model.OrderRefunded,
			PaymentStatus: model.OrderPaymentRefunded,
			Note:          fmt.Sprintf("Payment refunded: ₹%.2f", float64(refund.Amount)/100),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.paymentRepo.FindByID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RefundResponse{
		RefundID:     refund.ID,
		RefundAmount: refund.Amount,
		Payment:      updated,
	}, nil
}

func (s *paymentServiceImpl) GetPaymentByID(ctx context.Context, requesterID string, isAdmin bool, paymentID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("payment not found")
	}
	if err != nil {
		return nil, err
	}

	return checkPaymentAccess(payment, requesterID, isAdmin)
}

func (s *paymentServiceImpl) GetPaymentByIntentID(ctx context.Context, requesterID string, isAdmin bool, intentID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByIntentID(ctx, intentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("payment not found")
	}
	if err != nil {
		return nil, err
	}

	return checkPaymentAccess(payment, requesterID, isAdmin)
}

func checkPaymentAccess(payment *model.Payment, requesterID string, isAdmin bool) (*model.Payment, error) {
	if payment.UserID != requesterID && !isAdmin {
		return nil, apperr.Forbiddenf("unauthorized to access this payment")
	}
	return payment, nil
}

func (s *paymentServiceImpl) GetUserPayments(ctx context.Context, userID, status string, page, limit int) (*dto.PaymentListResponse, error) {
	return s.listPayments(ctx, repository.PaymentQuery{
		UserID: userID,
		Status: status,
		Page:   normalizePage(page),
		Limit:  normalizeLimit(limit, 10),
	})
}

func (s *paymentServiceImpl) GetAllPayments(ctx context.Context, userID, status string, page, limit int) (*dto.PaymentListResponse, error) {
	return s.listPayments(ctx, repository.PaymentQuery{
		UserID: userID,
		Status: status,
		Page:   normalizePage(page),
		Limit:  normalizeLimit(limit, 20),
	})
}

func (s *paymentServiceImpl) listPayments(ctx context.Context, q repository.PaymentQuery) (*dto.PaymentListResponse, error) {
	payments, total, err := s.paymentRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentListResponse{
		Payments:   payments,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

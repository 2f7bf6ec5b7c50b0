package server

import (
	"errors"
	"log"
	"net/http"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/config"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/handler"
	appmiddleware "jansan-commerce/internal/middleware"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo       *echo.Echo
	jwtCfg     config.JWT
	gatewayCfg config.Gateway

	userHandler     *handler.UserHandler
	passwordHandler *handler.PasswordHandler
	productHandler  *handler.ProductHandler
	cartHandler     *handler.CartHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	webhookHandler  *handler.WebhookHandler
	chatHandler     *handler.ChatHandler
}

type Services struct {
	User     service.UserService
	Password service.PasswordService
	Product  service.ProductService
	Cart     service.CartService
	Order    service.OrderService
	Payment  service.PaymentService
	Webhook  service.WebhookService
	Chat     service.ChatService
}

func NewServer(cfg *config.Config, svcs Services) *Server {
	e := echo.New()

	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	s := &Server{
		echo:            e,
		jwtCfg:          cfg.JWT,
		gatewayCfg:      cfg.Gateway,
		userHandler:     handler.NewUserHandler(svcs.User),
		passwordHandler: handler.NewPasswordHandler(svcs.Password),
		productHandler:  handler.NewProductHandler(svcs.Product),
		cartHandler:     handler.NewCartHandler(svcs.Cart),
		orderHandler:    handler.NewOrderHandler(svcs.Order),
		paymentHandler:  handler.NewPaymentHandler(svcs.Payment),
		webhookHandler:  handler.NewWebhookHandler(svcs.Webhook),
		chatHandler:     handler.NewChatHandler(svcs.Chat),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	auth := appmiddleware.JWTAuth(s.jwtCfg)
	admin := appmiddleware.RequireRole("admin")

	// -------- auth / users --------
	api.POST("/auth/register", s.userHandler.Register)
	api.POST("/auth/login", s.userHandler.Login)
	api.POST("/auth/google-login", s.userHandler.GoogleLogin)
	api.POST("/auth/forgot-password", s.passwordHandler.ForgotPassword)
	api.POST("/auth/reset-password", s.passwordHandler.ResetPassword)

	users := api.Group("/users", auth)
	users.GET("/profile", s.userHandler.GetProfile)
	users.PUT("/profile", s.userHandler.UpdateProfile)
	users.GET("", s.userHandler.ListUsers, admin)
	users.DELETE("/:userId", s.userHandler.DeleteUser, admin)

	// -------- products --------
	api.GET("/products", s.productHandler.ListProducts)
	api.GET("/products/:productId", s.productHandler.GetProduct)
	api.POST("/products", s.productHandler.CreateProduct, auth, admin)
	api.PUT("/products/:productId", s.productHandler.UpdateProduct, auth, admin)
	api.DELETE("/products/:productId", s.productHandler.DeleteProduct, auth, admin)

	// -------- cart --------
	cart := api.Group("/cart", auth)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/add", s.cartHandler.AddToCart)
	cart.PUT("/items/:itemId", s.cartHandler.UpdateCartItem)
	cart.DELETE("/items/:itemId", s.cartHandler.RemoveCartItem)
	cart.DELETE("", s.cartHandler.ClearCart)

	// -------- orders --------
	orders := api.Group("/orders", auth)
	orders.POST("/create", s.orderHandler.CreateOrder)
	orders.GET("/my", s.orderHandler.GetMyOrders)
	orders.GET("/admin/orders", s.orderHandler.GetAllOrders, admin)
	orders.GET("/:orderId", s.orderHandler.GetOrder)
	orders.PUT("/:orderId/status", s.orderHandler.UpdateOrderStatus, admin)
	orders.DELETE("/:orderId/cancel", s.orderHandler.CancelOrder)

	// -------- payments --------
	// the frontend fetches the publishable key before any auth happens
	api.GET("/payment/gateway-config", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"publishableKey": s.gatewayCfg.PublishableKey})
	})

	payment := api.Group("/payment", auth)
	payment.POST("/create-payment-intent", s.paymentHandler.CreatePaymentIntent)
	payment.POST("/confirm", s.paymentHandler.ConfirmPayment)
	payment.GET("/my", s.paymentHandler.GetMyPayments)
	payment.POST("/refund", s.paymentHandler.ProcessRefund, admin)
	payment.GET("/admin/all", s.paymentHandler.GetAllPayments, admin)
	payment.GET("/admin/user/:userId", s.paymentHandler.GetUserPayments, admin)
	payment.GET("/by-intent/:id", s.paymentHandler.GetPaymentByIntent)
	payment.GET("/:paymentId", s.paymentHandler.GetPayment)

	// -------- gateway webhooks --------
	api.POST("/webhooks/payment-gateway", s.webhookHandler.PaymentGatewayWebhook)

	// -------- chat --------
	api.POST("/chat", s.chatHandler.Chat)
}

// errorHandler maps service errors onto the envelope every endpoint
// uses, keeping category-to-status mapping in one place.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := apperr.HTTPStatus(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[http] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		message = "internal server error"
	}

	if err := c.JSON(status, dto.Envelope{Success: false, Message: message}); err != nil {
		log.Printf("[http] write error response: %v", err)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

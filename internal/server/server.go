package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/handler"
	authmw "marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Services struct {
	User         service.UserService
	Catalog      service.CatalogService
	Order        service.OrderService
	Payment      service.PaymentService
	Coupon       service.CouponService
	Follow       service.FollowService
	Review       service.ReviewService
	RecentViewed service.RecentViewedService
	Newsletter   service.NewsletterService
}

type Server struct {
	echo                *echo.Echo
	log                 zerolog.Logger
	validator           *authmw.JWTValidator
	userHandler         *handler.UserHandler
	catalogHandler      *handler.CatalogHandler
	orderHandler        *handler.OrderHandler
	paymentHandler      *handler.PaymentHandler
	couponHandler       *handler.CouponHandler
	followHandler       *handler.FollowHandler
	reviewHandler       *handler.ReviewHandler
	recentViewedHandler *handler.RecentViewedHandler
	newsletterHandler   *handler.NewsletterHandler
}

func NewServer(cfg *config.Config, services Services, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:                e,
		log:                 log,
		validator:           authmw.NewJWTValidator(cfg.JWT.Secret),
		userHandler:         handler.NewUserHandler(services.User),
		catalogHandler:      handler.NewCatalogHandler(services.Catalog),
		orderHandler:        handler.NewOrderHandler(services.Order),
		paymentHandler:      handler.NewPaymentHandler(services.Payment, cfg.Site.ClientURL),
		couponHandler:       handler.NewCouponHandler(services.Coupon),
		followHandler:       handler.NewFollowHandler(services.Follow),
		reviewHandler:       handler.NewReviewHandler(services.Review),
		recentViewedHandler: handler.NewRecentViewedHandler(services.RecentViewed),
		newsletterHandler:   handler.NewNewsletterHandler(services.Newsletter),
	}

	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if cfg.HTTP.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.HTTP.RateLimit))))
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := func(roles ...model.UserRole) echo.MiddlewareFunc {
		return authmw.Auth(s.validator, roles...)
	}
	admins := auth(model.RoleAdmin, model.RoleSuperAdmin)
	vendor := auth(model.RoleVendor)
	customer := auth(model.RoleCustomer)

	// -------- users --------
	users := api.Group("/users")
	users.POST("/customers", s.userHandler.CreateCustomer)
	users.POST("/vendors", s.userHandler.CreateVendor)

	// -------- catalog --------
	api.POST("/categories/create", s.catalogHandler.CreateCategory, admins)
	api.GET("/categories", s.catalogHandler.GetCategories)
	api.POST("/shops/create", s.catalogHandler.CreateShop, vendor)
	api.GET("/shops", s.catalogHandler.GetShops, admins)
	api.POST("/products/create", s.catalogHandler.CreateProduct, vendor)
	api.GET("/products", s.catalogHandler.GetProducts)
	api.GET("/products/:id", s.catalogHandler.GetProduct)
	api.PATCH("/products/:id", s.catalogHandler.UpdateProduct, vendor)
	api.DELETE("/products/:id", s.catalogHandler.DeleteProduct, vendor)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.POST("/create", s.orderHandler.CreateOrder, customer)
	orders.PATCH("/change-status/:id", s.orderHandler.ChangeOrderStatus, vendor)
	orders.PATCH("/change-payment-status/:id", s.orderHandler.ChangePaymentStatus, vendor)
	orders.GET("/my-orders", s.orderHandler.GetMyOrders, customer)
	orders.GET("/shop-orders", s.orderHandler.GetShopOrders, vendor)
	orders.GET("", s.orderHandler.GetAllOrders, admins)
	orders.GET("/get-single-order/:id", s.orderHandler.GetSingleOrder, auth())
	orders.GET("/get-product-order/:id", s.orderHandler.GetProductOrders, customer)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("/create", s.paymentHandler.CreatePayment, customer)
	payments.GET("/:id", s.paymentHandler.GetSinglePayment, customer)

	// -------- gateway callbacks --------
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		payments.Add(method, "/success", s.paymentHandler.SuccessPayment)
		payments.Add(method, "/fail", s.paymentHandler.FailPayment)
		payments.Add(method, "/cancel", s.paymentHandler.CancelPayment)
	}

	// -------- coupons --------
	coupons := api.Group("/coupons")
	coupons.POST("/create", s.couponHandler.CreateCoupon, admins)
	coupons.POST("/apply-coupon", s.couponHandler.ApplyCoupon, customer)
	coupons.GET("", s.couponHandler.GetAllCoupons, admins)
	coupons.GET("/:id", s.couponHandler.GetCoupon, admins)
	coupons.PATCH("/:id", s.couponHandler.UpdateCoupon, admins)
	coupons.DELETE("/:id", s.couponHandler.DeleteCoupon, admins)

	// -------- shop follows --------
	follows := api.Group("/followed-shops")
	follows.GET("", s.followHandler.GetFollowedShops, customer)
	follows.GET("/followers/:shopId", s.followHandler.GetFollowers, auth())
	follows.POST("/follow", s.followHandler.FollowShop, customer)
	follows.DELETE("/unfollow", s.followHandler.UnfollowShop, customer)

	// -------- reviews --------
	reviews := api.Group("/reviews")
	reviews.GET("", s.reviewHandler.GetAllReviews)
	reviews.GET("/product/:id", s.reviewHandler.GetProductReviews)
	reviews.GET("/shop/:id", s.reviewHandler.GetShopReviews)
	reviews.POST("/create", s.reviewHandler.CreateReview, customer)
	reviews.PATCH("/:id", s.reviewHandler.UpdateReview, customer)
	reviews.DELETE("/:id", s.reviewHandler.DeleteReview, customer)

	// -------- recently viewed --------
	recent := api.Group("/recent-viewed")
	recent.GET("", s.recentViewedHandler.GetRecentViewed, customer)
	recent.POST("/create", s.recentViewedHandler.AddRecentViewed, customer)
	recent.DELETE("/:id", s.recentViewedHandler.RemoveRecentViewed, customer)

	// -------- newsletter --------
	newsletters := api.Group("/newsletters")
	newsletters.POST("/create", s.newsletterHandler.Subscribe)
	newsletters.GET("", s.newsletterHandler.GetSubscribers, admins)
}

// handleError renders every error returned by a handler or middleware as an ErrorResponse.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	appErr, ok := apperror.As(err)
	switch {
	case ok:
	case errors.As(err, &httpErr):
		appErr = apperror.Wrap(httpErr.Code, fmt.Sprint(httpErr.Message), httpErr.Internal)
	case errors.Is(err, gorm.ErrRecordNotFound):
		appErr = apperror.NotFound("Record not found")
	default:
		appErr = apperror.Internal(err)
	}

	code, message := appErr.Code, appErr.Message
	var details interface{}
	if appErr.Err != nil && code < http.StatusInternalServerError {
		details = appErr.Err.Error()
	}

	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, &dto.ErrorResponse{
			Success:      false,
			Message:      message,
			ErrorDetails: details,
		})
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to write error response")
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

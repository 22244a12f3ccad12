package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/client"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	mu       sync.Mutex
	requests []*client.InitiatePaymentRequest
	err      error
}

func (g *fakeGateway) Initiate(_ context.Context, req *client.InitiatePaymentRequest) (*client.InitiatePaymentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &client.InitiatePaymentResponse{
		RedirectURL: "https://sandbox.aamarpay.com/paynow.php?track=" + req.TransactionID,
	}, nil
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, dto.CallbackPayload) error {
	return apperror.Unauthorized("Invalid payment callback")
}

type repos struct {
	customer   repository.CustomerRepository
	vendor     repository.VendorRepository
	shop       repository.ShopRepository
	category   repository.CategoryRepository
	product    repository.ProductRepository
	order      repository.OrderRepository
	payment    repository.PaymentRepository
	coupon     repository.CouponRepository
	redemption repository.RedemptionRepository
	outbox     repository.OutboxRepository
	follow     repository.FollowRepository
	review     repository.ReviewRepository
	recent     repository.RecentViewedRepository
	newsletter repository.NewsletterRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		customer:   repository.NewCustomerRepository(db),
		vendor:     repository.NewVendorRepository(db),
		shop:       repository.NewShopRepository(db),
		category:   repository.NewCategoryRepository(db),
		product:    repository.NewProductRepository(db),
		order:      repository.NewOrderRepository(db),
		payment:    repository.NewPaymentRepository(db),
		coupon:     repository.NewCouponRepository(db),
		redemption: repository.NewRedemptionRepository(db),
		outbox:     repository.NewOutboxRepository(db),
		follow:     repository.NewFollowRepository(db),
		review:     repository.NewReviewRepository(db),
		recent:     repository.NewRecentViewedRepository(db),
		newsletter: repository.NewNewsletterRepository(db),
	}
}

type fixture struct {
	db          *gorm.DB
	repos       repos
	gateway     *fakeGateway
	orders      OrderService
	payments    PaymentService
	coupons     CouponService
	catalog     CatalogService
	users       UserService
	follows     FollowService
	reviews     ReviewService
	recent      RecentViewedService
	newsletters NewsletterService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	r := newRepos(db)
	gw := &fakeGateway{}

	return &fixture{
		db:          db,
		repos:       r,
		gateway:     gw,
		orders:      NewOrderService(db, r.customer, r.shop, r.product, r.order, r.outbox),
		payments:    NewPaymentService(db, gw, nil, "http://localhost:8080", r.customer, r.order, r.payment, r.outbox, zerolog.Nop()),
		coupons:     NewCouponService(db, r.customer, r.coupon, r.redemption, r.outbox),
		catalog:     NewCatalogService(r.category, r.vendor, r.shop, r.product, nil, zerolog.Nop()),
		users:       NewUserService(r.customer, r.vendor),
		follows:     NewFollowService(r.customer, r.shop, r.follow),
		reviews:     NewReviewService(r.customer, r.shop, r.product, r.order, r.review),
		recent:      NewRecentViewedService(r.customer, r.product, r.recent),
		newsletters: NewNewsletterService(r.newsletter),
	}
}

func customerPrincipal(email string) model.Principal {
	return model.Principal{Email: email, Role: model.RoleCustomer}
}

func vendorPrincipal(email string) model.Principal {
	return model.Principal{Email: email, Role: model.RoleVendor}
}

func requireAppError(t *testing.T, err error, code int, message string) {
	t.Helper()

	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %v", err)
	require.Equal(t, code, appErr.Code)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

var errGatewayDown = errors.New("connection refused")

package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/testutil"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func couponRequest(code string, start, end time.Time, limit int32) *dto.CreateCouponRequest {
	return &dto.CreateCouponRequest{
		Code:           code,
		DiscountAmount: decimal.NewFromInt(10),
		StartTime:      start,
		EndTime:        end,
		UsageLimit:     limit,
	}
}

func TestValidateCouponWindow_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	properties.Property("window is accepted iff it starts before it ends and has not fully passed", prop.ForAll(
		func(startOffset, endOffset int) bool {
			start := now.Add(time.Duration(startOffset) * time.Minute)
			end := now.Add(time.Duration(endOffset) * time.Minute)

			err := validateCouponWindow(start, end, now)

			bothPast := startOffset < 0 && endOffset <= 0
			ordered := startOffset < endOffset
			if !bothPast && ordered {
				return err == nil
			}

			appErr, ok := apperror.As(err)
			if !ok || appErr.Code != http.StatusBadRequest {
				return false
			}
			if bothPast {
				return appErr.Message == "Start time and end time cannot both be in the past"
			}
			return appErr.Message == "Start time must be before end time"
		},
		gen.IntRange(-600, 600),
		gen.IntRange(-600, 600),
	))

	properties.TestingRun(t)
}

func TestCreateCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	coupon, err := f.coupons.CreateCoupon(ctx, couponRequest("SAVE10", now, now.Add(24*time.Hour), 1))
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.Zero(t, coupon.UsedCount)

	_, err = f.coupons.CreateCoupon(ctx, couponRequest("SAVE10", now, now.Add(time.Hour), 1))
	requireAppError(t, err, http.StatusConflict, "Coupon already exists")

	_, err = f.coupons.CreateCoupon(ctx, couponRequest("PAST", now.Add(-2*time.Hour), now.Add(-time.Hour), 1))
	requireAppError(t, err, http.StatusBadRequest, "Start time and end time cannot both be in the past")

	_, err = f.coupons.CreateCoupon(ctx, couponRequest("BACKWARDS", now.Add(2*time.Hour), now.Add(time.Hour), 1))
	requireAppError(t, err, http.StatusBadRequest, "Start time must be before end time")

	assert.EqualValues(t, 1, countRows(t, f.db, &model.Coupon{}))
}

func TestUpdateCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	coupon := testutil.CreateCoupon(t, f.db, "SAVE10", 1, now, now.Add(time.Hour))
	testutil.CreateCoupon(t, f.db, "TAKEN", 1, now, now.Add(time.Hour))

	start, end := now.Add(3*time.Hour), now.Add(2*time.Hour)
	_, err := f.coupons.UpdateCoupon(ctx, coupon.ID, &dto.UpdateCouponRequest{StartTime: &start, EndTime: &end})
	requireAppError(t, err, http.StatusBadRequest, "Start time must be before end time")

	// a single time is merged with the stored other end before checking
	_, err = f.coupons.UpdateCoupon(ctx, coupon.ID, &dto.UpdateCouponRequest{StartTime: &start})
	requireAppError(t, err, http.StatusBadRequest, "Start time must be before end time")

	upcoming := testutil.CreateCoupon(t, f.db, "LATER", 1, now.Add(time.Hour), now.Add(2*time.Hour))
	earlyEnd := now.Add(30 * time.Minute)
	_, err = f.coupons.UpdateCoupon(ctx, upcoming.ID, &dto.UpdateCouponRequest{EndTime: &earlyEnd})
	requireAppError(t, err, http.StatusBadRequest, "Start time must be before end time")

	laterEnd := now.Add(5 * time.Hour)
	extended, err := f.coupons.UpdateCoupon(ctx, coupon.ID, &dto.UpdateCouponRequest{EndTime: &laterEnd})
	require.NoError(t, err)
	assert.WithinDuration(t, laterEnd, extended.EndTime, time.Second)

	_, err = f.coupons.UpdateCoupon(ctx, coupon.ID, &dto.UpdateCouponRequest{StartTime: &start})
	require.NoError(t, err)

	taken := "TAKEN"
	_, err = f.coupons.UpdateCoupon(ctx, coupon.ID, &dto.UpdateCouponRequest{Code: &taken})
	requireAppError(t, err, http.StatusConflict, "Coupon already exists")

	same := "SAVE10"
	limit := int32(5)
	updated, err := f.coupons.UpdateCoupon(ctx, coupon.ID, &dto.UpdateCouponRequest{Code: &same, UsageLimit: &limit})
	require.NoError(t, err)
	assert.EqualValues(t, 5, updated.UsageLimit)

	_, err = f.coupons.UpdateCoupon(ctx, "missing", &dto.UpdateCouponRequest{UsageLimit: &limit})
	requireAppError(t, err, http.StatusBadRequest, "Coupon does not exist")
}

func TestDeleteAndListCoupons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	first := testutil.CreateCoupon(t, f.db, "A", 1, now, now.Add(time.Hour))
	testutil.CreateCoupon(t, f.db, "B", 1, now, now.Add(time.Hour))

	result, err := f.coupons.GetAllCoupons(ctx, pagination.Options{SortBy: "code", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "B", result.Data[0].Code)

	require.NoError(t, f.coupons.DeleteCoupon(ctx, first.ID))

	err = f.coupons.DeleteCoupon(ctx, first.ID)
	requireAppError(t, err, http.StatusBadRequest, "Coupon does not exist")

	_, err = f.coupons.GetCoupon(ctx, first.ID)
	requireAppError(t, err, http.StatusNotFound, "Coupon not found")
}

func TestApplyCoupon_UsageLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	testutil.CreateCustomer(t, f.db, "Rahim", "rahim@example.com")
	testutil.CreateCustomer(t, f.db, "Karim", "karim@example.com")
	testutil.CreateCoupon(t, f.db, "TRIPLE", 3, now.Add(-time.Hour), now.Add(time.Hour))

	for i := 1; i <= 3; i++ {
		coupon, err := f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "TRIPLE")
		require.NoError(t, err)
		assert.EqualValues(t, i, coupon.UsedCount)
	}

	_, err := f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "TRIPLE")
	requireAppError(t, err, http.StatusBadRequest, "You cannot use the coupon more than 3 times")

	// the limit is per customer, usedCount is global
	coupon, err := f.coupons.ApplyCoupon(ctx, customerPrincipal("karim@example.com"), "TRIPLE")
	require.NoError(t, err)
	assert.EqualValues(t, 4, coupon.UsedCount)

	var redeemed int64
	require.NoError(t, f.db.Model(&model.OutboxEvent{}).Where("event_type = ?", model.EventCouponRedeemed).Count(&redeemed).Error)
	assert.EqualValues(t, 4, redeemed)
}

func TestApplyCoupon_Save10Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	testutil.CreateCustomer(t, f.db, "Rahim", "rahim@example.com")

	_, err := f.coupons.CreateCoupon(ctx, couponRequest("SAVE10", now, now.Add(24*time.Hour), 1))
	require.NoError(t, err)

	coupon, err := f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "SAVE10")
	require.NoError(t, err)
	assert.EqualValues(t, 1, coupon.UsedCount)

	_, err = f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "SAVE10")
	requireAppError(t, err, http.StatusBadRequest, "You cannot use the coupon more than 1 times")
}

func TestApplyCoupon_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	testutil.CreateCustomer(t, f.db, "Rahim", "rahim@example.com")
	testutil.CreateCoupon(t, f.db, "EXPIRED", 5, now.Add(-2*time.Hour), now.Add(-time.Hour))
	testutil.CreateCoupon(t, f.db, "UPCOMING", 5, now.Add(time.Hour), now.Add(2*time.Hour))

	_, err := f.coupons.ApplyCoupon(ctx, customerPrincipal("ghost@example.com"), "UPCOMING")
	requireAppError(t, err, http.StatusNotFound, "Customer not found")

	_, err = f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "EXPIRED")
	requireAppError(t, err, http.StatusBadRequest, "Invalid Coupon Code")

	_, err = f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "NOPE")
	requireAppError(t, err, http.StatusBadRequest, "Invalid Coupon Code")

	// the start time is not enforced when redeeming
	coupon, err := f.coupons.ApplyCoupon(ctx, customerPrincipal("rahim@example.com"), "UPCOMING")
	require.NoError(t, err)
	assert.EqualValues(t, 1, coupon.UsedCount)
}

func TestApplyCoupon_InterleavedRequestsCanExceedLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	testutil.CreateCustomer(t, f.db, "Rahim", "rahim@example.com")
	testutil.CreateCoupon(t, f.db, "ONCE", 1, now.Add(-time.Hour), now.Add(time.Hour))

	svc := f.coupons.(*couponServiceImpl)

	// both requests pass the limit check before either one redeems
	customerA, couponA, err := svc.checkRedemption(ctx, "rahim@example.com", "ONCE")
	require.NoError(t, err)
	customerB, couponB, err := svc.checkRedemption(ctx, "rahim@example.com", "ONCE")
	require.NoError(t, err)

	_, err = svc.redeem(ctx, customerA, couponA)
	require.NoError(t, err)
	updated, err := svc.redeem(ctx, customerB, couponB)
	require.NoError(t, err)

	assert.EqualValues(t, 2, updated.UsedCount)
	used, err := f.repos.redemption.Count(ctx, customerA.ID, couponA.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, used)
}

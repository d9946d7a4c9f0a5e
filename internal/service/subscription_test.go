package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timer2ticket.app/gateway/core/config"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/service"
)

var _ = Describe("SubscriptionChecker", func() {
	var (
		ctx         context.Context
		memberships *mockMembershipStore
		conn        *model.Connection
	)

	BeforeEach(func() {
		ctx = context.Background()
		memberships = &mockMembershipStore{}
		conn = &model.Connection{ID: "c1", UserID: "u1"}
	})

	membership := func(tier string, finishes *time.Time) func(context.Context, string) (*model.MembershipInfo, error) {
		return func(_ context.Context, userID string) (*model.MembershipInfo, error) {
			return &model.MembershipInfo{UserID: userID, CurrentMembership: &tier, CurrentMembershipFinishes: finishes}, nil
		}
	}

	It("allows everything in non-commercial builds", func() {
		memberships.getByUserIDFn = func(context.Context, string) (*model.MembershipInfo, error) {
			Fail("membership must not be looked up")
			return nil, nil
		}

		checker := service.NewSubscriptionChecker(memberships, config.SubscriptionConfig{WebhookMembership: "Senior"})
		Expect(checker.Allows(ctx, conn)).To(BeTrue())
	})

	Context("commercial builds", func() {
		var checker service.SubscriptionChecker

		BeforeEach(func() {
			checker = service.NewSubscriptionChecker(memberships, config.SubscriptionConfig{IsCommercial: true, WebhookMembership: "Senior"})
		})

		It("allows the webhook tier", func() {
			memberships.getByUserIDFn = membership("Senior", nil)
			Expect(checker.Allows(ctx, conn)).To(BeTrue())
		})

		It("rejects other tiers", func() {
			memberships.getByUserIDFn = membership("Junior", nil)
			Expect(checker.Allows(ctx, conn)).To(BeFalse())
		})

		It("rejects expired memberships", func() {
			yesterday := time.Now().Add(-24 * time.Hour)
			memberships.getByUserIDFn = membership("Senior", &yesterday)
			Expect(checker.Allows(ctx, conn)).To(BeFalse())
		})

		It("rejects owners without membership info", func() {
			Expect(checker.Allows(ctx, conn)).To(BeFalse())
		})

		It("returns lookup errors", func() {
			memberships.getByUserIDFn = func(context.Context, string) (*model.MembershipInfo, error) {
				return nil, errors.New("timeout")
			}
			_, err := checker.Allows(ctx, conn)
			Expect(err).To(HaveOccurred())
		})
	})
})

package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timer2ticket.app/gateway/internal/dispatch"
	"timer2ticket.app/gateway/internal/domain"
)

type mockCoreClient struct {
	postFn   func(ctx context.Context, payload dispatch.Payload) error
	payloads []dispatch.Payload
}

func (m *mockCoreClient) PostWebhook(ctx context.Context, payload dispatch.Payload) error {
	m.payloads = append(m.payloads, payload)
	if m.postFn != nil {
		return m.postFn(ctx, payload)
	}
	return nil
}

var _ = Describe("Dispatcher", func() {
	var (
		client     *mockCoreClient
		logs       *bytes.Buffer
		dispatcher *dispatch.Dispatcher
		event      domain.WebhookEvent
	)

	BeforeEach(func() {
		client = &mockCoreClient{}
		logs = &bytes.Buffer{}
		dispatcher = dispatch.NewDispatcher(client, slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
		event = domain.WebhookEvent{
			ObjectType:   domain.ObjectTypeIssue,
			EventKind:    domain.EventKindCreated,
			ExternalID:   "10001",
			ConnectionID: "c1",
			ServiceSlot:  domain.ServiceSlotFirst,
		}
	})

	It("posts exactly once", func() {
		Expect(dispatcher.Dispatch(context.Background(), event)).To(BeTrue())
		Expect(client.payloads).To(HaveLen(1))
		Expect(client.payloads[0].ExternalID).To(Equal("10001"))
	})

	It("logs failures at error level and does not retry", func() {
		client.postFn = func(context.Context, dispatch.Payload) error {
			return errors.New("connection reset")
		}

		Expect(dispatcher.Dispatch(context.Background(), event)).To(BeFalse())
		Expect(client.payloads).To(HaveLen(1))
		Expect(logs.String()).To(ContainSubstring("level=ERROR"))
		Expect(logs.String()).To(ContainSubstring("connection reset"))
	})
})

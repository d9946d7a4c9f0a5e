package webhook_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timer2ticket.app/gateway/internal/http/handler/webhook"
	"timer2ticket.app/gateway/internal/http/middleware"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/service"
)

type fakeGateway struct {
	submitted []service.Delivery
	// responded records whether the response was already written when Submit ran.
	responded []bool
	recorder  *httptest.ResponseRecorder
}

func (f *fakeGateway) Process(ctx context.Context, d service.Delivery) service.Outcome {
	return service.Outcome{}
}

func (f *fakeGateway) Submit(ctx context.Context, d service.Delivery) {
	f.submitted = append(f.submitted, d)
	f.responded = append(f.responded, f.recorder != nil && f.recorder.Flushed)
}

func (f *fakeGateway) Shutdown(ctx context.Context) error {
	return nil
}

var _ = Describe("Webhook handlers", func() {
	var (
		gateway *fakeGateway
		router  *gin.Engine
	)

	BeforeEach(func() {
		gateway = &fakeGateway{}
		router = gin.New()
		router.POST("/webhooks/jira/:connection_id", middleware.Delivery("jira"), webhook.NewJiraWebhookHandler(gateway).HandleEvent)
		router.POST("/webhooks/toggl_track/:connection_id", middleware.Delivery("toggl_track"), webhook.NewTogglTrackWebhookHandler(gateway).HandleEvent)
	})

	post := func(path string, body []byte) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		gateway.recorder = w
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	Describe("Jira", func() {
		It("acknowledges before submitting the delivery", func() {
			body := []byte(`{"webhookEvent":"jira:worklog_created"}`)
			w := post("/webhooks/jira/66f0a1b2c3", body)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(HaveKeyWithValue("status", "ok"))
			Expect(w.Header().Get("X-Delivery-Id")).ToNot(BeEmpty())

			Expect(gateway.submitted).To(HaveLen(1))
			Expect(gateway.responded).To(Equal([]bool{true}))
			d := gateway.submitted[0]
			Expect(d.Provider).To(Equal(model.ProviderJira))
			Expect(d.ConnectionID).To(Equal("66f0a1b2c3"))
			Expect(d.Body).To(Equal(body))
			Expect(d.ID).ToNot(BeZero())
			Expect(d.ReceivedAt).ToNot(BeZero())
		})

		It("acknowledges garbage too", func() {
			w := post("/webhooks/jira/66f0a1b2c3", []byte("not json"))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gateway.submitted).To(HaveLen(1))
		})

		It("acknowledges but drops an invalid connection id", func() {
			w := post("/webhooks/jira/bad%20id", []byte(`{}`))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gateway.submitted).To(BeEmpty())
		})
	})

	Describe("Toggl Track", func() {
		It("echoes the validation code of a ping without dispatching", func() {
			w := post("/webhooks/toggl_track/66f0a1b2c3", []byte(`{"payload":"ping","validation_code":"X"}`))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(Equal(map[string]any{"validation_code": "X"}))
			Expect(gateway.submitted).To(BeEmpty())
		})

		It("submits time entry events", func() {
			w := post("/webhooks/toggl_track/66f0a1b2c3", []byte(`{"metadata":{"action":"updated","time_entry_id":1},"payload":{"duration":60}}`))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(HaveKeyWithValue("status", "ok"))
			Expect(gateway.submitted).To(HaveLen(1))
			Expect(gateway.submitted[0].Provider).To(Equal(model.ProviderTogglTrack))
		})
	})
})

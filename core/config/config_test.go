package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timer2ticket.app/gateway/core/config"
)

var _ = Describe("Load", func() {
	setEnv := func(key, value string) {
		prev, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	BeforeEach(func() {
		setEnv("GATEWAY_ENV", "test")
	})

	It("requires the core base url", func() {
		setEnv("CORE_BASE_URL", "")

		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("CORE_BASE_URL")))
	})

	It("applies defaults", func() {
		setEnv("CORE_BASE_URL", "http://core:3000/api/")

		cfg, err := config.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Core.BaseURL).To(Equal("http://core:3000/api"))
		Expect(cfg.Core.Timeout).To(Equal(5 * time.Second))
		Expect(cfg.Webhook.AntiCycleWindow).To(Equal(time.Minute))
		Expect(cfg.Subscription.IsCommercial).To(BeFalse())
	})

	It("reads the anti-cycle window in milliseconds", func() {
		setEnv("CORE_BASE_URL", "http://core:3000/api")
		setEnv("ANTI_CYCLE_WINDOW_MS", "1500")

		cfg, err := config.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Webhook.AntiCycleWindow).To(Equal(1500 * time.Millisecond))
	})

	It("rejects a non-positive anti-cycle window", func() {
		setEnv("CORE_BASE_URL", "http://core:3000/api")
		setEnv("ANTI_CYCLE_WINDOW_MS", "0")

		_, err := config.Load()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("WebhookConfig", func() {
	It("builds provider callback urls", func() {
		cfg := config.WebhookConfig{CallbackBaseURL: "https://api.timer2ticket.com"}
		Expect(cfg.CallbackURL("toggl_track", "66f0a1")).To(Equal("https://api.timer2ticket.com/webhooks/toggl_track/66f0a1"))
	})
})

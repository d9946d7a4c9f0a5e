package issue_tracker_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/service/issue_tracker"
)

var _ = Describe("JiraIssueTrackerService", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		svc     issue_tracker.IssueTrackerService
		params  issue_tracker.FetchIssueParams
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, r *http.Request) {}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		DeferCleanup(server.Close)

		svc = issue_tracker.NewJiraIssueTrackerService(time.Second)
		params = issue_tracker.FetchIssueParams{
			Config: model.ServiceConfig{
				Domain:    server.URL,
				UserEmail: "jane@example.com",
				APIKey:    "token",
			},
			IssueID: "10001",
		}
	})

	It("fetches summary and project with basic auth", func() {
		var (
			gotPath, gotFields string
			gotUser, gotPass   string
			gotAuth            bool
		)
		handler = func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotFields = r.URL.Query().Get("fields")
			gotUser, gotPass, gotAuth = r.BasicAuth()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"10001","key":"T2T-7","fields":{"summary":"Fix login","project":{"id":"10000","key":"T2T"}}}`))
		}

		enrichment, err := svc.FetchIssue(context.Background(), params)
		Expect(err).ToNot(HaveOccurred())
		Expect(gotPath).To(Equal("/rest/api/3/issue/10001"))
		Expect(gotFields).To(Equal("summary,project"))
		Expect(gotAuth).To(BeTrue())
		Expect(gotUser).To(Equal("jane@example.com"))
		Expect(gotPass).To(Equal("token"))

		Expect(enrichment.IssueID).To(Equal("10001"))
		Expect(enrichment.IssueKey).To(Equal("T2T-7"))
		Expect(enrichment.IssueSummary).To(Equal("Fix login"))
		Expect(enrichment.ProjectID).To(Equal("10000"))
	})

	It("maps 404 to issue_tracker.ErrIssueNotFound", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}

		_, err := svc.FetchIssue(context.Background(), params)
		Expect(errors.Is(err, issue_tracker.ErrIssueNotFound)).To(BeTrue())
	})

	It("fails on other error statuses", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}

		_, err := svc.FetchIssue(context.Background(), params)
		Expect(err).To(MatchError(ContainSubstring("401")))
		Expect(errors.Is(err, issue_tracker.ErrIssueNotFound)).To(BeFalse())
	})

	It("requires a domain", func() {
		params.Config.Domain = ""
		_, err := svc.FetchIssue(context.Background(), params)
		Expect(err).To(HaveOccurred())
	})
})

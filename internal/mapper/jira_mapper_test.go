package mapper_test

import (
	"context"
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/mapper"
)

var _ = Describe("JiraMapper", func() {
	var (
		jiraMapper mapper.EventMapper
		ctx        context.Context
		receivedAt time.Time
	)

	BeforeEach(func() {
		jiraMapper = mapper.NewJiraEventMapper()
		ctx = context.Background()
		receivedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	})

	mapBody := func(body map[string]any) (*domain.ProviderEvent, error) {
		raw, err := json.Marshal(body)
		Expect(err).ToNot(HaveOccurred())
		return jiraMapper.Map(ctx, raw, receivedAt)
	}

	worklogBody := func() map[string]any {
		return map[string]any{
			"webhookEvent": "worklog_created",
			"timestamp":    int64(1704103200000),
			"worklog": map[string]any{
				"issueId":          10,
				"id":               20,
				"started":          "2024-01-01T10:00:00.000+0000",
				"timeSpentSeconds": 3600,
				"author":           map[string]any{"accountId": "acc-1"},
			},
		}
	}

	Describe("worklog events", func() {
		It("builds a composite external id", func() {
			event, err := mapBody(worklogBody())
			Expect(err).ToNot(HaveOccurred())
			Expect(event.ObjectType).To(Equal(domain.ObjectTypeWorklog))
			Expect(event.EventKind).To(Equal(domain.EventKindCreated))
			Expect(event.ExternalID).To(Equal("10_20"))
			Expect(event.IssueID).To(Equal("10"))
			Expect(event.ActorAccountID).To(Equal("acc-1"))
			Expect(event.OccurredAt).To(Equal(time.UnixMilli(1704103200000).UTC()))
		})

		It("accepts ids sent as strings", func() {
			body := worklogBody()
			wl := body["worklog"].(map[string]any)
			wl["issueId"] = "10010"
			wl["id"] = "30001"

			event, err := mapBody(body)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.ExternalID).To(Equal("10010_30001"))
		})

		It("understands the jira: prefix", func() {
			body := worklogBody()
			body["webhookEvent"] = "jira:worklog_deleted"

			event, err := mapBody(body)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.EventKind).To(Equal(domain.EventKindDeleted))
		})

		It("falls back to the receipt time without a timestamp", func() {
			body := worklogBody()
			delete(body, "timestamp")

			event, err := mapBody(body)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.OccurredAt).To(Equal(receivedAt))
		})

		DescribeTable("rejects worklogs missing a required field",
			func(field string) {
				body := worklogBody()
				delete(body["worklog"].(map[string]any), field)

				event, err := mapBody(body)
				Expect(err).To(MatchError(mapper.ErrMalformedPayload))
				Expect(event).To(BeNil())
			},
			Entry("issueId", "issueId"),
			Entry("id", "id"),
			Entry("started", "started"),
			Entry("timeSpentSeconds", "timeSpentSeconds"),
			Entry("author", "author"),
		)

		It("rejects a worklog with no time spent", func() {
			body := worklogBody()
			body["worklog"].(map[string]any)["timeSpentSeconds"] = 0

			event, err := mapBody(body)
			Expect(err).To(MatchError(mapper.ErrMalformedPayload))
			Expect(event).To(BeNil())
		})
	})

	Describe("issue events", func() {
		issueBody := func() map[string]any {
			return map[string]any{
				"webhookEvent": "jira:issue_updated",
				"timestamp":    int64(1704103200000),
				"user":         map[string]any{"accountId": "acc-2"},
				"issue": map[string]any{
					"id":  "10002",
					"key": "T2T-2",
					"fields": map[string]any{
						"summary": "Fix sync",
						"project": map[string]any{"id": "10000"},
					},
				},
			}
		}

		It("maps issue id and acting user", func() {
			event, err := mapBody(issueBody())
			Expect(err).ToNot(HaveOccurred())
			Expect(event.ObjectType).To(Equal(domain.ObjectTypeIssue))
			Expect(event.EventKind).To(Equal(domain.EventKindUpdated))
			Expect(event.ExternalID).To(Equal("10002"))
			Expect(event.ActorAccountID).To(Equal("acc-2"))
		})

		It("falls back to the reporter as acting user", func() {
			body := issueBody()
			delete(body, "user")
			fields := body["issue"].(map[string]any)["fields"].(map[string]any)
			fields["reporter"] = map[string]any{"accountId": "acc-reporter"}

			event, err := mapBody(body)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.ActorAccountID).To(Equal("acc-reporter"))
		})

		It("fails without any acting user", func() {
			body := issueBody()
			delete(body, "user")

			_, err := mapBody(body)
			Expect(err).To(MatchError(mapper.ErrMalformedPayload))
		})

		It("fails without a project id", func() {
			body := issueBody()
			fields := body["issue"].(map[string]any)["fields"].(map[string]any)
			delete(fields, "project")

			_, err := mapBody(body)
			Expect(err).To(MatchError(mapper.ErrMalformedPayload))
		})
	})

	Describe("project events", func() {
		It("maps project id and lead", func() {
			event, err := mapBody(map[string]any{
				"webhookEvent": "project_created",
				"project": map[string]any{
					"id":          10000,
					"key":         "T2T",
					"name":        "Timer2Ticket",
					"projectLead": map[string]any{"accountId": "acc-lead"},
				},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(event.ObjectType).To(Equal(domain.ObjectTypeProject))
			Expect(event.ExternalID).To(Equal("10000"))
			Expect(event.ActorAccountID).To(Equal("acc-lead"))
		})

		It("fails without a project name", func() {
			_, err := mapBody(map[string]any{
				"webhookEvent": "project_updated",
				"project": map[string]any{
					"id":          10000,
					"projectLead": map[string]any{"accountId": "acc-lead"},
				},
			})
			Expect(err).To(MatchError(mapper.ErrMalformedPayload))
		})
	})

	DescribeTable("rejects unknown webhook events",
		func(webhookEvent string) {
			body := worklogBody()
			body["webhookEvent"] = webhookEvent

			_, err := mapBody(body)
			Expect(err).To(MatchError(mapper.ErrMalformedPayload))
		},
		Entry("empty", ""),
		Entry("no underscore", "jira:worklog"),
		Entry("unknown object", "jira:comment_created"),
		Entry("unknown kind", "jira:issue_archived"),
	)

	It("rejects invalid json", func() {
		_, err := jiraMapper.Map(ctx, []byte("{not json"), receivedAt)
		Expect(err).To(MatchError(mapper.ErrMalformedPayload))
	})
})

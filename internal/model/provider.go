package model

// Provider is the webhook source as it appears in the route, e.g. /webhooks/jira/:connection_id.
type Provider string

const (
	ProviderJira       Provider = "jira"
	ProviderTogglTrack Provider = "toggl_track"
)

func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderJira, ProviderTogglTrack:
		return Provider(s), true
	}
	return "", false
}

// ServiceName is the tool name used for this provider on a connection.
func (p Provider) ServiceName() ServiceName {
	switch p {
	case ProviderJira:
		return ServiceNameJira
	case ProviderTogglTrack:
		return ServiceNameTogglTrack
	}
	return ""
}

package notifications

import (
	"net/url"
	"strings"
)

// Links builds the in-app paths attached to notifications.
// Each area of the application has its own prefix.
type Links struct {
	AdminPrefix  string
	CSPrefix     string
	ClientPrefix string
}

// DefaultLinks returns the standard /admin, /cs and /client prefixes.
func DefaultLinks() Links {
	return Links{
		AdminPrefix:  "/admin",
		CSPrefix:     "/cs",
		ClientPrefix: "/client",
	}
}

// ClientDelivery links a client user to a delivery page.
func (l Links) ClientDelivery(deliveryID string) string {
	return join(l.ClientPrefix, "deliveries", deliveryID)
}

// ClientDependency links a client user to the pending dependency of a delivery.
func (l Links) ClientDependency(deliveryID, dependencyID string) string {
	return withQuery(l.ClientDelivery(deliveryID), "dependency", dependencyID)
}

// ClientMeetings links a client user to the meetings page.
func (l Links) ClientMeetings() string {
	return join(l.ClientPrefix, "meetings")
}

// ClientSurvey links a client user to a survey form.
func (l Links) ClientSurvey(surveyID string) string {
	return join(l.ClientPrefix, "surveys", surveyID)
}

// ClientDiagnostic links a client user to a diagnostic.
func (l Links) ClientDiagnostic(diagnosticID string) string {
	return join(l.ClientPrefix, "diagnostics", diagnosticID)
}

// CSDelivery links a CS owner to a delivery of a company.
func (l Links) CSDelivery(companyID, deliveryID string) string {
	return join(l.CSPrefix, "companies", companyID, "deliveries", deliveryID)
}

// CSSurvey links a CS owner to survey results.
func (l Links) CSSurvey(companyID, surveyID string) string {
	return join(l.CSPrefix, "companies", companyID, "surveys", surveyID)
}

// CSDiagnostic links staff to a diagnostic analysis.
func (l Links) CSDiagnostic(companyID, diagnosticID string) string {
	return join(l.CSPrefix, "companies", companyID, "diagnostics", diagnosticID)
}

// CompanyComment links staff to a company-level comment. Admins get the
// admin area, every other role the CS area.
func (l Links) CompanyComment(role Role, companyID, commentID string) string {
	prefix := l.CSPrefix
	if role == RoleAdmin {
		prefix = l.AdminPrefix
	}
	return withQuery(join(prefix, "companies", companyID), "comment", commentID)
}

// join appends escaped segments to a prefix. The prefix itself may contain slashes.
func join(prefix string, segments ...string) string {
	var b strings.Builder
	if p := strings.Trim(prefix, "/"); p != "" {
		b.WriteByte('/')
		b.WriteString(p)
	}
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func withQuery(path, key, value string) string {
	if value == "" {
		return path
	}
	return path + "?" + url.Values{key: []string{value}}.Encode()
}

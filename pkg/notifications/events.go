package notifications

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// excerptLen bounds comment bodies quoted in notification messages.
const excerptLen = 140

// NotifyDependencyAdded tells the company's account owners that a delivery
// is waiting on information from them.
func (d *Dispatcher) NotifyDependencyAdded(ctx context.Context, dep Dependency) ([]Notification, error) {
	ids, err := d.accountOwnerIDs(ctx, dep.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeDependencyAdded), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDependencyAdded,
			Title:       "New pending item",
			Message:     fmt.Sprintf("%q was added to delivery %q and needs your input.", dep.Title, dep.DeliveryTitle),
			Link:        d.links.ClientDependency(dep.DeliveryID, dep.ID),
			RecipientID: id,
			DeliveryID:  dep.DeliveryID,
			CompanyID:   dep.CompanyID,
		}, nil
	})
}

// NotifyDependencyProvided tells the CS owner that the client supplied a pending item.
func (d *Dispatcher) NotifyDependencyProvided(ctx context.Context, dep Dependency, providedBy string) ([]Notification, error) {
	company, ids, err := d.csOwner(ctx, dep.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeDependencyProvided), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDependencyProvided,
			Title:       "Pending item provided",
			Message:     fmt.Sprintf("%s: %s provided %q for delivery %q.", company.Name, orSomeone(providedBy), dep.Title, dep.DeliveryTitle),
			Link:        d.links.CSDelivery(dep.CompanyID, dep.DeliveryID),
			RecipientID: id,
			DeliveryID:  dep.DeliveryID,
			CompanyID:   dep.CompanyID,
		}, nil
	})
}

// NotifyDependencyOverdue tells the account owners that a pending item passed its due date.
func (d *Dispatcher) NotifyDependencyOverdue(ctx context.Context, dep Dependency) ([]Notification, error) {
	ids, err := d.accountOwnerIDs(ctx, dep.CompanyID)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("%q for delivery %q is overdue.", dep.Title, dep.DeliveryTitle)
	if dep.DueDate != nil {
		msg = fmt.Sprintf("%q for delivery %q was due on %s.", dep.Title, dep.DeliveryTitle, dep.DueDate.Format("Jan 2, 2006"))
	}
	return d.fanout(ctx, string(TypeDependencyOverdue), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDependencyOverdue,
			Title:       "Pending item overdue",
			Message:     msg,
			Link:        d.links.ClientDependency(dep.DeliveryID, dep.ID),
			RecipientID: id,
			DeliveryID:  dep.DeliveryID,
			CompanyID:   dep.CompanyID,
		}, nil
	})
}

// NotifyDeliveryProgress tells the account owners about a progress change.
func (d *Dispatcher) NotifyDeliveryProgress(ctx context.Context, delivery Delivery) ([]Notification, error) {
	ids, err := d.accountOwnerIDs(ctx, delivery.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeDeliveryProgress), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDeliveryProgress,
			Title:       "Delivery progress updated",
			Message:     fmt.Sprintf("%q is now %d%% complete.", delivery.Title, delivery.Progress),
			Link:        d.links.ClientDelivery(delivery.ID),
			RecipientID: id,
			DeliveryID:  delivery.ID,
			CompanyID:   delivery.CompanyID,
		}, nil
	})
}

// NotifyDeliveryCompleted tells the account owners that a delivery is done.
func (d *Dispatcher) NotifyDeliveryCompleted(ctx context.Context, delivery Delivery) ([]Notification, error) {
	ids, err := d.accountOwnerIDs(ctx, delivery.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeDeliveryCompleted), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDeliveryCompleted,
			Title:       "Delivery completed",
			Message:     fmt.Sprintf("%q has been completed and is ready for your review.", delivery.Title),
			Link:        d.links.ClientDelivery(delivery.ID),
			RecipientID: id,
			DeliveryID:  delivery.ID,
			CompanyID:   delivery.CompanyID,
		}, nil
	})
}

// NotifyDeliveryApproved tells the CS owner that the client approved a delivery.
func (d *Dispatcher) NotifyDeliveryApproved(ctx context.Context, delivery Delivery, approvedBy string) ([]Notification, error) {
	company, ids, err := d.csOwner(ctx, delivery.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeDeliveryApproved), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDeliveryApproved,
			Title:       "Delivery approved",
			Message:     fmt.Sprintf("%s: %s approved %q.", company.Name, orSomeone(approvedBy), delivery.Title),
			Link:        d.links.CSDelivery(delivery.CompanyID, delivery.ID),
			RecipientID: id,
			DeliveryID:  delivery.ID,
			CompanyID:   delivery.CompanyID,
		}, nil
	})
}

// NotifyClientComment tells the CS owner about a client comment or change request on a delivery.
func (d *Dispatcher) NotifyClientComment(ctx context.Context, comment Comment) ([]Notification, error) {
	company, ids, err := d.csOwner(ctx, comment.CompanyID)
	if err != nil {
		return nil, err
	}
	title, verb := "New client comment", "commented on"
	if comment.ChangeRequest {
		title, verb = "Changes requested", "requested changes on"
	}
	return d.fanout(ctx, string(TypeClientComment), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeClientComment,
			Title:       title,
			Message:     fmt.Sprintf("%s: %s %s %q: %s", company.Name, orSomeone(comment.AuthorName), verb, comment.DeliveryTitle, excerpt(comment.Body)),
			Link:        d.links.CSDelivery(comment.CompanyID, comment.DeliveryID),
			RecipientID: id,
			SenderID:    comment.AuthorID,
			DeliveryID:  comment.DeliveryID,
			CompanyID:   comment.CompanyID,
		}, nil
	})
}

// NotifyCommentAnswered tells the account owners that the CS team replied on a delivery.
func (d *Dispatcher) NotifyCommentAnswered(ctx context.Context, reply Comment) ([]Notification, error) {
	ids, err := d.accountOwnerIDs(ctx, reply.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeCommentAnswered), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeCommentAnswered,
			Title:       "Your comment was answered",
			Message:     fmt.Sprintf("%s replied on %q: %s", orSomeone(reply.AuthorName), reply.DeliveryTitle, excerpt(reply.Body)),
			Link:        d.links.ClientDelivery(reply.DeliveryID),
			RecipientID: id,
			SenderID:    reply.AuthorID,
			DeliveryID:  reply.DeliveryID,
			CompanyID:   reply.CompanyID,
		}, nil
	})
}

// NotifyMentions notifies every user mentioned in a company-level comment.
// The link points to the admin area for admins and to the CS area otherwise.
func (d *Dispatcher) NotifyMentions(ctx context.Context, comment Comment) ([]Notification, error) {
	return d.fanout(ctx, string(TypeMention), comment.MentionedUserIDs, func(id string) (CreateInput, error) {
		recipient, err := d.directory.GetRecipient(ctx, id)
		if err != nil {
			return CreateInput{}, err
		}
		return CreateInput{
			Type:        TypeMention,
			Title:       "You were mentioned",
			Message:     fmt.Sprintf("%s mentioned you: %s", orSomeone(comment.AuthorName), excerpt(comment.Body)),
			Link:        d.links.CompanyComment(recipient.Role, comment.CompanyID, comment.ID),
			RecipientID: id,
			SenderID:    comment.AuthorID,
			CompanyID:   comment.CompanyID,
		}, nil
	})
}

// NotifyMeetingScheduled tells the account owners about a new meeting.
func (d *Dispatcher) NotifyMeetingScheduled(ctx context.Context, meeting Meeting) ([]Notification, error) {
	ids, err := d.accountOwnerIDs(ctx, meeting.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeMeetingScheduled), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeMeetingScheduled,
			Title:       "Meeting scheduled",
			Message:     fmt.Sprintf("%q is scheduled for %s.", meeting.Title, meeting.StartsAt.Format("Jan 2, 2006 at 15:04 MST")),
			Link:        d.links.ClientMeetings(),
			RecipientID: id,
			CompanyID:   meeting.CompanyID,
		}, nil
	})
}

// NotifySurveyPending asks the survey audience to answer it.
func (d *Dispatcher) NotifySurveyPending(ctx context.Context, survey Survey) ([]Notification, error) {
	ids, err := d.audienceIDs(ctx, survey.CompanyID, survey.Audience)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeSurveyPending), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeSurveyPending,
			Title:       "New survey available",
			Message:     fmt.Sprintf("Please take a moment to answer %q.", survey.Title),
			Link:        d.links.ClientSurvey(survey.ID),
			RecipientID: id,
			CompanyID:   survey.CompanyID,
		}, nil
	})
}

// NotifySurveyCompleted tells the CS owner a survey was answered and, when
// the score is under the low score threshold, raises a low score alert too.
func (d *Dispatcher) NotifySurveyCompleted(ctx context.Context, resp SurveyResponse) ([]Notification, error) {
	survey := resp.Survey
	company, ids, err := d.csOwner(ctx, survey.CompanyID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s: %s answered %q.", company.Name, orSomeone(resp.RespondentName), survey.Title)
	if resp.Score != nil {
		msg = fmt.Sprintf("%s: %s answered %q with a score of %.1f.", company.Name, orSomeone(resp.RespondentName), survey.Title, *resp.Score)
	}
	created, err := d.fanout(ctx, string(TypeSurveyCompleted), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeSurveyCompleted,
			Title:       "Survey answered",
			Message:     msg,
			Link:        d.links.CSSurvey(survey.CompanyID, survey.ID),
			RecipientID: id,
			CompanyID:   survey.CompanyID,
		}, nil
	})

	if resp.Score != nil && *resp.Score < d.lowScoreThreshold {
		alerts, alertErr := d.NotifyLowSurveyScore(ctx, resp)
		created = append(created, alerts...)
		err = errors.Join(err, alertErr)
	}
	return created, err
}

// NotifyLowSurveyScore alerts the CS owner about a survey score below the threshold.
func (d *Dispatcher) NotifyLowSurveyScore(ctx context.Context, resp SurveyResponse) ([]Notification, error) {
	if resp.Score == nil {
		return nil, fmt.Errorf("%w: low score alert without a score", ErrInvalidInput)
	}
	survey := resp.Survey
	company, ids, err := d.csOwner(ctx, survey.CompanyID)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeSurveyLowScore), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:  TypeSurveyLowScore,
			Title: "Low survey score",
			Message: fmt.Sprintf("%s: %s rated %q %.1f, below the %.1f threshold.",
				company.Name, orSomeone(resp.RespondentName), survey.Title, *resp.Score, d.lowScoreThreshold),
			Link:        d.links.CSSurvey(survey.CompanyID, survey.ID),
			RecipientID: id,
			CompanyID:   survey.CompanyID,
		}, nil
	})
}

// NotifyDiagnosticPending asks the diagnostic audience to complete it.
func (d *Dispatcher) NotifyDiagnosticPending(ctx context.Context, diag Diagnostic) ([]Notification, error) {
	ids, err := d.audienceIDs(ctx, diag.CompanyID, diag.Audience)
	if err != nil {
		return nil, err
	}
	return d.fanout(ctx, string(TypeDiagnosticPending), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeDiagnosticPending,
			Title:       "New diagnostic available",
			Message:     fmt.Sprintf("Please complete the diagnostic %q.", diag.Title),
			Link:        d.links.ClientDiagnostic(diag.ID),
			RecipientID: id,
			CompanyID:   diag.CompanyID,
		}, nil
	})
}

// NotifyDiagnosticCompleted tells the CS owner and every account owner that
// a diagnostic was completed and analysed.
func (d *Dispatcher) NotifyDiagnosticCompleted(ctx context.Context, diag Diagnostic) ([]Notification, error) {
	company, csIDs, err := d.csOwner(ctx, diag.CompanyID)
	if err != nil {
		return nil, err
	}
	ownerIDs, err := d.accountOwnerIDs(ctx, diag.CompanyID)
	if err != nil {
		return nil, err
	}

	csOwnerID := ""
	if len(csIDs) > 0 {
		csOwnerID = csIDs[0]
	}
	ids := slices.Concat(csIDs, ownerIDs)

	return d.fanout(ctx, string(TypeDiagnosticCompleted), ids, func(id string) (CreateInput, error) {
		in := CreateInput{
			Type:        TypeDiagnosticCompleted,
			Title:       "Diagnostic completed",
			Message:     fmt.Sprintf("%q was completed and its analysis is ready.", diag.Title),
			Link:        d.links.ClientDiagnostic(diag.ID),
			RecipientID: id,
			CompanyID:   diag.CompanyID,
		}
		if id == csOwnerID {
			in.Message = fmt.Sprintf("%s: %s", company.Name, in.Message)
			in.Link = d.links.CSDiagnostic(diag.CompanyID, diag.ID)
		}
		return in, nil
	})
}

func orSomeone(name string) string {
	if name == "" {
		return "Someone"
	}
	return name
}

func excerpt(body string) string {
	if utf8.RuneCountInString(body) <= excerptLen {
		return body
	}
	runes := []rune(body)
	return string(runes[:excerptLen-1]) + "…"
}

// Package email sends notification emails.
//
// EmailSender is the transport: NewPostmarkClient delivers through Postmark
// and NewDevSender writes messages to disk for local development.
// NotificationMailer sits on top of a sender, renders the notification
// template and turns relative in-app links into absolute URLs:
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	mailer, err := email.NewNotificationMailer(sender, "https://app.example.com")
//	if err != nil {
//	    return err
//	}
//	err = mailer.SendNotificationEmail(ctx, "ana@example.com", "Delivery completed",
//	    "The delivery \"Onboarding\" was completed.", "/client/deliveries/d-1", "Ana")
//
// Send failures wrap ErrFailedToSendEmail; invalid parameters wrap ErrInvalidParams.
package email

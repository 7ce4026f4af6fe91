// Package notifications turns customer-success events into per-user
// notifications and delivers them according to each user's preferences.
//
// # Flow
//
// Every event helper on Dispatcher resolves its recipients through a
// Directory, then calls Create once per recipient. Create always persists
// the notification first and only then attempts delivery:
//
//   - if the notification's category is muted by the recipient nothing is
//     delivered, the row still exists;
//   - with InApp enabled the notification is pushed to the LiveChannel;
//   - with Email enabled (and an address on file) it goes to the
//     EmailGateway, and the outcome is recorded as the notification's
//     EmailStatus.
//
// Delivery failures are logged and never returned. A failure to persist for
// one recipient does not stop the others: helpers return the notifications
// that were created together with a *FanoutError listing the failed
// recipients.
//
// # Categories
//
// Three preference switches mute groups of types:
//
//	deliveries  DELIVERY_COMPLETED, DELIVERY_APPROVED, CLIENT_COMMENT, COMMENT_ANSWERED
//	progress    DELIVERY_PROGRESS
//	deadlines   DEPENDENCY_ADDED, DEPENDENCY_PROVIDED, DEPENDENCY_OVERDUE
//
// Every other type is always eligible.
//
// # Usage
//
//	store := notifications.NewMemoryStorage()
//	d := notifications.NewDispatcher(store, store,
//	    notifications.WithLiveChannel(hub),
//	    notifications.WithEmailGateway(mailer),
//	)
//
//	created, err := d.NotifyDeliveryCompleted(ctx, notifications.Delivery{
//	    ID: "d-1", Title: "Onboarding", CompanyID: "acme",
//	})
//	if notifications.IsPartialFailure(err) {
//	    // some recipients were notified, see err for the rest
//	}
//
// Storage and Directory are implemented in memory by MemoryStorage, and by
// the pgstore and mongostore packages for PostgreSQL and MongoDB. The
// storagetest package holds the conformance suite they all pass.
package notifications

// Package logger builds the service's *slog.Logger and provides attribute
// helpers so that log keys stay consistent across packages.
//
// New takes functional options for format, level, output and static
// attributes. Context extractors registered with WithContextExtractors or
// WithContextValue add request-scoped values, such as the request ID, to
// every record logged with a context:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "notifyd"),
//	    logger.WithContextExtractors(requestIDFromContext),
//	)
//	log.LogAttrs(ctx, slog.LevelInfo, "Notification created",
//	    logger.NotificationID(n.ID),
//	    logger.RecipientID(n.RecipientID),
//	)
//
// Helpers that take optional values (UserID, CompanyID, RequestID, Error)
// return an empty slog.Attr for zero input, which slog skips.
package logger

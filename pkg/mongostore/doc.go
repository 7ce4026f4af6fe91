// Package mongostore is the MongoDB implementation of notifications.Storage
// and notifications.Directory. Users and companies live in their own
// collections next to notifications; preferences are embedded in the user
// document.
package mongostore

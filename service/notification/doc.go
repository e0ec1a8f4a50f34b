// Package notification keeps the append-only toast feed shown to users.
// Entries are listed newest first and the feed keeps at most Limit entries.
package notification

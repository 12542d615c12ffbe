// Package timezone provides timezone utilities for the application.
//
// The installation forms and the dashboard's calendar-day filter both
// interpret wall-clock times in the application timezone, so every
// time.Now(), Parse and Format in the service goes through this package.
//
//	now := timezone.Now()
//	day, err := timezone.Parse("2006-01-02", "2024-05-01")
//	formatted := timezone.Format(t, time.RFC3339)
//
// The timezone is configured via the APP_TIMEZONE environment variable and
// is initialized when the package is imported. Use standard IANA timezone
// database names ("UTC", "America/Bogota", "Europe/Madrid").
package timezone

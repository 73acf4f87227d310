// Package timezone pins every wall-clock computation of the studio to one
// IANA location, read from APP_TIMEZONE when the package is loaded.
//
// Booking dates, opening hours and dashboard day buckets are all expressed in
// this location, so callers should prefer Now, Today and Parse over the time
// package equivalents.
package timezone

// Package fields moves per-point attribute values between decoded point
// records and an attribute store.
//
// Loader reads standard fields, colours and extra fields from each record
// into store columns. Standard fields and colours are suppressed while they
// stay constant: a column is created only once a record differs from the
// first one, and is then backfilled with the first value so every column
// has one entry per point. Saver performs the inverse conversion with
// saturating casts into each record field's width.
package fields

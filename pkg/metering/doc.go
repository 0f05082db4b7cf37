// Package metering tracks how many emails an account has sent in the current
// UTC day. Counters live in Redis so every instance sees the same numbers;
// quota policy consumes them as point-in-time snapshots only.
package metering

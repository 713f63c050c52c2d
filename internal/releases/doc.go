// Package releases ranks and filters candidate replacement downloads and
// tracks the state of an interactive selection session.
package releases

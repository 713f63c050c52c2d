// Package probe turns media files into stream summaries, fronted by a
// persistent result cache keyed by file path and invalidated on size change.
package probe

// Package ffprobe invokes the ffprobe binary and reduces its stream report
// to the metadata checkarr cares about: codecs, resolution, bitrates, HDR
// classification and per-stream language tags.
package ffprobe

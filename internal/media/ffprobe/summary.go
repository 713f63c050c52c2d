package ffprobe

import (
	"strconv"
	"strings"
)

// HDR classification labels, in precedence order.
const (
	HDRDolbyVision = "DV"
	HDRGeneric     = "HDR"
	HDRNone        = "SDR"
)

// StreamSummary is the normalized stream metadata derived from one probe.
// Language lists preserve stream order and may contain duplicates; consumers
// that only care about presence must deduplicate themselves.
type StreamSummary struct {
	VideoCodec        string   `json:"video_codec"`
	VideoResolution   string   `json:"video_resolution"`
	VideoBitRate      int64    `json:"video_bit_rate"`
	HDR               string   `json:"hdr"`
	AudioCodec        string   `json:"audio_codec"`
	AudioBitRate      int64    `json:"audio_bit_rate"`
	AudioLanguages    []string `json:"audio_languages"`
	SubtitleLanguages []string `json:"subtitle_languages"`
}

// Empty reports whether the summary carries no stream information at all,
// which is how probe failures present themselves.
func (s StreamSummary) Empty() bool {
	return s.VideoCodec == "" && s.AudioCodec == "" &&
		len(s.AudioLanguages) == 0 && len(s.SubtitleLanguages) == 0
}

// Summarize reduces a probe result to the fields checkarr verifies and
// displays. Only the first video stream is classified; later video streams
// (cover art, secondary angles) are ignored.
func Summarize(result Result) StreamSummary {
	var summary StreamSummary

	for _, stream := range result.Streams {
		switch strings.ToLower(stream.CodecType) {
		case "video":
			if summary.VideoCodec != "" {
				continue
			}
			summary.VideoCodec = strings.ToUpper(stream.CodecName)
			if stream.Width > 0 && stream.Height > 0 {
				summary.VideoResolution = strconv.Itoa(stream.Width) + "x" + strconv.Itoa(stream.Height)
			}
			summary.VideoBitRate = stream.BitRateBits()
			summary.HDR = classifyHDR(stream)
		case "audio":
			if summary.AudioCodec == "" {
				summary.AudioCodec = strings.ToUpper(stream.CodecName)
				summary.AudioBitRate = stream.BitRateBits()
			}
			if lang := stream.Language(); lang != "" {
				summary.AudioLanguages = append(summary.AudioLanguages, lang)
			}
		case "subtitle":
			if lang := stream.Language(); lang != "" {
				summary.SubtitleLanguages = append(summary.SubtitleLanguages, lang)
			}
		}
	}

	// Container bitrate stands in when the video stream reports none
	// (common for mkv, where per-stream bitrates are often absent).
	if summary.VideoCodec != "" && summary.VideoBitRate == 0 {
		summary.VideoBitRate = result.Format.BitRateBits()
	}

	return summary
}

func classifyHDR(stream Stream) string {
	for _, side := range stream.SideDataList {
		switch side.SideDataType {
		case "DOVI configuration record", "Dolby Vision configuration":
			return HDRDolbyVision
		}
	}
	switch stream.ColorTransfer {
	case "smpte2084", "arib-std-b67":
		return HDRGeneric
	}
	switch stream.ColorSpace {
	case "bt2020nc", "bt2020c":
		return HDRGeneric
	}
	return HDRNone
}

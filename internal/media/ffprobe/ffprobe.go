package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index         int        `json:"index"`
	CodecName     string     `json:"codec_name"`
	CodecType     string     `json:"codec_type"`
	BitRate       string     `json:"bit_rate"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Channels      int        `json:"channels"`
	ColorTransfer string     `json:"color_transfer"`
	ColorSpace    string     `json:"color_space"`
	SideDataList  []SideData `json:"side_data_list"`
	Tags          Tags       `json:"tags"`
}

// SideData carries codec side-channel metadata such as Dolby Vision
// configuration records.
type SideData struct {
	SideDataType string `json:"side_data_type"`
}

// Tags holds the per-stream tag fields ffprobe surfaces.
type Tags struct {
	Language string `json:"language"`
	Title    string `json:"title"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response. The caller bounds execution time through ctx.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-print_format", "json", "-show_streams", "-show_format", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Language returns the stream's language tag lowercased, or "" when untagged.
func (s Stream) Language() string {
	return strings.ToLower(strings.TrimSpace(s.Tags.Language))
}

// BitRateBits returns the stream bitrate in bits per second, or 0 when absent.
func (s Stream) BitRateBits() int64 {
	return parseBitRate(s.BitRate)
}

// BitRateBits returns the container bitrate in bits per second, or 0 when absent.
func (f Format) BitRateBits() int64 {
	return parseBitRate(f.BitRate)
}

func parseBitRate(value string) int64 {
	parsed := parseFloat(value)
	if math.IsNaN(parsed) || parsed <= 0 {
		return 0
	}
	return int64(parsed)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

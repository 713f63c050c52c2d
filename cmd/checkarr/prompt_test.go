package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"checkarr/internal/arr"
	"checkarr/internal/media/ffprobe"
	"checkarr/internal/policy"
	"checkarr/internal/releases"
	"checkarr/internal/scan"
)

func promptRequest() scan.PickRequest {
	return scan.PickRequest{
		Instance: "sonarr",
		Entity:   arr.Entity{ID: 1, Title: "Show"},
		File:     arr.FileRecord{ID: 100, Path: "/tv/show/s01e01.mkv", SizeBytes: 2 << 30},
		Summary: ffprobe.StreamSummary{
			VideoCodec:      "H264",
			VideoResolution: "1920x1080",
			HDR:             "SDR",
			AudioLanguages:  []string{"jpn"},
		},
		Decision: policy.Decision{NeedsReacquisition: true},
		Releases: []arr.Release{
			{GUID: "g-web", IndexerID: 1, Indexer: "alpha", Title: "Show.S01E01.WEB.x264", SizeBytes: 1 << 30,
				Quality: arr.ReleaseQuality{Quality: arr.QualityTier{ID: 5, Name: "WEBDL-1080p"}}},
			{GUID: "g-bluray", IndexerID: 2, Indexer: "beta", Title: "Show.S01E01.BluRay.x265", SizeBytes: 3 << 30,
				Quality: arr.ReleaseQuality{Quality: arr.QualityTier{ID: 8, Name: "Bluray-1080p"}}},
		},
	}
}

func TestTerminalPickerSelectsRankedRelease(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader("1\n"), &out, "", nil)

	result, err := picker.Pick(context.Background(), promptRequest())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if result.Resolution != releases.ResolutionSelected {
		t.Fatalf("resolution %v", result.Resolution)
	}
	// Candidates are ranked, so 1 is the bluray despite input order.
	if result.Release.GUID != "g-bluray" {
		t.Fatalf("selected %q", result.Release.GUID)
	}
}

func TestTerminalPickerFilterThenSelect(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader("s web\n1\n"), &out, "", nil)

	result, err := picker.Pick(context.Background(), promptRequest())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if result.Release.GUID != "g-web" {
		t.Fatalf("filter did not narrow the view, selected %q", result.Release.GUID)
	}
	requireContains(t, out.String(), "Showing 1 of 2 releases")
}

func TestTerminalPickerSkipAndKeep(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader("0\n"), &out, "", nil)
	result, err := picker.Pick(context.Background(), promptRequest())
	if err != nil || result.Resolution != releases.ResolutionSkipped {
		t.Fatalf("skip: %v %v", result.Resolution, err)
	}

	picker = newTerminalPicker(strings.NewReader("-1\n"), &out, "", nil)
	result, err = picker.Pick(context.Background(), promptRequest())
	if err != nil || result.Resolution != releases.ResolutionKeptCurrent {
		t.Fatalf("keep: %v %v", result.Resolution, err)
	}
}

func TestTerminalPickerEOFKeepsCurrent(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader(""), &out, "", nil)
	result, err := picker.Pick(context.Background(), promptRequest())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if result.Resolution != releases.ResolutionKeptCurrent {
		t.Fatalf("EOF must keep the current file, got %v", result.Resolution)
	}
}

func TestTerminalPickerRejectsGarbageThenRecovers(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader("banana\n99\n-1\n"), &out, "", nil)
	result, err := picker.Pick(context.Background(), promptRequest())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if result.Resolution != releases.ResolutionKeptCurrent {
		t.Fatalf("resolution %v", result.Resolution)
	}
	requireContains(t, out.String(), "Did not understand")
	requireContains(t, out.String(), "out of range")
}

func TestTerminalPickerRendersLanguageNames(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader("-1\n"), &out, "", []string{"eng", "en", "english"})

	if _, err := picker.Pick(context.Background(), promptRequest()); err != nil {
		t.Fatalf("pick: %v", err)
	}
	// The audio track is tagged jpn; the policy accepts English.
	requireContains(t, out.String(), "Japanese (jpn)")
	requireContains(t, out.String(), "Accepted")
	requireContains(t, out.String(), "English")
}

func TestTerminalPickerHighlightsMissingSubs(t *testing.T) {
	var out bytes.Buffer
	picker := newTerminalPicker(strings.NewReader("-1\n"), &out, "** MISSING **", nil)
	req := promptRequest()
	req.Decision.HasRequiredSubs = false

	if _, err := picker.Pick(context.Background(), req); err != nil {
		t.Fatalf("pick: %v", err)
	}
	requireContains(t, out.String(), "** MISSING **")
}

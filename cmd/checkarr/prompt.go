package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"checkarr/internal/language"
	"checkarr/internal/releases"
	"checkarr/internal/scan"
)

// terminalPicker walks a human through one flagged file at a time. It owns
// rendering and line parsing; every verdict is carried by the session.
type terminalPicker struct {
	scanner   *bufio.Scanner
	out       io.Writer
	highlight string
	// accepted is the configured language requirement rendered for humans,
	// e.g. "English" instead of "eng, en, english".
	accepted string
}

func newTerminalPicker(in io.Reader, out io.Writer, highlight string, codes []string) *terminalPicker {
	return &terminalPicker{
		scanner:   bufio.NewScanner(in),
		out:       out,
		highlight: highlight,
		accepted:  language.DescribeCodes(codes),
	}
}

func (p *terminalPicker) Pick(ctx context.Context, req scan.PickRequest) (scan.PickResult, error) {
	p.printFile(req)

	session := releases.NewSession(req.Releases)
	p.printReleases(session)

	for {
		if err := ctx.Err(); err != nil {
			return scan.PickResult{Resolution: releases.ResolutionKeptCurrent}, err
		}
		fmt.Fprintf(p.out, "\nPick a release (1-%d), 0 = never ask again, -1 = keep current, 's text' / 'q quality' / 'i indexer' to filter, 'c' to clear: ",
			len(session.Visible()))
		if !p.scanner.Scan() {
			// EOF or read error: leave the file alone.
			return scan.PickResult{Resolution: releases.ResolutionKeptCurrent}, p.scanner.Err()
		}
		line := strings.TrimSpace(p.scanner.Text())

		switch {
		case line == "":
			continue
		case line == "c":
			session.ClearFilter()
			p.printReleases(session)
			continue
		case strings.HasPrefix(line, "s "):
			session.SetFilter(releases.Filter{Text: strings.TrimSpace(line[2:])})
			p.printReleases(session)
			continue
		case strings.HasPrefix(line, "q "):
			session.SetFilter(releases.Filter{Quality: strings.TrimSpace(line[2:])})
			p.printReleases(session)
			continue
		case strings.HasPrefix(line, "i "):
			session.SetFilter(releases.Filter{Indexer: strings.TrimSpace(line[2:])})
			p.printReleases(session)
			continue
		}

		index, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(p.out, "Did not understand %q.\n", line)
			continue
		}
		resolution, err := session.Choose(index)
		if err != nil {
			fmt.Fprintln(p.out, err.Error())
			continue
		}
		result := scan.PickResult{Resolution: resolution}
		if resolution == releases.ResolutionSelected {
			result.Release = session.Selected()
		}
		return result, nil
	}
}

func (p *terminalPicker) printFile(req scan.PickRequest) {
	fmt.Fprintf(p.out, "\n%s / %s needs attention\n", req.Instance, req.Entity.Title)
	fmt.Fprintf(p.out, "  %s\n", req.File.Path)

	audio := describeLanguages(req.Summary.AudioLanguages)
	subs := describeLanguages(req.Summary.SubtitleLanguages)
	if !req.Decision.HasRequiredSubs && p.highlight != "" {
		subs += " " + p.highlight
	}
	rows := [][]string{
		{"Video", strings.TrimSpace(req.Summary.VideoCodec + " " + req.Summary.VideoResolution + " " + req.Summary.HDR)},
		{"Audio", fmt.Sprintf("%s (required: %s)", audio, yesNo(req.Decision.HasRequiredAudio))},
		{"Subtitles", fmt.Sprintf("%s (required: %s)", subs, yesNo(req.Decision.HasRequiredSubs))},
		{"Size", formatSize(req.File.SizeBytes)},
	}
	if p.accepted != "" {
		rows = append(rows, []string{"Accepted", p.accepted})
	}
	fmt.Fprintln(p.out, renderTable([]string{"Stream", "Details"}, rows))
}

func (p *terminalPicker) printReleases(session *releases.Session) {
	visible := session.Visible()
	if len(visible) == 0 {
		if session.Filtered() {
			fmt.Fprintln(p.out, "No releases match the filter ('c' clears it).")
		} else {
			fmt.Fprintln(p.out, "No replacement releases were found.")
		}
		return
	}
	if session.Filtered() {
		fmt.Fprintf(p.out, "Showing %d of %d releases.\n", len(visible), session.Total())
	}

	rows := make([][]string, 0, len(visible))
	for i, release := range visible {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			release.Title,
			release.QualityName(),
			formatSize(release.SizeBytes),
			formatAge(release.AgeDays),
			release.Indexer,
		})
	}
	fmt.Fprintln(p.out, renderTable(
		[]string{"#", "Release", "Quality", "Size", "Age", "Indexer"},
		rows, 0, 3, 4))
}

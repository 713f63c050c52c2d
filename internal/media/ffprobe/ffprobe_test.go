package ffprobe

import (
	"encoding/json"
	"testing"
)

func TestResultDecodesFFprobeDocument(t *testing.T) {
	payload := `{
  "streams": [
    {
      "index": 0,
      "codec_name": "hevc",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "color_transfer": "smpte2084",
      "color_space": "bt2020nc",
      "side_data_list": [{"side_data_type": "DOVI configuration record"}]
    },
    {
      "index": 1,
      "codec_name": "ac3",
      "codec_type": "audio",
      "bit_rate": "640000",
      "channels": 6,
      "tags": {"language": "eng", "title": "Surround"}
    }
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 2, "bit_rate": "9000000"}
}`

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result.Streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(result.Streams))
	}
	video := result.Streams[0]
	if video.ColorTransfer != "smpte2084" || video.ColorSpace != "bt2020nc" {
		t.Fatalf("color fields not decoded: %+v", video)
	}
	if len(video.SideDataList) != 1 || video.SideDataList[0].SideDataType != "DOVI configuration record" {
		t.Fatalf("side data not decoded: %+v", video.SideDataList)
	}
	audio := result.Streams[1]
	if audio.Language() != "eng" {
		t.Fatalf("language tag not decoded: %+v", audio.Tags)
	}
	if audio.BitRateBits() != 640000 {
		t.Fatalf("unexpected audio bitrate %d", audio.BitRateBits())
	}
	if result.Format.BitRateBits() != 9000000 {
		t.Fatalf("unexpected container bitrate %d", result.Format.BitRateBits())
	}
}

func TestBitRateParsingHandlesJunk(t *testing.T) {
	if got := (Stream{BitRate: "garbage"}).BitRateBits(); got != 0 {
		t.Fatalf("expected 0 for junk, got %d", got)
	}
	if got := (Stream{BitRate: "-5"}).BitRateBits(); got != 0 {
		t.Fatalf("expected 0 for negative, got %d", got)
	}
	if got := (Stream{}).BitRateBits(); got != 0 {
		t.Fatalf("expected 0 for empty, got %d", got)
	}
}

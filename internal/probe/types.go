package probe

import "strconv"

// MediaInfo is what the pipeline needs to know about one input.
type MediaInfo struct {
	Width      int
	Height     int
	FPS        float64
	Frames     int   // 0 when unknown.
	DurationMs int64 // 0 when unknown.
	Codec      string
	FormatName string
}

// Resolution returns "WxH", or "unknown" when either side is missing.
func (m *MediaInfo) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(m.Width) + "x" + strconv.Itoa(m.Height)
}

// DeriveFrames fills Frames from fps*duration when only the duration is known.
func (m *MediaInfo) DeriveFrames() {
	if m.Frames > 0 || m.DurationMs <= 0 || m.FPS <= 0 {
		return
	}
	m.Frames = max(1, int(m.FPS*float64(m.DurationMs)/1000))
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	RFrameRate   string         `json:"r_frame_rate"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	NbFrames     string         `json:"nb_frames"`
	DurationTS   int64          `json:"duration_ts"`
	TimeBase     string         `json:"time_base"`
	Duration     string         `json:"duration"`
	Disposition  map[string]int `json:"disposition"`
}

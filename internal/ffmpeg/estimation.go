package ffmpeg

// APNG size budget and heuristic constants.
const (
	APNGBudgetBytes   = 2 * 1024 * 1024
	apngBytesPerPixel = 0.5
	apngMinFPS        = 6.0
	apngFPSStep       = 0.8
	apngMinFrames     = 30
)

// APNGPlan is the outcome of the APNG size heuristic.
type APNGPlan struct {
	FPS       float64 // Effective frame rate.
	MaxFrames int     // Frame cap for -frames:v; 0 means no cap.
	Estimated int64   // Estimated output bytes after adjustment; 0 when unknown.
}

// Adjusted reports whether the plan differs from the requested frame rate.
func (p APNGPlan) Adjusted(requested float64) bool {
	return p.FPS != requested || p.MaxFrames > 0
}

// EstimateAPNG keeps the estimated APNG size (width*height*0.5 bytes per
// frame) under the 2 MiB budget. It first lowers the frame rate by 0.8x per
// step down to 6 fps, then caps the frame count, never below 30 frames. An
// unknown frame estimate (<= 0) leaves the request untouched.
func EstimateAPNG(width, height int, fps float64, frameEstimate int) APNGPlan {
	if frameEstimate <= 0 {
		return APNGPlan{FPS: fps}
	}
	perFrame := float64(width) * float64(height) * apngBytesPerPixel
	size := perFrame * float64(frameEstimate)
	if size <= APNGBudgetBytes {
		return APNGPlan{FPS: fps, Estimated: int64(size)}
	}

	adjustedFPS := fps
	frames := frameEstimate
	for adjustedFPS > apngMinFPS && size > APNGBudgetBytes {
		adjustedFPS = max(apngMinFPS, adjustedFPS*apngFPSStep)
		frames = int(float64(frameEstimate) * (adjustedFPS / fps))
		size = perFrame * float64(frames)
	}
	if size <= APNGBudgetBytes {
		return APNGPlan{FPS: adjustedFPS, Estimated: int64(size)}
	}

	plan := APNGPlan{FPS: adjustedFPS, Estimated: int64(size)}
	if maxFrames := int(APNGBudgetBytes / perFrame); maxFrames < frames {
		plan.MaxFrames = max(apngMinFrames, maxFrames)
		plan.Estimated = int64(perFrame * float64(plan.MaxFrames))
	}
	return plan
}

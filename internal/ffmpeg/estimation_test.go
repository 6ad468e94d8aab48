package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateAPNG(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		fps           float64
		frames        int
		wantFPS       float64
		wantMaxFrames int
	}{
		{"unknown frames untouched", 320, 180, 30, 0, 30, 0},
		{"under budget untouched", 320, 180, 12, 60, 12, 0},
		{"fps reduction suffices", 320, 180, 12, 100, 7.68, 0},
		{"fps floor then frame cap", 320, 180, 30, 600, 6, 72},
		{"frame cap floored at 30", 1920, 1080, 12, 600, 6, 30},
		{"already at floor", 320, 180, 6, 600, 6, 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := EstimateAPNG(tt.width, tt.height, tt.fps, tt.frames)
			assert.InDelta(t, tt.wantFPS, plan.FPS, 1e-9)
			assert.Equal(t, tt.wantMaxFrames, plan.MaxFrames)
		})
	}
}

func TestEstimateAPNG_StaysUnderBudget(t *testing.T) {
	plan := EstimateAPNG(320, 180, 30, 600)
	a := assert.New(t)
	a.True(plan.Adjusted(30))
	a.GreaterOrEqual(plan.MaxFrames, 30)
	a.LessOrEqual(320*180/2*plan.MaxFrames, APNGBudgetBytes)
	a.LessOrEqual(plan.Estimated, int64(APNGBudgetBytes))
}

func TestAPNGPlan_Adjusted(t *testing.T) {
	assert.False(t, APNGPlan{FPS: 12}.Adjusted(12))
	assert.True(t, APNGPlan{FPS: 9.6}.Adjusted(12))
	assert.True(t, APNGPlan{FPS: 12, MaxFrames: 40}.Adjusted(12))
}

package compression

import "testing"

func TestEstimate(t *testing.T) {
	original := int64(1 << 20)

	got := Estimate(original, 85, 150)
	if got <= 0 || got >= original {
		t.Errorf("Expected estimate within (0, %d), got %d", original, got)
	}

	// Quality dominates the prediction
	if low, high := Estimate(original, 40, 150), Estimate(original, 85, 150); low >= high {
		t.Errorf("Expected lower quality to predict a smaller size, got %d >= %d", low, high)
	}

	// Resolution stops mattering past 300 DPI
	if a, b := Estimate(original, 80, 300), Estimate(original, 80, 600); a != b {
		t.Errorf("Expected identical estimates above 300 DPI, got %d and %d", a, b)
	}
}

func TestEstimate_Floor(t *testing.T) {
	// Quality 10 at 72 DPI computes well under the floor, so 5% applies.
	if got := Estimate(10000, 10, 72); got != 500 {
		t.Errorf("Expected floor estimate 500, got %d", got)
	}
}

func TestEstimatePreset(t *testing.T) {
	original := int64(1 << 20)

	if got, want := EstimatePreset(original, "good_enough"), Estimate(original, 85, 150); got != want {
		t.Errorf("Expected %d, got %d", want, got)
	}

	if got, want := EstimatePreset(original, "bogus"), EstimatePreset(original, DefaultPreset); got != want {
		t.Errorf("Expected unknown preset to fall back to the default, got %d, want %d", got, want)
	}
}

package compression

import "context"

// Quality search bounds for target-size mode.
const (
	targetQualityFloor = 5
	targetQualityCeil  = 95
	maxTargetProbes    = 6
)

// compressTarget binary-searches quality for the largest value whose output
// fits the byte budget. Each probe is a full compression with grayscale
// forced on. The search runs at most maxTargetProbes probes; when none fits,
// one last floor-quality compression is returned with MetTarget false, which
// is a best-effort outcome rather than an error.
func (e *Engine) compressTarget(ctx context.Context, data []byte, req Request) (*Result, error) {
	probe := req
	probe.Mode = ModeCustom
	probe.Grayscale = true
	probe.OnProgress = monotonicProgress(req.OnProgress)

	var best *Result
	lo, hi := targetQualityFloor, targetQualityCeil
	for i := 0; i < maxTargetProbes && lo <= hi; i++ {
		mid := (lo + hi + 1) / 2
		probe.Quality = mid

		res, err := e.compressOnce(ctx, data, probe)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("target probe",
			"quality", mid,
			"size", res.CompressedSize,
			"target", req.TargetSize)

		if res.CompressedSize <= req.TargetSize {
			best = res
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best != nil {
		best.MetTarget = true
		return best, nil
	}

	probe.Quality = targetQualityFloor
	res, err := e.compressOnce(ctx, data, probe)
	if err != nil {
		return nil, err
	}
	res.MetTarget = false
	return res, nil
}

// monotonicProgress wraps a progress callback so that repeated passes over
// the same document never report backwards.
func monotonicProgress(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return nil
	}
	high := 0
	return func(current, total int) {
		if current < high {
			return
		}
		high = current
		fn(current, total)
	}
}

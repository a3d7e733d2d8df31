package model

// ProgressState is the raw byte counter reported during one transfer
type ProgressState struct {
	BytesTotal     int64
	BytesRemaining int64
}

// Fraction returns (total - remaining) / total clamped to [0, 1].
// An unknown total reports 0.
func (p ProgressState) Fraction() float64 {
	if p.BytesTotal <= 0 {
		return 0
	}
	return clamp01(float64(p.BytesTotal-p.BytesRemaining) / float64(p.BytesTotal))
}

// Done reports whether every byte has been transferred
func (p ProgressState) Done() bool {
	return p.BytesTotal > 0 && p.BytesRemaining <= 0
}

// PlaylistFraction weights the current item's fraction by its position:
// (completed + current) / total, clamped to [0, 1].
func PlaylistFraction(completed int, current float64, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01((float64(completed) + clamp01(current)) / float64(total))
}

// Progress is the snapshot delivered to observers
type Progress struct {
	Index   int // zero-based item index within the operation
	Count   int // number of items in the operation (1 for a single video)
	Title   string
	Item    ProgressState
	Overall float64
}

// Percent returns Overall as an integer percentage
func (p Progress) Percent() int {
	return int(p.Overall*100 + 0.5)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

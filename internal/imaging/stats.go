package imaging

import "image"

// EdgeStats summarises an edge-magnitude image.
type EdgeStats struct {
	// Mean is the average magnitude over all pixels.
	Mean float64 `json:"mean"`

	// Max is the largest magnitude.
	Max uint8 `json:"max"`

	// Threshold is the magnitude at or above which a pixel counts as an edge.
	Threshold uint8 `json:"threshold"`

	// EdgePixels is the number of pixels at or above Threshold.
	EdgePixels int `json:"edge_pixels"`

	// EdgeRatio is EdgePixels divided by the total pixel count (0 for empty images).
	EdgeRatio float64 `json:"edge_ratio"`

	// Histogram counts pixels in eight equal buckets of 32 magnitude levels.
	Histogram [8]int `json:"histogram"`
}

// Stats computes EdgeStats for mag.
func Stats(mag *image.Gray, threshold uint8) EdgeStats {
	s := EdgeStats{Threshold: threshold}
	bounds := mag.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return s
	}

	var sum int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := mag.Pix[mag.PixOffset(bounds.Min.X, y):]
		for x := 0; x < bounds.Dx(); x++ {
			v := row[x]
			sum += int(v)
			if v > s.Max {
				s.Max = v
			}
			if v >= threshold {
				s.EdgePixels++
			}
			s.Histogram[v/32]++
		}
	}

	s.Mean = float64(sum) / float64(total)
	s.EdgeRatio = float64(s.EdgePixels) / float64(total)
	return s
}

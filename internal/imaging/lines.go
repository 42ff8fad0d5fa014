package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Line represents a straight edge segment found in a magnitude image.
type Line struct {
	Start           Point   `json:"start"`
	End             Point   `json:"end"`
	Length          float64 `json:"length"`
	AngleDegrees    float64 `json:"angle_degrees"`
	ThicknessApprox int     `json:"thickness_approx"`
	Votes           int     `json:"votes"`
}

// LinesResult contains detected lines
type LinesResult struct {
	Lines []Line `json:"lines"`
	Count int    `json:"count"`
}

// LineOptions configures DetectLines.
type LineOptions struct {
	// Threshold is the magnitude at or above which a pixel votes.
	Threshold uint8

	// MinLength discards segments shorter than this many pixels.
	MinLength int

	// MaxLines caps the number of returned segments, strongest first.
	MaxLines int
}

const (
	houghAngles = 180

	// peakWindow is the half-size of the accumulator neighbourhood a peak must dominate.
	peakWindow = 2

	// lineTolerance is how far (in pixels) an edge pixel may sit from a Hough line
	// and still belong to its segment.
	lineTolerance = 2.0
)

// DetectLines finds straight segments in an edge-magnitude image using a Hough
// transform over the pixels at or above opts.Threshold. Coordinates are relative
// to the image origin.
func DetectLines(mag *image.Gray, opts LineOptions) (*LinesResult, error) {
	if opts.MinLength < 1 {
		return nil, fmt.Errorf("invalid min_length %d: must be at least 1", opts.MinLength)
	}
	if opts.MaxLines < 1 {
		return nil, fmt.Errorf("invalid max_lines %d: must be at least 1", opts.MaxLines)
	}

	bounds := mag.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	edges := make([]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mag.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= opts.Threshold {
				edges = append(edges, Point{X: x, Y: y})
			}
		}
	}

	cosT := make([]float64, houghAngles)
	sinT := make([]float64, houghAngles)
	for theta := range cosT {
		angle := float64(theta) * math.Pi / 180.0
		cosT[theta] = math.Cos(angle)
		sinT[theta] = math.Sin(angle)
	}

	// Vote in Hough space. rho is offset by maxDist so indices are non-negative.
	maxDist := int(math.Sqrt(float64(width*width+height*height))) + 1
	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, houghAngles)
	}
	for _, p := range edges {
		for theta := 0; theta < houghAngles; theta++ {
			rho := float64(p.X)*cosT[theta] + float64(p.Y)*sinT[theta]
			accumulator[int(math.Round(rho))+maxDist][theta]++
		}
	}

	peaks := make([]houghPeak, 0)
	minVotes := max(opts.MinLength/2, 1)
	for rhoIdx := range accumulator {
		for theta := 0; theta < houghAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < minVotes || !isLocalMax(accumulator, rhoIdx, theta) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	lines := make([]Line, 0)
	accepted := make([]houghPeak, 0)
	for _, pk := range peaks {
		if len(lines) >= opts.MaxLines {
			break
		}
		if nearAccepted(accepted, pk.rho, pk.theta) {
			continue
		}

		cosA, sinA := cosT[pk.theta], sinT[pk.theta]
		rho := float64(pk.rho)

		// Walk the supporting pixels along the line direction (-sin, cos).
		var start, end Point
		minPos, maxPos := math.MaxFloat64, -math.MaxFloat64
		support := 0
		for _, p := range edges {
			if math.Abs(float64(p.X)*cosA+float64(p.Y)*sinA-rho) >= lineTolerance {
				continue
			}
			support++
			pos := -float64(p.X)*sinA + float64(p.Y)*cosA
			if pos < minPos {
				minPos, start = pos, p
			}
			if pos > maxPos {
				maxPos, end = pos, p
			}
		}
		if support < opts.MinLength {
			continue
		}

		if start.X > end.X || (start.X == end.X && start.Y > end.Y) {
			start, end = end, start
		}
		dx := float64(end.X - start.X)
		dy := float64(end.Y - start.Y)
		length := math.Sqrt(dx*dx + dy*dy)
		if length < float64(opts.MinLength) {
			continue
		}

		accepted = append(accepted, pk)
		lines = append(lines, Line{
			Start:           start,
			End:             end,
			Length:          math.Round(length*10) / 10,
			AngleDegrees:    math.Round(math.Atan2(dy, dx)*1800/math.Pi) / 10,
			ThicknessApprox: estimateLineThickness(mag, opts.Threshold, start, end),
			Votes:           pk.votes,
		})
	}

	return &LinesResult{
		Lines: lines,
		Count: len(lines),
	}, nil
}

// houghPeak is an accumulator cell; rho is relative to the image origin.
type houghPeak struct {
	rho   int
	theta int
	votes int
}

// isLocalMax reports whether no cell in the peak window has more votes.
// The angle axis wraps around.
func isLocalMax(acc [][]int, rhoIdx, theta int) bool {
	votes := acc[rhoIdx][theta]
	for dr := -peakWindow; dr <= peakWindow; dr++ {
		nr := rhoIdx + dr
		if nr < 0 || nr >= len(acc) {
			continue
		}
		for dt := -peakWindow; dt <= peakWindow; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			if acc[nr][(theta+dt+houghAngles)%houghAngles] > votes {
				return false
			}
		}
	}
	return true
}

// nearAccepted reports whether (rho, theta) lies within a few cells of a
// stronger peak already turned into a line. Thick edges vote on neighbouring
// rho values with equal strength.
func nearAccepted(accepted []houghPeak, rho, theta int) bool {
	const window = 2 * peakWindow
	for _, a := range accepted {
		dt, dr := abs(a.theta-theta), abs(a.rho-rho)
		if dt > houghAngles/2 {
			// theta and theta+180 describe the same line with rho negated.
			dt, dr = houghAngles-dt, abs(a.rho+rho)
		}
		if dr <= window && dt <= window {
			return true
		}
	}
	return false
}

// estimateLineThickness counts edge pixels perpendicular to the segment at its midpoint.
func estimateLineThickness(mag *image.Gray, threshold uint8, start, end Point) int {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return 1
	}

	perpX := -dy / length
	perpY := dx / length
	midX := float64(start.X+end.X) / 2
	midY := float64(start.Y+end.Y) / 2

	bounds := mag.Bounds()
	thickness := 0
	for d := -10; d <= 10; d++ {
		p := image.Pt(bounds.Min.X+int(math.Round(midX+float64(d)*perpX)), bounds.Min.Y+int(math.Round(midY+float64(d)*perpY)))
		if p.In(bounds) && mag.GrayAt(p.X, p.Y).Y >= threshold {
			thickness++
		}
	}
	return max(thickness, 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package css

import (
	"math"
	"strconv"
	"strings"

	"htmlcore/pkg/cssvalue"
)

// ParseGradient parses a linear-gradient()/repeating-linear-gradient()
// CSS value into a *cssvalue.Gradient. A radial-gradient() is recognized
// by keyword so it is not misparsed as a flat color, and is returned
// with Kind GradientRadial and no stops or geometry; paint hands it to
// Container.DrawLinearGradient like any other gradient layer.
func ParseGradient(value string) (*cssvalue.Gradient, bool) {
	value = strings.TrimSpace(value)
	repeat := strings.HasPrefix(value, "repeating-")
	value = strings.TrimPrefix(value, "repeating-")

	switch {
	case strings.HasPrefix(value, "linear-gradient("):
		return parseLinearGradient(value, repeat)
	case strings.HasPrefix(value, "radial-gradient("):
		return &cssvalue.Gradient{Kind: cssvalue.GradientRadial, Repeat: repeat}, true
	}
	return nil, false
}

func parseLinearGradient(value string, repeat bool) (*cssvalue.Gradient, bool) {
	if !strings.HasSuffix(value, ")") {
		return nil, false
	}
	content := value[len("linear-gradient(") : len(value)-1]
	parts := splitTopLevel(content, ',')
	if len(parts) < 2 {
		return nil, false
	}

	grad := &cssvalue.Gradient{Kind: cssvalue.GradientLinear, Repeat: repeat, Angle: 180}
	startIdx := 0
	first := strings.TrimSpace(parts[0])
	if strings.HasPrefix(first, "to ") {
		grad.Angle = angleForSide(strings.TrimPrefix(first, "to "))
		startIdx = 1
	} else if strings.HasSuffix(first, "deg") {
		if deg, err := strconv.ParseFloat(strings.TrimSuffix(first, "deg"), 64); err == nil {
			grad.Angle = math.Mod(deg, 360)
			if grad.Angle < 0 {
				grad.Angle += 360
			}
		}
		startIdx = 1
	}

	for _, raw := range parts[startIdx:] {
		stop, ok := parseColorStop(raw)
		if ok {
			grad.Stops = append(grad.Stops, stop)
		}
	}
	fillMissingOffsets(grad.Stops)
	if len(grad.Stops) == 0 {
		return nil, false
	}
	return grad, true
}

// angleForSide converts "to <side>" keywords to a degree angle using the
// 90 - atan2(run, rise) * 180/pi formula of spec.md §4.2, with the four
// axis-aligned cases special-cased to avoid rounding loss.
func angleForSide(side string) float64 {
	switch strings.TrimSpace(side) {
	case "top":
		return 0
	case "right":
		return 90
	case "bottom":
		return 180
	case "left":
		return 270
	case "top right", "right top":
		return degreesFromRunRise(1, 1)
	case "bottom right", "right bottom":
		return degreesFromRunRise(1, -1)
	case "bottom left", "left bottom":
		return degreesFromRunRise(-1, -1)
	case "top left", "left top":
		return degreesFromRunRise(-1, 1)
	default:
		return 180
	}
}

func degreesFromRunRise(run, rise float64) float64 {
	deg := 90 - math.Atan2(run, rise)*180/math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func parseColorStop(raw string) (cssvalue.GradientStop, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cssvalue.GradientStop{}, false
	}
	fields := strings.Fields(raw)
	colorTok := fields[0]
	// A color function like "rgb(255, 0, 0) 50%" has its own internal
	// spaces/commas; splitTopLevel already kept parens intact, so rebuild
	// the color token up to a trailing length/percentage field if the
	// stop has one.
	var posTok string
	if len(fields) > 1 && (strings.HasSuffix(fields[len(fields)-1], "%") || isLengthLike(fields[len(fields)-1])) {
		posTok = fields[len(fields)-1]
		colorTok = strings.Join(fields[:len(fields)-1], " ")
	} else {
		colorTok = strings.Join(fields, " ")
	}

	color, err := cssvalue.ParseColor(colorTok)
	if err != nil {
		return cssvalue.GradientStop{}, false
	}
	stop := cssvalue.GradientStop{Color: color, Position: cssvalue.Auto()}
	if posTok != "" {
		stop.Position = mustLength(posTok)
	}
	return stop, true
}

func isLengthLike(s string) bool {
	_, err := cssvalue.ParseLength(s)
	return err == nil && s != ""
}

// fillMissingOffsets assigns evenly-spaced positions to stops that didn't
// specify one, matching the CSS gradient spec's "un-positioned stops are
// evenly distributed between their neighbors" rule.
func fillMissingOffsets(stops []cssvalue.GradientStop) {
	if len(stops) == 0 {
		return
	}
	if stops[0].Position.IsAuto() {
		stops[0].Position = cssvalue.Percent(0)
	}
	if stops[len(stops)-1].Position.IsAuto() {
		stops[len(stops)-1].Position = cssvalue.Percent(100)
	}
	i := 0
	for i < len(stops) {
		if !stops[i].Position.IsAuto() {
			i++
			continue
		}
		start := i - 1
		j := i
		for j < len(stops) && stops[j].Position.IsAuto() {
			j++
		}
		startPos := stops[start].Position.Value
		endPos := stops[j].Position.Value
		count := j - start
		for k := start + 1; k < j; k++ {
			frac := float64(k-start) / float64(count)
			stops[k].Position = cssvalue.Percent(startPos + frac*(endPos-startPos))
		}
		i = j
	}
}

package colors

import (
	"time"

	"github.com/fatih/color"

	"github.com/harrisonrobin/harvestboard/pkg/model"
)

var cropAttributes = []color.Attribute{
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
	color.FgHiGreen,
	color.FgHiYellow,
	color.FgHiBlue,
	color.FgHiMagenta,
	color.FgHiCyan,
}

type cropState struct {
	attr     color.Attribute
	lastUsed time.Time
}

// Palette hands out a stable colour per crop for the session. When every
// colour is taken, the least recently used crop gives up its colour.
type Palette struct {
	crops map[string]*cropState
	now   func() time.Time
}

func NewPalette() *Palette {
	return &Palette{crops: make(map[string]*cropState), now: time.Now}
}

// Crop returns the colour for a crop name.
func (p *Palette) Crop(crop string) *color.Color {
	return color.New(p.Attribute(crop))
}

// Attribute returns the colour attribute assigned to a crop.
func (p *Palette) Attribute(crop string) color.Attribute {
	if crop == "" {
		return color.FgWhite
	}
	if state, ok := p.crops[crop]; ok {
		state.lastUsed = p.now()
		return state.attr
	}
	return p.assign(crop)
}

func (p *Palette) assign(crop string) color.Attribute {
	used := make(map[color.Attribute]bool, len(p.crops))
	for _, s := range p.crops {
		used[s.attr] = true
	}
	for _, attr := range cropAttributes {
		if !used[attr] {
			p.crops[crop] = &cropState{attr: attr, lastUsed: p.now()}
			return attr
		}
	}

	var oldest string
	var oldestTime time.Time
	first := true
	for name, s := range p.crops {
		if first || s.lastUsed.Before(oldestTime) {
			oldest, oldestTime, first = name, s.lastUsed, false
		}
	}
	recycled := p.crops[oldest].attr
	delete(p.crops, oldest)
	p.crops[crop] = &cropState{attr: recycled, lastUsed: p.now()}
	return recycled
}

// Status returns the colour used to print a task status.
func Status(status string) *color.Color {
	switch status {
	case model.StatusCompleted:
		return color.New(color.FgGreen)
	case model.StatusAssigned:
		return color.New(color.FgYellow)
	case "":
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgCyan)
	}
}

package colors

import (
	"fmt"
	"testing"
	"time"
)

func TestPaletteStable(t *testing.T) {
	p := NewPalette()
	a := p.Attribute("Kale")
	b := p.Attribute("Chard")
	if a == b {
		t.Errorf("Expected distinct colours, both got %v", a)
	}
	if again := p.Attribute("Kale"); again != a {
		t.Errorf("Expected Kale to keep %v, got %v", a, again)
	}
}

func TestPaletteRecyclesLeastRecentlyUsed(t *testing.T) {
	p := NewPalette()
	clock := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for i := 0; i < len(cropAttributes); i++ {
		p.Attribute(fmt.Sprintf("crop-%d", i))
	}
	first := p.Attribute("crop-0")
	secondAttr := p.crops["crop-1"].attr

	got := p.Attribute("newcomer")
	if got != secondAttr {
		t.Errorf("Expected newcomer to take crop-1's colour %v, got %v", secondAttr, got)
	}
	if _, ok := p.crops["crop-1"]; ok {
		t.Error("Expected crop-1 to be evicted")
	}
	if p.Attribute("crop-0") != first {
		t.Error("Expected recently used crop-0 to keep its colour")
	}
}

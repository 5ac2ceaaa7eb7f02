package cbt

import "strings"

type Plant struct {
	Flower   string
	Activity string
}

// Garden collects planted mindful activities in planting order.
type Garden struct {
	flowers []string
	plants  []Plant
}

func NewGarden(flowers []string, existing ...Plant) *Garden {
	return &Garden{flowers: flowers, plants: append([]Plant(nil), existing...)}
}

// Plant adds a trimmed activity. Blank activities plant nothing.
// Flowers alternate in the order they are configured.
func (g *Garden) Plant(activity string) (Plant, bool) {
	activity = strings.TrimSpace(activity)
	if activity == "" || len(g.flowers) == 0 {
		return Plant{}, false
	}
	p := Plant{Flower: g.flowers[len(g.plants)%len(g.flowers)], Activity: activity}
	g.plants = append(g.plants, p)
	return p, true
}

func (g *Garden) Plants() []Plant { return append([]Plant(nil), g.plants...) }

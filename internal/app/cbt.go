package app

import (
	"context"
	"fmt"
	"strconv"

	"guardmind/internal/cbt"
	"guardmind/internal/state"
)

// prefFortressLevel keeps the Resilience Quest fortress between sessions.
const prefFortressLevel = "fortressLevel"

// Garden loads the Mindful Garden with everything planted so far.
func (a *App) Garden(ctx context.Context) (*cbt.Garden, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, err
	}
	rows, err := a.store.ListGardenPlants(ctx)
	if err != nil {
		return nil, err
	}
	plants := make([]cbt.Plant, 0, len(rows))
	for _, r := range rows {
		plants = append(plants, cbt.Plant{Flower: r.Flower, Activity: r.Activity})
	}
	return cbt.NewGarden(a.exercises.Flowers, plants...), nil
}

// PlantActivity plants one mindful activity and returns the updated garden.
func (a *App) PlantActivity(ctx context.Context, activity string) (*cbt.Garden, cbt.Plant, error) {
	g, err := a.Garden(ctx)
	if err != nil {
		return nil, cbt.Plant{}, err
	}
	p, ok := g.Plant(activity)
	if !ok {
		return g, cbt.Plant{}, fmt.Errorf("activity is empty")
	}
	if err := a.store.AddGardenPlant(ctx, state.GardenPlant{
		Flower:    p.Flower,
		Activity:  p.Activity,
		PlantedTS: a.now(),
	}); err != nil {
		return g, p, fmt.Errorf("plant activity: %w", err)
	}
	a.logger.Info("cbt.garden.plant", map[string]any{"plants": len(g.Plants())})
	return g, p, nil
}

// Quest resumes Resilience Quest at the stored fortress level.
func (a *App) Quest(ctx context.Context) (*cbt.Quest, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, err
	}
	raw, ok, err := a.store.GetPreference(ctx, prefFortressLevel)
	if err != nil {
		return nil, err
	}
	level := 1
	if ok {
		if n, err := strconv.Atoi(raw); err == nil {
			level = n
		}
	}
	return cbt.NewQuest(a.exercises.Quest, level), nil
}

// SaveQuest stores the fortress level reached.
func (a *App) SaveQuest(ctx context.Context, q *cbt.Quest) error {
	if _, err := a.RequireLogin(); err != nil {
		return err
	}
	a.logger.Info("cbt.quest.save", map[string]any{"level": q.Level()})
	return a.store.SavePreferences(ctx, map[string]string{prefFortressLevel: strconv.Itoa(q.Level())})
}

// EscapeRoom starts a fresh Emotion Escape Room. Progress is not kept.
func (a *App) EscapeRoom() (*cbt.EscapeRoom, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, err
	}
	return cbt.NewEscapeRoom(a.exercises.Rooms), nil
}

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/modutime/scheduler_bot/internal/controller/render"
	"github.com/modutime/scheduler_bot/internal/grid"
)

// Renders a heat map for a sample room with random availability
func main() {
	today := grid.DateOf(time.Now())
	dates := []time.Time{today, today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), today.AddDate(0, 0, 4)}
	start, end := grid.NewClock(10, 0), grid.NewClock(18, 0)

	g, err := grid.New("sample", dates, &start, &end, 30*time.Minute)
	if err != nil {
		fmt.Printf("Failed to build grid: %v\n", err)
		os.Exit(1)
	}

	names := []string{"kim", "lee", "park", "choi", "jung", "kang"}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, name := range names {
		var sub grid.Submission
		for _, row := range g.Rows() {
			for _, slot := range row.Slots {
				if r.Intn(3) == 0 {
					sub.Selections = append(sub.Selections, grid.Selection{Date: row.Date, Time: slot.Time})
				}
			}
		}
		if _, err := g.Apply(name, nil, sub); err != nil {
			fmt.Printf("Failed to apply %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	imageData, err := render.HeatMap("Sample room", g.Project(), len(names))
	if err != nil {
		fmt.Printf("Failed to render heat map: %v\n", err)
		os.Exit(1)
	}

	filename := "grid.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Failed to save file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved %s\n", filename)
	fmt.Printf("📅 %d dates, %d slots\n", len(dates), g.SlotCount())
}

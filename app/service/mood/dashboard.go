package mood

import (
	"github.com/elliotchance/pie/v2"
)

const averageWindow = 7

type Face struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

type Strategy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
	Icon        string `json:"icon"`
}

type Dashboard struct {
	Average    float64    `json:"average"`
	AverageFor Face       `json:"average_face"`
	Count      int        `json:"count"`
	Recent     *Entry     `json:"recent,omitempty"`
	RecentFor  *Face      `json:"recent_face,omitempty"`
	Strategies []Strategy `json:"strategies"`
}

// FaceFor maps a score onto the tracker's five step scale.
func FaceFor(score float64) Face {
	switch {
	case score > 2:
		return Face{Emoji: "😁", Label: "Very Happy"}
	case score > 0:
		return Face{Emoji: "😊", Label: "Happy"}
	case score == 0:
		return Face{Emoji: "😐", Label: "Neutral"}
	case score > -3:
		return Face{Emoji: "😞", Label: "Sad"}
	default:
		return Face{Emoji: "😢", Label: "Very Sad"}
	}
}

func RecommendedStrategies() []Strategy {
	return []Strategy{
		{
			Title:       "Deep Breathing Exercise",
			Description: "A simple breathing technique to reduce anxiety and stress",
			Tag:         "breathing",
			Icon:        "breathing",
		},
		{
			Title:       "5-4-3-2-1 Grounding Technique",
			Description: "Use your senses to ground yourself in the present moment",
			Tag:         "mindfulness",
			Icon:        "mindfulness",
		},
	}
}

// BuildDashboard expects entries most recent first.
func BuildDashboard(entries []Entry) *Dashboard {
	d := &Dashboard{
		Count:      len(entries),
		Strategies: RecommendedStrategies(),
	}

	window := pie.Top(entries, averageWindow)
	if len(window) > 0 {
		scores := pie.Map(window, func(e Entry) int { return e.Score })
		d.Average = float64(pie.Sum(scores)) / float64(len(window))
	}
	d.AverageFor = FaceFor(d.Average)

	if len(entries) > 0 {
		recent := entries[0]
		face := FaceFor(float64(recent.Score))
		d.Recent = &recent
		d.RecentFor = &face
	}

	return d
}

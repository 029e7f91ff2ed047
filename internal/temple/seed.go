package temple

import "github.com/mesh-intelligence/temple/pkg/types"

// Default records written to a partition the first time it is read.
// Each function returns a fresh slice.

func seedEvents() []types.Event {
	return []types.Event{
		{
			Title:       "Diwali Celebration",
			Date:        "2025-10-20",
			StartTime:   "18:00",
			EndTime:     "21:00",
			Location:    "Main Hall",
			Description: "Festival of lights with Lakshmi puja, deepa aradhana, and prasadam.",
			Category:    "festival",
		},
		{
			Title:       "Lord Shiva Puja",
			Date:        "2025-11-03",
			StartTime:   "07:00",
			EndTime:     "09:00",
			Location:    "Shiva Sannidhi",
			Description: "Rudrabhishekam and archana for Lord Shiva.",
			Category:    "puja",
		},
	}
}

func seedServices() []types.Service {
	return []types.Service{
		{
			Name:        "Archana",
			Description: "Chanting of the deity's names with offerings on behalf of the devotee.",
			Price:       11,
			Duration:    "15 minutes",
			Category:    "puja",
		},
		{
			Name:        "Abhishekam",
			Description: "Ritual bathing of the deity with milk, honey, and sacred water.",
			Price:       51,
			Duration:    "45 minutes",
			Category:    "puja",
		},
	}
}

func seedStaff() []types.StaffMember {
	return []types.StaffMember{
		{
			FullName:         "Sri Raghavan Bhattar",
			Role:             "Head Priest",
			Department:       "priests",
			Responsibilities: "Daily rituals, festival ceremonies, and temple traditions.",
		},
	}
}

func seedBoardMembers() []types.BoardMember {
	return []types.BoardMember{
		{
			Name:     "Dr. Lakshmi Narayanan",
			Position: "President",
			Term:     "2024-2026",
			Bio:      "Serves the temple community as president of the board of trustees.",
		},
	}
}

func seedDailyPoojas() []types.DailyPooja {
	return []types.DailyPooja{
		{
			Name:        "Suprabhatam",
			Time:        "06:00",
			Deity:       "Sri Venkateswara",
			Description: "Morning hymns to awaken the deity.",
		},
		{
			Name:        "Maha Mangala Aarti",
			Time:        "19:30",
			Deity:       "All deities",
			Description: "Evening aarti with lamps and bells.",
		},
	}
}

func seedBajanas() []types.Bajana {
	return []types.Bajana{
		{
			Title:       "Weekly Bajan Sandhya",
			Day:         "Saturday",
			Time:        "17:00",
			Location:    "Main Hall",
			Description: "Community devotional singing open to all.",
		},
	}
}

package tracker

import "todotrack/internal/service"

// Fixtures returns the sample task list used when there is neither a working
// backend nor a cached snapshot.
func Fixtures() []service.Task {
	return []service.Task{
		{
			ID:          "1",
			Description: "Setup Google Apps Script for Todos",
			Status:      service.StatusCompleted,
			DueDate:     "2024-07-25",
			Skills:      service.Skills{"Google Apps Script", "API Development"},
		},
		{
			ID:          "2",
			Description: "Develop React Frontend UI",
			Status:      service.StatusInProgress,
			DueDate:     "2024-07-28",
			Skills:      service.Skills{"React", "TailwindCSS"},
		},
		{
			ID:          "3",
			Description: "Integrate Fetch Logic",
			Status:      service.StatusPending,
			DueDate:     "2024-07-30",
			Skills:      service.Skills{"API Integration"},
		},
		{
			ID:          "4",
			Description: "Test Email Reminder Simulation",
			Status:      service.StatusPending,
			DueDate:     "2024-08-01",
			Skills:      service.Skills{"Testing"},
		},
		{
			ID:          "5",
			Description: "Deploy Application",
			Status:      service.StatusPending,
			Skills:      service.Skills{"Deployment", "CI/CD"},
		},
	}
}

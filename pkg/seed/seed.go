// Package seed holds the demo data the backend starts with.
package seed

import (
	"context"
	"errors"
	"fmt"

	"HDTN/models"

	"gorm.io/gorm"
)

// CurrentUserID is the participant the demo frontend is logged in as.
const CurrentUserID = "user123"

// Tasks returns the task board offered on first start.
func Tasks() []models.Task {
	return []models.Task{
		{ID: "1", Title: "Community Garden Helper", Lat: 51.505, Lng: -0.09, Status: "open", Description: "Help plant new flowers in the community garden. Looking for volunteers for a weekend event."},
		{ID: "2", Title: "Tech Meetup Volunteer", Lat: 51.515, Lng: -0.10, Status: "open", Description: "Assist with registration and setup for a local tech meetup. Evening availability preferred."},
		{ID: "3", Title: "Library Book Organizer", Lat: 51.500, Lng: -0.12, Status: "open", Description: "Organize and shelve books at the public library. Flexible hours during weekdays."},
		{ID: "4", Title: "Local Park Cleanup Crew", Lat: 51.520, Lng: -0.08, Status: "open", Description: "Join us for a park cleanup initiative this Saturday morning. Equipment provided."},
		{ID: "5", Title: "Frontend Feedback Session", Lat: 51.495, Lng: -0.11, Status: "open", Description: "Provide feedback on a new web application prototype. 1-hour remote session."},
	}
}

// Users returns the demo profiles without passwords set.
func Users() []models.User {
	return []models.User{
		{
			ParticipantID: CurrentUserID, Username: "vedant", Email: "vedant@hdtn.local",
			Name:      "Vedant Raut",
			Bio:       "Passionate frontend developer and community volunteer. Eager to connect and contribute to meaningful projects. Exploring the potential of Web3 and decentralized technologies for social good. Future goal: Integrate ReadyPlayerMe for a dynamic 3D avatar!",
			Skills:    []string{"React", "TypeScript", "Tailwind CSS", "Node.js", "Problem Solving"},
			AvatarURL: "https://picsum.photos/seed/alexryder/200/200",
			Lat:       34.0522, Lng: -118.2437,
			Education: []models.Education{
				{ID: "edu1", Institution: "University of Digital Arts", Degree: "B.Sc. in Interactive Media", FieldOfStudy: "Game Development & UI/UX", StartYear: "2018", EndYear: "2022"},
				{ID: "edu2", Institution: "Community Tech Institute", Degree: "Certificate in Web Development", FieldOfStudy: "Full-Stack JavaScript", StartYear: "2023", EndYear: "Present"},
			},
		},
		{
			ParticipantID: "user002", Username: "bella", Email: "bella@hdtn.local",
			Name: "Bella Ciao", Bio: "Designer & Dreamer. Loves to collaborate on innovative UI/UX projects. Coffee enthusiast.",
			Skills:    []string{"UI/UX", "Figma", "Illustration", "Prototyping"},
			AvatarURL: "https://picsum.photos/seed/bella/100/100", Lat: 34.0600, Lng: -118.2500,
			Education: []models.Education{{ID: "edu_bella1", Institution: "Design Institute", Degree: "MFA in Design", FieldOfStudy: "Digital Media", StartYear: "2019", EndYear: "2021"}},
		},
		{
			ParticipantID: "user003", Username: "carlos", Email: "carlos@hdtn.local",
			Name: "Carlos Duty", Bio: "Logistics expert and community organizer. Always ready to help coordinate efforts for local events.",
			Skills:    []string{"Logistics", "Event Planning", "Team Coordination", "Communication"},
			AvatarURL: "https://picsum.photos/seed/carlos/100/100", Lat: 34.0450, Lng: -118.2300,
			Education: []models.Education{{ID: "edu_carlos1", Institution: "Metro College", Degree: "BBA", FieldOfStudy: "Supply Chain Management", StartYear: "2015", EndYear: "2019"}},
		},
		{
			ParticipantID: "user004", Username: "jamie", Email: "jamie@hdtn.local",
			Name: "Jamie Curious", Bio: "Tech enthusiast focusing on sustainable solutions and AI ethics. Always learning.",
			Skills:    []string{"Python", "AI Ethics", "Research", "DevOps Basics"},
			AvatarURL: "https://picsum.photos/seed/jamie/100/100", Lat: 34.0750, Lng: -118.2350,
		},
		{
			ParticipantID: "user005", Username: "skyler", Email: "skyler@hdtn.local",
			Name: "Skyler Resourceful", Bio: "Content creator and technical writer. Specializes in making complex topics accessible.",
			Skills:    []string{"Technical Writing", "Content Strategy", "SEO", "UX Writing"},
			AvatarURL: "https://picsum.photos/seed/skyler/100/100", Lat: 34.0320, Lng: -118.2150,
		},
		{
			ParticipantID: "user006", Username: "casey", Email: "casey@hdtn.local",
			Name: "Casey Creative", Bio: "Frontend dev with a passion for social good projects and beautiful interfaces.",
			Skills:    []string{"React", "TailwindCSS", "JavaScript", "Firebase"},
			AvatarURL: "https://picsum.photos/seed/casey/100/100", Lat: 34.0800, Lng: -118.2000,
		},
		{
			ParticipantID: "user007", Username: "taylor", Email: "taylor@hdtn.local",
			Name: "Taylor Pragmatic", Bio: "Full-stack developer building robust and scalable applications. Focus on sustainable tech.",
			Skills:    []string{"Node.js", "React", "Cloud Computing", "PostgreSQL"},
			AvatarURL: "https://picsum.photos/seed/taylor/100/100", Lat: 34.0650, Lng: -118.2700,
		},
	}
}

// SeedUsers inserts the demo users that do not exist yet, all with password.
func SeedUsers(ctx context.Context, db *gorm.DB, password string) (int, error) {
	created := 0
	for _, u := range Users() {
		var existing models.User
		err := db.WithContext(ctx).Where("participant_id = ?", u.ParticipantID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("lookup %s: %w", u.ParticipantID, err)
		}
		if err := u.SetPassword(password); err != nil {
			return created, err
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return created, fmt.Errorf("create %s: %w", u.ParticipantID, err)
		}
		created++
	}
	return created, nil
}

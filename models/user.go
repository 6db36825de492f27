package models

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Education struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartYear    string `json:"startYear"`
	EndYear      string `json:"endYear"`
}

type User struct {
	gorm.Model
	// ParticipantID is the id used in chat conversations and task applications.
	ParticipantID string      `gorm:"uniqueIndex;size:64;not null"`
	Email         string      `gorm:"uniqueIndex;size:120;not null"`
	Username      string      `gorm:"uniqueIndex;size:80;not null"`
	PasswordHash  string      `gorm:"size:255;not null"`
	Name          string      `gorm:"size:120"`
	Bio           string      `gorm:"type:text"`
	Skills        []string    `gorm:"serializer:json"`
	Education     []Education `gorm:"serializer:json"`
	Lat           float64
	Lng           float64
	AvatarURL     string `gorm:"size:500"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Profile is the public view of a user.
type Profile struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Bio       string      `json:"bio"`
	Skills    []string    `json:"skills"`
	AvatarURL string      `json:"avatarUrl"`
	Location  [2]float64  `json:"location"`
	Education []Education `json:"education,omitempty"`
}

func (u *User) Profile() Profile {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return Profile{
		ID:        u.ParticipantID,
		Name:      u.Name,
		Bio:       u.Bio,
		Skills:    skills,
		AvatarURL: u.AvatarURL,
		Location:  [2]float64{u.Lat, u.Lng},
		Education: u.Education,
	}
}

// NewParticipantID returns a fresh id of the form "user" + 12 hex digits.
// It never contains the conversation separator.
func NewParticipantID() string {
	id := uuid.New()
	return "user" + strings.ToLower(hex.EncodeToString(id[:6]))
}

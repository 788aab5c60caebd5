package models

import "time"

// ExpenseReport records money spent on an art object.
type ExpenseReport struct {
	ID          string     `json:"id"`
	ArtObjectID string     `json:"artObjectId"`
	Date        time.Time  `json:"date"`
	Amount      float64    `json:"amount"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Files       []FileInfo `json:"files,omitempty"`
}

// WorkUpdate records progress on an art object, in percent.
type WorkUpdate struct {
	ID          string     `json:"id"`
	ArtObjectID string     `json:"artObjectId"`
	Date        time.Time  `json:"date"`
	Progress    int        `json:"progress"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Files       []FileInfo `json:"files,omitempty"`
}

// SocialMediaContact is a press contact notified when its owner publishes a tender.
type SocialMediaContact struct {
	ID                   string `json:"id"`
	UserID               string `json:"userId"`
	ContactName          string `json:"contactName"`
	ContactMassMediaName string `json:"contactMassMediaName,omitempty"`
	ContactEmail         string `json:"contactEmail"`
	ContactLanguage      string `json:"contactLanguage,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Active               bool   `json:"active"`
}

// TeamMate is a member shown on the about page.
type TeamMate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	ProfileLink string `json:"profileLink,omitempty"`
	PictureURL  string `json:"pictureURL,omitempty"`
	Index       int    `json:"index"`
	Active      bool   `json:"active"`
}

// EmailWhitelistEntry admits a single address or a whole domain.
type EmailWhitelistEntry struct {
	ID     string `json:"id"`
	Email  string `json:"email,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// City is an entry of the cities catalogue.
type City struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

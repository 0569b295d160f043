package models

// GamificationStatus is the streak/badge slice of the dashboard.
type GamificationStatus struct {
	Streak int64    `json:"streak"`
	Badges []string `json:"badges"`
}

// Dashboard is the composite view assembled from four independent reads.
// It is all-or-nothing: a failed read fails the whole aggregate.
type Dashboard struct {
	Goals        []Goal              `json:"goals"`
	Wallet       *Wallet             `json:"wallet"`
	Profile      *Profile            `json:"profile"`
	Gamification *GamificationStatus `json:"gamification"`
}

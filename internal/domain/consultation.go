package domain

import "time"

// ConsultationRecord is the durable, immutable record of one completed
// intake. The store is append-only: records are never updated or deleted.
type ConsultationRecord struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"index"`
	DisplayName string    `json:"username"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Phone       string    `json:"phone"`
	Gender      string    `json:"gender"`
	Language    string    `json:"language"` // display name, e.g. "English"
	Symptoms    string    `json:"symptoms"`
	Advice      string    `json:"advice"`
	CreatedAt   time.Time `json:"date"`
}

// Stats summarizes the stored consultations for the ops API.
type Stats struct {
	TotalConsultations int            `json:"total_consultations"`
	UniqueUsers        int            `json:"unique_users"`
	ByLanguage         map[string]int `json:"language_distribution"`
	ByGender           map[string]int `json:"gender_distribution"`
}

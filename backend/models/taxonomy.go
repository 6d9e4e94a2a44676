package models

import "gorm.io/gorm"

type University struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	NameEn   string `json:"name_en"`
	City     string `json:"city"`
	LogoURL  string `json:"logo_url"`
	Colleges []College `json:"colleges,omitempty"`
}

type College struct {
	gorm.Model
	UniversityID uint      `gorm:"not null;index" json:"university_id"`
	Name         string    `gorm:"not null" json:"name"`
	Subjects     []Subject `json:"subjects,omitempty"`
}

type Subject struct {
	gorm.Model
	CollegeID uint      `gorm:"not null;index" json:"college_id"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `json:"code"`
	Chapters  []Chapter `json:"chapters,omitempty"`
}

type Chapter struct {
	gorm.Model
	SubjectID uint   `gorm:"not null;index" json:"subject_id"`
	Title     string `gorm:"not null" json:"title"`
	Sequence  int    `json:"sequence"`
}

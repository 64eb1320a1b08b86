package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// Database models carry the GORM tags; domain entities stay persistence-free.

type DBUser struct {
	ID             uint   `gorm:"primaryKey"`
	ChatID         *int64 `gorm:"uniqueIndex"`
	Name           string `gorm:"size:100"`
	Age            int
	Phone          string `gorm:"uniqueIndex;size:20"`
	PhotoFileID    string `gorm:"size:255"`
	DocumentFileID string `gorm:"size:255"`
	Active         bool   `gorm:"index"`
	Language       string `gorm:"size:8"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DBUser) TableName() string { return "users" }

type DBCourse struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"uniqueIndex;size:200"`
	Description string
	Price       int
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DBCourse) TableName() string { return "courses" }

type DBEnrollment struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"uniqueIndex:idx_user_course;index"`
	CourseID        uint `gorm:"uniqueIndex:idx_user_course;index"`
	StartDate       *time.Time `gorm:"index"`
	EndDate         *time.Time `gorm:"index"`
	Completed       bool
	StartNotifiedOn *time.Time
	EndNotifiedOn   *time.Time
	CreatedAt       time.Time
}

func (DBEnrollment) TableName() string { return "enrollments" }

type DBCertificate struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Title     string `gorm:"size:200"`
	FileID    string `gorm:"size:255"`
	CreatedAt time.Time
}

func (DBCertificate) TableName() string { return "certificates" }

// Models lists every schema model for AutoMigrate.
func Models() []any {
	return []any{&DBUser{}, &DBCourse{}, &DBEnrollment{}, &DBCertificate{}}
}

func userToDB(u *domain.User) *DBUser {
	return &DBUser{
		ID:             u.ID,
		ChatID:         u.ChatID,
		Name:           u.Name,
		Age:            u.Age,
		Phone:          u.Phone,
		PhotoFileID:    u.PhotoFileID,
		DocumentFileID: u.DocumentFileID,
		Active:         u.Active,
		Language:       u.Language,
	}
}

func userToDomain(u *DBUser) *domain.User {
	return &domain.User{
		ID:             u.ID,
		ChatID:         u.ChatID,
		Name:           u.Name,
		Age:            u.Age,
		Phone:          u.Phone,
		PhotoFileID:    u.PhotoFileID,
		DocumentFileID: u.DocumentFileID,
		Active:         u.Active,
		Language:       u.Language,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func courseToDB(c *domain.Course) *DBCourse {
	return &DBCourse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
	}
}

func courseToDomain(c *DBCourse) *domain.Course {
	return &domain.Course{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func enrollmentToDB(e *domain.Enrollment) *DBEnrollment {
	return &DBEnrollment{
		ID:              e.ID,
		UserID:          e.UserID,
		CourseID:        e.CourseID,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		Completed:       e.Completed,
		StartNotifiedOn: e.StartNotifiedOn,
		EndNotifiedOn:   e.EndNotifiedOn,
	}
}

func enrollmentToDomain(e *DBEnrollment) *domain.Enrollment {
	return &domain.Enrollment{
		ID:              e.ID,
		UserID:          e.UserID,
		CourseID:        e.CourseID,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		Completed:       e.Completed,
		StartNotifiedOn: e.StartNotifiedOn,
		EndNotifiedOn:   e.EndNotifiedOn,
		CreatedAt:       e.CreatedAt,
	}
}

func certificateToDB(c *domain.Certificate) *DBCertificate {
	return &DBCertificate{
		ID:     c.ID,
		UserID: c.UserID,
		Title:  c.Title,
		FileID: c.FileID,
	}
}

func certificateToDomain(c *DBCertificate) *domain.Certificate {
	return &domain.Certificate{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		FileID:    c.FileID,
		CreatedAt: c.CreatedAt,
	}
}

// isDuplicate relies on gorm.Config.TranslateError mapping driver unique
// violations to gorm.ErrDuplicatedKey on both postgres and sqlite.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

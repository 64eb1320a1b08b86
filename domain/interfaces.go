package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByChatID(ctx context.Context, chatID int64) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
}

// CourseRepository defines course data access operations
type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	FindByID(ctx context.Context, id uint) (*Course, error)
	FindByTitle(ctx context.Context, title string) (*Course, error)
	List(ctx context.Context) ([]Course, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id uint) error
}

// EnrollmentRepository defines enrollment data access operations, including
// the two scheduler scans over lifecycle dates.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *Enrollment) error
	ListByUser(ctx context.Context, userID uint) ([]Enrollment, error)
	StartingOn(ctx context.Context, day time.Time) ([]Enrollment, error)
	EndingOn(ctx context.Context, day time.Time) ([]Enrollment, error)
	MarkStartNotified(ctx context.Context, id uint, day time.Time) error
	MarkEndNotified(ctx context.Context, id uint, day time.Time) error
}

// CertificateRepository defines certificate data access operations
type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	ListByUser(ctx context.Context, userID uint) ([]Certificate, error)
	List(ctx context.Context) ([]Certificate, error)
}

// SessionStore maps a chat identity to its in-progress wizard session.
// Implementations hold no business logic.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, chatID int64) error
}

// Gateway delivers outbound messages through the chat transport. Delivery is
// best-effort: callers log failures and never let them alter wizard state.
type Gateway interface {
	Send(ctx context.Context, chatID int64, text string, menu *Menu) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
	SendDocument(ctx context.Context, chatID int64, fileID, caption string) error
}

// AccessService answers authorization questions about chat identities.
type AccessService interface {
	IsAdmin(chatID int64) bool
}

// NotificationService defines the out-of-band notification side channel.
type NotificationService interface {
	SendSMS(to, message string) error
}

// RegisterInput carries the answers collected by the registration wizard.
// Language is the registering client's reported language code, empty when
// the transport did not report one.
type RegisterInput struct {
	ChatID         int64
	Name           string
	Age            int
	Phone          string
	PhotoFileID    string
	DocumentFileID string
	Language       string
}

// CourseInput carries the answers collected by the course wizards.
type CourseInput struct {
	Title       string
	Description string
	Price       int
	StartDate   time.Time
	EndDate     time.Time
}

// CourseEdit is a partial course update; nil fields stay unchanged.
type CourseEdit struct {
	Title       *string
	Description *string
	Price       *int
}

// AccountService defines account business logic: the commit actions of the
// registration and authentication wizards plus logout.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, chatID int64, phone string) (*User, error)
	Logout(ctx context.Context, chatID int64) (*User, error)
	ByChat(ctx context.Context, chatID int64) (*User, error)
}

// CatalogService defines course catalog and enrollment business logic.
type CatalogService interface {
	Courses(ctx context.Context) ([]Course, error)
	Course(ctx context.Context, id uint) (*Course, error)
	CoursesForChat(ctx context.Context, chatID int64) ([]Course, error)
	CreateCourse(ctx context.Context, input CourseInput) (*Course, error)
	UpdateCourse(ctx context.Context, id uint, input CourseInput) (*Course, error)
	EditCourse(ctx context.Context, id uint, edit CourseEdit) (*Course, error)
	DeleteCourse(ctx context.Context, id uint) (*Course, error)
	Enroll(ctx context.Context, chatID int64, courseID uint) (*Course, error)
}

// CertificateService defines certificate issuance and lookup.
type CertificateService interface {
	Issue(ctx context.Context, userID uint, title, fileID string) (*Certificate, *User, error)
	ForChat(ctx context.Context, chatID int64) ([]Certificate, error)
	All(ctx context.Context) ([]Certificate, error)
}

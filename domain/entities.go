package domain

import "time"

// WizardKind names a multi-step conversational flow.
type WizardKind string

const (
	WizardRegistration      WizardKind = "registration"
	WizardAuth              WizardKind = "auth"
	WizardCourseAdd         WizardKind = "course_add"
	WizardCourseEdit        WizardKind = "course_edit"
	WizardCourseTitle       WizardKind = "course_edit_title"
	WizardCourseDescription WizardKind = "course_edit_description"
	WizardCoursePrice       WizardKind = "course_edit_price"
	WizardCertificate       WizardKind = "certificate"
)

// Session holds one user's wizard progress: the step awaiting input and the
// answers collected so far. It lives only while the wizard is in progress.
type Session struct {
	ChatID    int64             `json:"chat_id"`
	Wizard    WizardKind        `json:"wizard"`
	Step      string            `json:"step"`
	Collected map[string]string `json:"collected"`
	StartedAt time.Time         `json:"started_at"`
}

// User represents a student or administrator account.
// ChatID is the Telegram identity and is nil while the account is logged out.
type User struct {
	ID             uint
	ChatID         *int64
	Name           string
	Age            int
	Phone          string
	PhotoFileID    string
	DocumentFileID string
	Active         bool
	Language       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Course represents a course in the catalog.
type Course struct {
	ID          uint
	Title       string
	Description string
	Price       int
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Enrollment links a user to a course. StartNotifiedOn and EndNotifiedOn
// record the calendar day a lifecycle notification was delivered, so a
// repeated scan within the same day stays silent.
type Enrollment struct {
	ID              uint
	UserID          uint
	CourseID        uint
	StartDate       *time.Time
	EndDate         *time.Time
	Completed       bool
	StartNotifiedOn *time.Time
	EndNotifiedOn   *time.Time
	CreatedAt       time.Time
}

// Certificate is issued to a user by an administrator.
type Certificate struct {
	ID        uint
	UserID    uint
	Title     string
	FileID    string
	CreatedAt time.Time
}

// Date truncates t to midnight UTC. All course and enrollment dates are
// stored in this form so equality against "today" works across drivers.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

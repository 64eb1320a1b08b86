package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// EnrollmentRepositoryImpl implements domain.EnrollmentRepository using GORM
type EnrollmentRepositoryImpl struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) domain.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{db: db}
}

// Create implements domain.EnrollmentRepository. The (user, course) unique
// index maps to domain.ErrAlreadyEnrolled.
func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	dbEnr := enrollmentToDB(enrollment)
	if err := r.db.WithContext(ctx).Create(dbEnr).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrAlreadyEnrolled
		}
		return err
	}
	enrollment.ID = dbEnr.ID
	return nil
}

// ListByUser implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]domain.Enrollment, error) {
	var dbEnrs []DBEnrollment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&dbEnrs).Error; err != nil {
		return nil, err
	}
	return toDomainEnrollments(dbEnrs), nil
}

// StartingOn returns enrollments whose course starts on the given day and
// which have not yet been notified for that day.
func (r *EnrollmentRepositoryImpl) StartingOn(ctx context.Context, day time.Time) ([]domain.Enrollment, error) {
	day = domain.Date(day)
	var dbEnrs []DBEnrollment
	err := r.db.WithContext(ctx).
		Where("start_date = ? AND (start_notified_on IS NULL OR start_notified_on <> ?)", day, day).
		Order("id").Find(&dbEnrs).Error
	if err != nil {
		return nil, err
	}
	return toDomainEnrollments(dbEnrs), nil
}

// EndingOn returns enrollments whose course ends on the given day and which
// have not yet been notified for that day.
func (r *EnrollmentRepositoryImpl) EndingOn(ctx context.Context, day time.Time) ([]domain.Enrollment, error) {
	day = domain.Date(day)
	var dbEnrs []DBEnrollment
	err := r.db.WithContext(ctx).
		Where("end_date = ? AND (end_notified_on IS NULL OR end_notified_on <> ?)", day, day).
		Order("id").Find(&dbEnrs).Error
	if err != nil {
		return nil, err
	}
	return toDomainEnrollments(dbEnrs), nil
}

// MarkStartNotified implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) MarkStartNotified(ctx context.Context, id uint, day time.Time) error {
	return r.db.WithContext(ctx).Model(&DBEnrollment{}).Where("id = ?", id).
		Update("start_notified_on", domain.Date(day)).Error
}

// MarkEndNotified implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) MarkEndNotified(ctx context.Context, id uint, day time.Time) error {
	return r.db.WithContext(ctx).Model(&DBEnrollment{}).Where("id = ?", id).
		Update("end_notified_on", domain.Date(day)).Error
}

func toDomainEnrollments(dbEnrs []DBEnrollment) []domain.Enrollment {
	enrollments := make([]domain.Enrollment, 0, len(dbEnrs))
	for i := range dbEnrs {
		enrollments = append(enrollments, *enrollmentToDomain(&dbEnrs[i]))
	}
	return enrollments
}

package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// CourseRepositoryImpl implements domain.CourseRepository using GORM
type CourseRepositoryImpl struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) domain.CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

// Create implements domain.CourseRepository. A title uniqueness violation is
// reported as domain.ErrCourseTitleTaken.
func (r *CourseRepositoryImpl) Create(ctx context.Context, course *domain.Course) error {
	dbCourse := courseToDB(course)
	if err := r.db.WithContext(ctx).Create(dbCourse).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrCourseTitleTaken
		}
		return err
	}
	course.ID = dbCourse.ID
	return nil
}

// FindByID implements domain.CourseRepository
func (r *CourseRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Course, error) {
	var dbCourse DBCourse
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbCourse).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return courseToDomain(&dbCourse), nil
}

// FindByTitle implements domain.CourseRepository
func (r *CourseRepositoryImpl) FindByTitle(ctx context.Context, title string) (*domain.Course, error) {
	var dbCourse DBCourse
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&dbCourse).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return courseToDomain(&dbCourse), nil
}

// List implements domain.CourseRepository
func (r *CourseRepositoryImpl) List(ctx context.Context) ([]domain.Course, error) {
	var dbCourses []DBCourse
	if err := r.db.WithContext(ctx).Order("id").Find(&dbCourses).Error; err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(dbCourses))
	for i := range dbCourses {
		courses = append(courses, *courseToDomain(&dbCourses[i]))
	}
	return courses, nil
}

// Update implements domain.CourseRepository
func (r *CourseRepositoryImpl) Update(ctx context.Context, course *domain.Course) error {
	dbCourse := courseToDB(course)
	err := r.db.WithContext(ctx).Model(&DBCourse{}).Where("id = ?", dbCourse.ID).
		Select("title", "description", "price", "start_date", "end_date").
		Updates(dbCourse).Error
	if isDuplicate(err) {
		return domain.ErrCourseTitleTaken
	}
	return err
}

// Delete implements domain.CourseRepository. Enrollments referencing the
// course are removed in the same transaction.
func (r *CourseRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&DBEnrollment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&DBCourse{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCourseNotFound
		}
		return nil
	})
}

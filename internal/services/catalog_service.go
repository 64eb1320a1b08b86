package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// CatalogServiceImpl implements domain.CatalogService
type CatalogServiceImpl struct {
	courseRepo     domain.CourseRepository
	userRepo       domain.UserRepository
	enrollmentRepo domain.EnrollmentRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(courseRepo domain.CourseRepository, userRepo domain.UserRepository, enrollmentRepo domain.EnrollmentRepository) domain.CatalogService {
	return &CatalogServiceImpl{
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Courses implements domain.CatalogService
func (s *CatalogServiceImpl) Courses(ctx context.Context) ([]domain.Course, error) {
	return s.courseRepo.List(ctx)
}

// Course implements domain.CatalogService
func (s *CatalogServiceImpl) Course(ctx context.Context, id uint) (*domain.Course, error) {
	return s.courseRepo.FindByID(ctx, id)
}

// CoursesForChat returns the courses the chat's account is enrolled in.
func (s *CatalogServiceImpl) CoursesForChat(ctx context.Context, chatID int64) ([]domain.Course, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0, len(enrollments))
	for _, enr := range enrollments {
		course, err := s.courseRepo.FindByID(ctx, enr.CourseID)
		if err != nil {
			// A course deleted after enrollment is skipped, not fatal.
			continue
		}
		courses = append(courses, *course)
	}
	return courses, nil
}

// checkTitleFree fails fast when another course already carries the title.
// The unique constraint still backs a racing write.
func (s *CatalogServiceImpl) checkTitleFree(ctx context.Context, title string, selfID uint) error {
	other, err := s.courseRepo.FindByTitle(ctx, title)
	if errors.Is(err, domain.ErrCourseNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != selfID {
		return domain.ErrCourseTitleTaken
	}
	return nil
}

// CreateCourse implements domain.CatalogService. A duplicate title surfaces
// as domain.ErrCourseTitleTaken.
func (s *CatalogServiceImpl) CreateCourse(ctx context.Context, input domain.CourseInput) (*domain.Course, error) {
	if err := s.checkTitleFree(ctx, input.Title, 0); err != nil {
		return nil, err
	}
	start := domain.Date(input.StartDate)
	end := domain.Date(input.EndDate)
	course := &domain.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		StartDate:   &start,
		EndDate:     &end,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse implements domain.CatalogService. The new title must be free
// among all other courses.
func (s *CatalogServiceImpl) UpdateCourse(ctx context.Context, id uint, input domain.CourseInput) (*domain.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTitleFree(ctx, input.Title, id); err != nil {
		return nil, err
	}

	start := domain.Date(input.StartDate)
	end := domain.Date(input.EndDate)
	course.Title = input.Title
	course.Description = input.Description
	course.Price = input.Price
	course.StartDate = &start
	course.EndDate = &end

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// EditCourse implements domain.CatalogService: a single-field update for the
// quick-edit buttons, leaving the remaining fields untouched.
func (s *CatalogServiceImpl) EditCourse(ctx context.Context, id uint, edit domain.CourseEdit) (*domain.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if edit.Title != nil && *edit.Title != course.Title {
		if err := s.checkTitleFree(ctx, *edit.Title, id); err != nil {
			return nil, err
		}
		course.Title = *edit.Title
	}
	if edit.Description != nil {
		course.Description = *edit.Description
	}
	if edit.Price != nil {
		course.Price = *edit.Price
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse implements domain.CatalogService
func (s *CatalogServiceImpl) DeleteCourse(ctx context.Context, id uint) (*domain.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return course, nil
}

// Enroll implements domain.CatalogService. The enrollment inherits the
// course's lifecycle dates; a second enrollment in the same course fails
// with domain.ErrAlreadyEnrolled.
func (s *CatalogServiceImpl) Enroll(ctx context.Context, chatID int64, courseID uint) (*domain.Course, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		UserID:    user.ID,
		CourseID:  course.ID,
		StartDate: course.StartDate,
		EndDate:   course.EndDate,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to enroll in %q: %w", course.Title, err)
	}
	return course, nil
}

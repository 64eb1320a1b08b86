package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/mocks"
)

func TestCatalogCreateCourseNormalizesDates(t *testing.T) {
	courses := mocks.NewMockCourseRepository()
	var created *domain.Course
	courses.CreateFunc = func(_ context.Context, course *domain.Course) error {
		created = course
		return nil
	}
	svc := NewCatalogService(courses, mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())

	_, err := svc.CreateCourse(context.Background(), domain.CourseInput{
		Title:     "Go",
		StartDate: time.Date(2026, 9, 1, 15, 30, 0, 0, time.FixedZone("X", 3600)),
		EndDate:   time.Date(2026, 12, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NotNil(t, created.StartDate)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *created.StartDate)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), *created.EndDate)
}

func TestCatalogCreateCourseDuplicateTitle(t *testing.T) {
	courses := mocks.NewMockCourseRepository()
	courses.FindByTitleFunc = func(_ context.Context, title string) (*domain.Course, error) {
		return &domain.Course{ID: 9, Title: title}, nil
	}
	courses.CreateFunc = func(_ context.Context, _ *domain.Course) error {
		t.Fatal("no create expected after the title check fails")
		return nil
	}
	svc := NewCatalogService(courses, mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())

	_, err := svc.CreateCourse(context.Background(), domain.CourseInput{Title: "Go"})
	assert.ErrorIs(t, err, domain.ErrCourseTitleTaken)
}

func TestCatalogUpdateCourseKeepsOwnTitle(t *testing.T) {
	courses := mocks.NewMockCourseRepository()
	courses.FindByIDFunc = func(_ context.Context, id uint) (*domain.Course, error) {
		return &domain.Course{ID: id, Title: "Go"}, nil
	}
	// The only course carrying the title is the one being updated.
	courses.FindByTitleFunc = func(_ context.Context, title string) (*domain.Course, error) {
		return &domain.Course{ID: 5, Title: title}, nil
	}
	svc := NewCatalogService(courses, mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())

	_, err := svc.UpdateCourse(context.Background(), 5, domain.CourseInput{
		Title:     "Go",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
}

func TestCatalogEditCourse(t *testing.T) {
	newCourses := func() *mocks.MockCourseRepository {
		courses := mocks.NewMockCourseRepository()
		courses.FindByIDFunc = func(_ context.Context, id uint) (*domain.Course, error) {
			return &domain.Course{ID: id, Title: "Go", Description: "Basics", Price: 1000}, nil
		}
		return courses
	}

	t.Run("changes only the given field", func(t *testing.T) {
		courses := newCourses()
		var updated *domain.Course
		courses.UpdateFunc = func(_ context.Context, course *domain.Course) error {
			updated = course
			return nil
		}
		svc := NewCatalogService(courses, mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())

		price := 2500
		course, err := svc.EditCourse(context.Background(), 5, domain.CourseEdit{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 2500, course.Price)
		require.NotNil(t, updated)
		assert.Equal(t, "Go", updated.Title)
		assert.Equal(t, "Basics", updated.Description)
	})

	t.Run("new title must be free", func(t *testing.T) {
		courses := newCourses()
		courses.FindByTitleFunc = func(_ context.Context, title string) (*domain.Course, error) {
			return &domain.Course{ID: 9, Title: title}, nil
		}
		svc := NewCatalogService(courses, mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())

		title := "SQL"
		_, err := svc.EditCourse(context.Background(), 5, domain.CourseEdit{Title: &title})
		assert.ErrorIs(t, err, domain.ErrCourseTitleTaken)
	})

	t.Run("unknown course", func(t *testing.T) {
		svc := NewCatalogService(mocks.NewMockCourseRepository(), mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())
		title := "Go"
		_, err := svc.EditCourse(context.Background(), 5, domain.CourseEdit{Title: &title})
		assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	})
}

func TestCatalogCoursesForChatSkipsDeleted(t *testing.T) {
	chatID := int64(100)
	users := mocks.NewMockUserRepository()
	users.FindByChatIDFunc = func(_ context.Context, _ int64) (*domain.User, error) {
		return &domain.User{ID: 3, ChatID: &chatID, Active: true}, nil
	}
	enrollments := mocks.NewMockEnrollmentRepository()
	enrollments.ListByUserFunc = func(_ context.Context, _ uint) ([]domain.Enrollment, error) {
		return []domain.Enrollment{
			{ID: 1, UserID: 3, CourseID: 1},
			{ID: 2, UserID: 3, CourseID: 2}, // deleted since enrollment
		}, nil
	}
	courses := mocks.NewMockCourseRepository()
	courses.FindByIDFunc = func(_ context.Context, id uint) (*domain.Course, error) {
		if id == 1 {
			return &domain.Course{ID: 1, Title: "Go"}, nil
		}
		return nil, domain.ErrCourseNotFound
	}

	svc := NewCatalogService(courses, users, enrollments)
	got, err := svc.CoursesForChat(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go", got[0].Title)
}

func TestCatalogEnrollInheritsCourseDates(t *testing.T) {
	chatID := int64(100)
	start := domain.Date(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	end := domain.Date(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))

	users := mocks.NewMockUserRepository()
	users.FindByChatIDFunc = func(_ context.Context, _ int64) (*domain.User, error) {
		return &domain.User{ID: 3, ChatID: &chatID, Active: true}, nil
	}
	courses := mocks.NewMockCourseRepository()
	courses.FindByIDFunc = func(_ context.Context, id uint) (*domain.Course, error) {
		return &domain.Course{ID: id, Title: "Go", StartDate: &start, EndDate: &end}, nil
	}
	enrollments := mocks.NewMockEnrollmentRepository()
	var created *domain.Enrollment
	enrollments.CreateFunc = func(_ context.Context, enr *domain.Enrollment) error {
		created = enr
		return nil
	}

	svc := NewCatalogService(courses, users, enrollments)
	course, err := svc.Enroll(context.Background(), 100, 2)
	require.NoError(t, err)

	assert.Equal(t, "Go", course.Title)
	require.NotNil(t, created)
	assert.Equal(t, uint(3), created.UserID)
	assert.Equal(t, uint(2), created.CourseID)
	assert.Equal(t, &start, created.StartDate)
	assert.Equal(t, &end, created.EndDate)
}

func TestCatalogDeleteCourseReturnsDeleted(t *testing.T) {
	courses := mocks.NewMockCourseRepository()
	courses.FindByIDFunc = func(_ context.Context, id uint) (*domain.Course, error) {
		return &domain.Course{ID: id, Title: "Go"}, nil
	}
	var deleted uint
	courses.DeleteFunc = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	svc := NewCatalogService(courses, mocks.NewMockUserRepository(), mocks.NewMockEnrollmentRepository())
	course, err := svc.DeleteCourse(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Go", course.Title)
	assert.Equal(t, uint(5), deleted)
}

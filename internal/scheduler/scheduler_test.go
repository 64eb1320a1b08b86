package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/mocks"
)

type fixture struct {
	scheduler   *Scheduler
	enrollments *mocks.MockEnrollmentRepository
	users       *mocks.MockUserRepository
	courses     *mocks.MockCourseRepository
	gateway     *mocks.MockGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		enrollments: mocks.NewMockEnrollmentRepository(),
		users:       mocks.NewMockUserRepository(),
		courses:     mocks.NewMockCourseRepository(),
		gateway:     mocks.NewMockGateway(),
	}
	f.scheduler = New(f.enrollments, f.users, f.courses, f.gateway, 9, time.UTC, log)
	return f
}

var sweepTime = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func TestRunOnceStartNotification(t *testing.T) {
	f := newFixture(t)

	start := domain.Date(sweepTime)
	f.enrollments.StartingOnFunc = func(_ context.Context, day time.Time) ([]domain.Enrollment, error) {
		assert.Equal(t, start, day)
		return []domain.Enrollment{{ID: 1, UserID: 3, CourseID: 2, StartDate: &start}}, nil
	}
	chatID := int64(100)
	f.users.FindByIDFunc = func(_ context.Context, _ uint) (*domain.User, error) {
		return &domain.User{ID: 3, ChatID: &chatID, Name: "Aliya", Active: true}, nil
	}
	f.courses.FindByIDFunc = func(_ context.Context, _ uint) (*domain.Course, error) {
		return &domain.Course{ID: 2, Title: "Go"}, nil
	}
	var marked []uint
	f.enrollments.MarkStartNotifiedFunc = func(_ context.Context, id uint, day time.Time) error {
		assert.Equal(t, start, day)
		marked = append(marked, id)
		return nil
	}

	require.NoError(t, f.scheduler.RunOnce(context.Background(), sweepTime))

	sent := f.gateway.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, chatID, sent[0].ChatID)
	assert.Contains(t, sent[0].Text, "«Go» starts today")
	assert.Equal(t, []uint{1}, marked)
}

func TestRunOnceEndNotification(t *testing.T) {
	f := newFixture(t)

	end := domain.Date(sweepTime)
	f.enrollments.EndingOnFunc = func(_ context.Context, _ time.Time) ([]domain.Enrollment, error) {
		return []domain.Enrollment{{ID: 5, UserID: 3, CourseID: 2, EndDate: &end}}, nil
	}
	chatID := int64(100)
	f.users.FindByIDFunc = func(_ context.Context, _ uint) (*domain.User, error) {
		return &domain.User{ID: 3, ChatID: &chatID, Active: true}, nil
	}
	f.courses.FindByIDFunc = func(_ context.Context, _ uint) (*domain.Course, error) {
		return &domain.Course{ID: 2, Title: "Go"}, nil
	}
	var marked []uint
	f.enrollments.MarkEndNotifiedFunc = func(_ context.Context, id uint, _ time.Time) error {
		marked = append(marked, id)
		return nil
	}

	require.NoError(t, f.scheduler.RunOnce(context.Background(), sweepTime))

	sent := f.gateway.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "«Go» ends today")
	assert.Equal(t, []uint{5}, marked)
}

func TestRunOnceDeliveryFailureNotMarked(t *testing.T) {
	f := newFixture(t)

	f.enrollments.StartingOnFunc = func(_ context.Context, _ time.Time) ([]domain.Enrollment, error) {
		return []domain.Enrollment{
			{ID: 1, UserID: 3, CourseID: 2},
			{ID: 2, UserID: 4, CourseID: 2},
		}, nil
	}
	chats := map[uint]int64{3: 100, 4: 101}
	f.users.FindByIDFunc = func(_ context.Context, id uint) (*domain.User, error) {
		chatID := chats[id]
		return &domain.User{ID: id, ChatID: &chatID, Active: true}, nil
	}
	f.gateway.SendFunc = func(_ context.Context, chatID int64, _ string, _ *domain.Menu) error {
		if chatID == 100 {
			return errors.New("blocked by user")
		}
		return nil
	}
	var marked []uint
	f.enrollments.MarkStartNotifiedFunc = func(_ context.Context, id uint, _ time.Time) error {
		marked = append(marked, id)
		return nil
	}

	require.NoError(t, f.scheduler.RunOnce(context.Background(), sweepTime))

	// Only the delivered notification is deduplicated; the failed one stays
	// eligible for the next sweep.
	assert.Equal(t, []uint{2}, marked)
}

func TestRunOnceSkipsUnboundUsers(t *testing.T) {
	f := newFixture(t)

	f.enrollments.StartingOnFunc = func(_ context.Context, _ time.Time) ([]domain.Enrollment, error) {
		return []domain.Enrollment{
			{ID: 1, UserID: 3, CourseID: 2},
			{ID: 2, UserID: 4, CourseID: 2},
		}, nil
	}
	f.users.FindByIDFunc = func(_ context.Context, id uint) (*domain.User, error) {
		if id == 3 {
			// Logged out: no chat binding.
			return &domain.User{ID: 3, Active: false}, nil
		}
		return nil, domain.ErrUserNotFound
	}

	require.NoError(t, f.scheduler.RunOnce(context.Background(), sweepTime))
	assert.Empty(t, f.gateway.Sent())
}

func TestRunOnceScanFailure(t *testing.T) {
	f := newFixture(t)
	f.enrollments.StartingOnFunc = func(_ context.Context, _ time.Time) ([]domain.Enrollment, error) {
		return nil, errors.New("db down")
	}

	err := f.scheduler.RunOnce(context.Background(), sweepTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting enrollments")
}

func TestRunOnceCourseLookupFallsBack(t *testing.T) {
	f := newFixture(t)

	f.enrollments.StartingOnFunc = func(_ context.Context, _ time.Time) ([]domain.Enrollment, error) {
		return []domain.Enrollment{{ID: 1, UserID: 3, CourseID: 2}}, nil
	}
	chatID := int64(100)
	f.users.FindByIDFunc = func(_ context.Context, _ uint) (*domain.User, error) {
		return &domain.User{ID: 3, ChatID: &chatID, Active: true}, nil
	}
	// Course lookup keeps its default not-found behavior.

	require.NoError(t, f.scheduler.RunOnce(context.Background(), sweepTime))

	sent := f.gateway.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "course #2")
}

func TestNextTick(t *testing.T) {
	s := New(nil, nil, nil, nil, 9, time.UTC, logrus.New())

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before the hour fires same day",
			now:  time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC),
			want: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "after the hour fires next day",
			now:  time.Date(2026, 9, 1, 9, 0, 1, 0, time.UTC),
			want: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.nextTick(tt.now))
		})
	}
}

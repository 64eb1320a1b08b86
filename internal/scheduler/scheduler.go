// Package scheduler drives the date-based course lifecycle notifications:
// once per day it scans enrollments whose course starts or ends today and
// messages the enrolled users.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// Scheduler owns the daily notification sweep.
type Scheduler struct {
	enrollments domain.EnrollmentRepository
	users       domain.UserRepository
	courses     domain.CourseRepository
	gateway     domain.Gateway
	hour        int
	loc         *time.Location
	log         *logrus.Entry
}

func New(
	enrollments domain.EnrollmentRepository,
	users domain.UserRepository,
	courses domain.CourseRepository,
	gateway domain.Gateway,
	hour int,
	loc *time.Location,
	log *logrus.Logger,
) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		enrollments: enrollments,
		users:       users,
		courses:     courses,
		gateway:     gateway,
		hour:        hour,
		loc:         loc,
		log:         log.WithField("component", "scheduler"),
	}
}

// Run fires RunOnce at the configured hour every day until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.nextTick(time.Now().In(s.loc))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case now := <-timer.C:
			if err := s.RunOnce(ctx, now); err != nil {
				s.log.WithError(err).Error("daily notification sweep failed")
			}
		}
	}
}

func (s *Scheduler) nextTick(now time.Time) time.Time {
	tick := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, s.loc)
	if !tick.After(now) {
		tick = tick.AddDate(0, 0, 1)
	}
	return tick
}

// RunOnce scans for courses starting and ending on now's calendar day and
// notifies every enrolled, reachable user. Each notification has its own
// error boundary: one failed lookup or send never blocks the rest of the
// sweep, and an enrollment is marked notified only after its message was
// actually delivered, so failed ones are retried on the next run.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	day := domain.Date(now.In(s.loc))

	starting, err := s.enrollments.StartingOn(ctx, day)
	if err != nil {
		return fmt.Errorf("list starting enrollments: %w", err)
	}
	for i := range starting {
		s.notify(ctx, &starting[i], day, true)
	}

	ending, err := s.enrollments.EndingOn(ctx, day)
	if err != nil {
		return fmt.Errorf("list ending enrollments: %w", err)
	}
	for i := range ending {
		s.notify(ctx, &ending[i], day, false)
	}
	return nil
}

func (s *Scheduler) notify(ctx context.Context, enr *domain.Enrollment, day time.Time, start bool) {
	log := s.log.WithFields(logrus.Fields{
		"enrollment_id": enr.ID,
		"user_id":       enr.UserID,
		"course_id":     enr.CourseID,
	})

	user, err := s.users.FindByID(ctx, enr.UserID)
	if err != nil {
		log.WithError(err).Warn("skipping notification: user lookup failed")
		return
	}
	if user.ChatID == nil || !user.Active {
		log.Debug("skipping notification: user has no active chat")
		return
	}

	title := fmt.Sprintf("course #%d", enr.CourseID)
	if course, err := s.courses.FindByID(ctx, enr.CourseID); err == nil {
		title = course.Title
	}

	var text string
	if start {
		text = fmt.Sprintf("📅 Your course «%s» starts today!", title)
	} else {
		text = fmt.Sprintf("🏁 Your course «%s» ends today. Congratulations!", title)
	}

	if err := s.gateway.Send(ctx, *user.ChatID, text, nil); err != nil {
		log.WithError(err).Warn("notification delivery failed, will retry next run")
		return
	}

	var mark func(context.Context, uint, time.Time) error
	if start {
		mark = s.enrollments.MarkStartNotified
	} else {
		mark = s.enrollments.MarkEndNotified
	}
	if err := mark(ctx, enr.ID, day); err != nil {
		log.WithError(err).Error("failed to mark enrollment notified")
	}
}

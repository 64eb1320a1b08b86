package flows

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

// courseSteps is the shared step shape of the add and edit wizards: title,
// description, non-negative integer price, then a validated date range.
func courseSteps() []engine.Step {
	return []engine.Step{
		{
			Field:  "title",
			Prompt: "Enter the course title:",
			Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
				title := strings.TrimSpace(ev.Text)
				if title == "" {
					return "", domain.Invalid("⚠️ The title must not be empty.")
				}
				return title, nil
			},
		},
		{
			Field:  "description",
			Prompt: "Enter the course description:",
			Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
				desc := strings.TrimSpace(ev.Text)
				if desc == "" {
					return "", domain.Invalid("⚠️ The description must not be empty.")
				}
				return desc, nil
			},
		},
		{
			Field:  "price",
			Prompt: "Enter the course price:",
			Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
				price, err := strconv.Atoi(strings.TrimSpace(ev.Text))
				if err != nil || price < 0 {
					return "", domain.Invalid("⚠️ Enter a valid price (digits only).")
				}
				return strconv.Itoa(price), nil
			},
		},
		{
			Field:  "start_date",
			Prompt: "Enter the course start date (DD.MM.YYYY):",
			Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
				day, err := time.Parse(dateLayout, strings.TrimSpace(ev.Text))
				if err != nil {
					return "", domain.Invalid("⚠️ Invalid date format, expected DD.MM.YYYY.")
				}
				return day.Format(dateCanonical), nil
			},
		},
		{
			Field:  "end_date",
			Prompt: "Enter the course end date (DD.MM.YYYY):",
			Validate: func(_ context.Context, ev domain.Event, collected map[string]string) (string, error) {
				end, err := time.Parse(dateLayout, strings.TrimSpace(ev.Text))
				if err != nil {
					return "", domain.Invalid("⚠️ Invalid date format, expected DD.MM.YYYY.")
				}
				start, err := time.Parse(dateCanonical, collected["start_date"])
				if err != nil {
					return "", err
				}
				if end.Before(start) {
					return "", domain.Invalid("⚠️ The end date cannot be before the start date.")
				}
				return end.Format(dateCanonical), nil
			},
		},
	}
}

func collectedCourseInput(collected map[string]string) domain.CourseInput {
	price, _ := strconv.Atoi(collected["price"])
	start, _ := time.Parse(dateCanonical, collected["start_date"])
	end, _ := time.Parse(dateCanonical, collected["end_date"])
	return domain.CourseInput{
		Title:       collected["title"],
		Description: collected["description"],
		Price:       price,
		StartDate:   start,
		EndDate:     end,
	}
}

func courseAddFlow(deps Deps) *engine.Flow {
	return &engine.Flow{
		Kind:  domain.WizardCourseAdd,
		Guard: adminGuard(deps.Access),
		Steps: courseSteps(),
		Commit: func(ctx context.Context, chatID int64, collected map[string]string) (string, error) {
			course, err := deps.Catalog.CreateCourse(ctx, collectedCourseInput(collected))
			if errors.Is(err, domain.ErrCourseTitleTaken) {
				return "", engine.Abort("⚠️ A course with this title already exists.", err)
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Course «%s» created!", course.Title), nil
		},
	}
}

// courseEditFlow reuses the add wizard's step shape; the course being edited
// arrives pre-collected from the edit_course button.
func courseEditFlow(deps Deps) *engine.Flow {
	return &engine.Flow{
		Kind:  domain.WizardCourseEdit,
		Guard: adminGuard(deps.Access),
		Steps: courseSteps(),
		Commit: func(ctx context.Context, chatID int64, collected map[string]string) (string, error) {
			courseID, err := strconv.ParseUint(collected["course_id"], 10, 32)
			if err != nil {
				return "", fmt.Errorf("bad course id in session: %w", err)
			}
			course, err := deps.Catalog.UpdateCourse(ctx, uint(courseID), collectedCourseInput(collected))
			if errors.Is(err, domain.ErrCourseNotFound) {
				return "", engine.Abort("⚠️ Course not found.", err)
			}
			if errors.Is(err, domain.ErrCourseTitleTaken) {
				return "", engine.Abort("⚠️ A course with this title already exists.", err)
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Course «%s» updated!", course.Title), nil
		},
	}
}

// The single-field edit wizards cover the quick-edit buttons on a course
// card: one prompt, one validated answer, straight to the catalog. They
// reuse the matching step of the full wizard with a sharper prompt.
func courseFieldFlow(deps Deps, kind domain.WizardKind, step engine.Step, edit func(value string) domain.CourseEdit, done func(c *domain.Course) string) *engine.Flow {
	return &engine.Flow{
		Kind:  kind,
		Guard: adminGuard(deps.Access),
		Steps: []engine.Step{step},
		Commit: func(ctx context.Context, chatID int64, collected map[string]string) (string, error) {
			courseID, err := strconv.ParseUint(collected["course_id"], 10, 32)
			if err != nil {
				return "", fmt.Errorf("bad course id in session: %w", err)
			}
			course, err := deps.Catalog.EditCourse(ctx, uint(courseID), edit(collected[step.Field]))
			if errors.Is(err, domain.ErrCourseNotFound) {
				return "", engine.Abort("⚠️ Course not found.", err)
			}
			if errors.Is(err, domain.ErrCourseTitleTaken) {
				return "", engine.Abort("⚠️ A course with this title already exists.", err)
			}
			if err != nil {
				return "", err
			}
			return done(course), nil
		},
	}
}

func courseTitleFlow(deps Deps) *engine.Flow {
	step := courseSteps()[0]
	step.Prompt = "✏️ Enter the new course title:"
	return courseFieldFlow(deps, domain.WizardCourseTitle, step,
		func(v string) domain.CourseEdit { return domain.CourseEdit{Title: &v} },
		func(c *domain.Course) string { return fmt.Sprintf("✅ Title changed to «%s».", c.Title) })
}

func courseDescriptionFlow(deps Deps) *engine.Flow {
	step := courseSteps()[1]
	step.Prompt = "📝 Enter the new course description:"
	return courseFieldFlow(deps, domain.WizardCourseDescription, step,
		func(v string) domain.CourseEdit { return domain.CourseEdit{Description: &v} },
		func(*domain.Course) string { return "✅ Course description updated." })
}

func coursePriceFlow(deps Deps) *engine.Flow {
	step := courseSteps()[2]
	step.Prompt = "💰 Enter the new course price:"
	return courseFieldFlow(deps, domain.WizardCoursePrice, step,
		func(v string) domain.CourseEdit {
			price, _ := strconv.Atoi(v)
			return domain.CourseEdit{Price: &price}
		},
		func(c *domain.Course) string {
			return fmt.Sprintf("✅ Price of «%s» changed to %d.", c.Title, c.Price)
		})
}

func coursesCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		return sendCourseList(ctx, deps, chatID, "course")
	}
}

// myCoursesCommand shows the user's enrollments; administrators see the
// whole catalog with management buttons.
func myCoursesCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		if deps.Access.IsAdmin(chatID) {
			return sendCourseList(ctx, deps, chatID, "mycourse")
		}

		courses, err := deps.Catalog.CoursesForChat(ctx, chatID)
		if errors.Is(err, domain.ErrUserNotFound) {
			send(ctx, deps, chatID, msgNeedLogin, nil)
			return nil
		}
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			send(ctx, deps, chatID, "📭 No courses yet.", nil)
			return nil
		}

		menu := &domain.Menu{}
		for _, c := range courses {
			menu.Rows = append(menu.Rows, []domain.Button{{Label: c.Title, Data: fmt.Sprintf("mycourse:%d", c.ID)}})
		}
		send(ctx, deps, chatID, "📘 Your courses:", menu)
		return nil
	}
}

func sendCourseList(ctx context.Context, deps Deps, chatID int64, prefix string) error {
	courses, err := deps.Catalog.Courses(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		send(ctx, deps, chatID, "📭 No courses yet.", nil)
		return nil
	}

	menu := &domain.Menu{}
	for _, c := range courses {
		menu.Rows = append(menu.Rows, []domain.Button{{Label: c.Title, Data: fmt.Sprintf("%s:%d", prefix, c.ID)}})
	}
	send(ctx, deps, chatID, "📚 Available courses:\nChoose a course:", menu)
	return nil
}

func installCourseCallbacks(e *engine.Engine, deps Deps) {
	e.Callback("course", func(ctx context.Context, chatID int64, payload string) error {
		course, ok := lookupCourse(ctx, deps, chatID, payload)
		if !ok {
			return nil
		}
		menu := &domain.Menu{Rows: [][]domain.Button{
			{{Label: "✅ Enroll", Data: fmt.Sprintf("enroll:%d", course.ID)}},
			{{Label: "🔙 Back", Data: "back_to_courses"}},
		}}
		send(ctx, deps, chatID, courseLabel(course), menu)
		return nil
	})

	e.Callback("back_to_courses", func(ctx context.Context, chatID int64, _ string) error {
		return sendCourseList(ctx, deps, chatID, "course")
	})

	e.Callback("enroll", func(ctx context.Context, chatID int64, payload string) error {
		id, err := parseID(payload)
		if err != nil {
			return err
		}
		course, err := deps.Catalog.Enroll(ctx, chatID, id)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			send(ctx, deps, chatID, msgNeedLogin, nil)
			return nil
		case errors.Is(err, domain.ErrCourseNotFound):
			send(ctx, deps, chatID, "⚠️ Course not found.", nil)
			return nil
		case errors.Is(err, domain.ErrAlreadyEnrolled):
			send(ctx, deps, chatID, "⚠️ You are already enrolled in this course.", nil)
			return nil
		case err != nil:
			return err
		}
		send(ctx, deps, chatID, fmt.Sprintf("✅ You have enrolled in «%s»!", course.Title), nil)
		return nil
	})

	e.Callback("mycourse", func(ctx context.Context, chatID int64, payload string) error {
		course, ok := lookupCourse(ctx, deps, chatID, payload)
		if !ok {
			return nil
		}
		menu := &domain.Menu{}
		if deps.Access.IsAdmin(chatID) {
			menu.Rows = append(menu.Rows,
				[]domain.Button{
					{Label: "✏️ Edit", Data: fmt.Sprintf("edit_course:%d", course.ID)},
					{Label: "🗑 Delete", Data: fmt.Sprintf("delcourse:%d", course.ID)},
				},
				[]domain.Button{
					{Label: "✏️ Title", Data: fmt.Sprintf("edit_title:%d", course.ID)},
					{Label: "📝 Description", Data: fmt.Sprintf("edit_desc:%d", course.ID)},
					{Label: "💰 Price", Data: fmt.Sprintf("edit_price:%d", course.ID)},
				},
			)
		}
		menu.Rows = append(menu.Rows, []domain.Button{{Label: "🔙 Back", Data: "back_to_courses"}})
		send(ctx, deps, chatID, courseLabel(course), menu)
		return nil
	})

	e.Callback("add_course", func(ctx context.Context, chatID int64, _ string) error {
		return e.Begin(ctx, chatID, domain.WizardCourseAdd)
	})

	e.Callback("edit_course", func(ctx context.Context, chatID int64, payload string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		course, ok := lookupCourse(ctx, deps, chatID, payload)
		if !ok {
			return nil
		}
		send(ctx, deps, chatID, fmt.Sprintf("✏️ Editing course «%s».", course.Title), nil)
		return e.BeginWith(ctx, chatID, domain.WizardCourseEdit, map[string]string{
			"course_id": strconv.FormatUint(uint64(course.ID), 10),
		})
	})

	fieldEdit := func(kind domain.WizardKind) engine.CallbackFunc {
		return func(ctx context.Context, chatID int64, payload string) error {
			if !requireAdmin(ctx, deps, chatID) {
				return nil
			}
			course, ok := lookupCourse(ctx, deps, chatID, payload)
			if !ok {
				return nil
			}
			return e.BeginWith(ctx, chatID, kind, map[string]string{
				"course_id": strconv.FormatUint(uint64(course.ID), 10),
			})
		}
	}
	e.Callback("edit_title", fieldEdit(domain.WizardCourseTitle))
	e.Callback("edit_desc", fieldEdit(domain.WizardCourseDescription))
	e.Callback("edit_price", fieldEdit(domain.WizardCoursePrice))

	e.Callback("delcourse", func(ctx context.Context, chatID int64, payload string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		id, err := parseID(payload)
		if err != nil {
			return err
		}
		course, err := deps.Catalog.DeleteCourse(ctx, id)
		if errors.Is(err, domain.ErrCourseNotFound) {
			send(ctx, deps, chatID, "⚠️ Course not found.", nil)
			return nil
		}
		if err != nil {
			return err
		}
		send(ctx, deps, chatID, fmt.Sprintf("🗑 Course «%s» deleted!", course.Title), nil)
		return nil
	})
}

func lookupCourse(ctx context.Context, deps Deps, chatID int64, payload string) (*domain.Course, bool) {
	id, err := parseID(payload)
	if err != nil {
		send(ctx, deps, chatID, msgNotFound, nil)
		return nil, false
	}
	course, err := deps.Catalog.Course(ctx, id)
	if err != nil {
		send(ctx, deps, chatID, "⚠️ Course not found.", nil)
		return nil, false
	}
	return course, true
}

func parseID(payload string) (uint, error) {
	id, err := strconv.ParseUint(payload, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad id %q: %w", payload, err)
	}
	return uint(id), nil
}

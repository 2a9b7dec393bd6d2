package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jobportal/internal/client/guard"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

func parsePage(args []string, at int) (int, error) {
	if len(args) <= at {
		return 1, nil
	}
	p, err := strconv.Atoi(args[at])
	if err != nil || p < 1 {
		return 0, fmt.Errorf("bad page %q", args[at])
	}
	return p, nil
}

// Jobs lists published jobs. Usage: jobs [page] [key=value ...] where key is
// one of category, type, level, mode, location.
func (a *App) Jobs(ctx context.Context, args []string) error {
	f := models.JobFilter{Page: 1}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			p, err := parsePage([]string{arg}, 0)
			if err != nil {
				return err
			}
			f.Page = p
			continue
		}
		switch k {
		case "category":
			f.Category = v
		case "type":
			f.EmploymentType = models.EmploymentType(v)
		case "level":
			f.ExperienceLevel = models.ExperienceLevel(v)
		case "mode":
			f.WorkMode = models.WorkMode(v)
		case "location":
			f.Location = v
		default:
			return usageError("jobs [page] [category=|type=|level=|mode=|location=...]")
		}
	}

	return a.open(ctx, "/jobs", func(ctx context.Context) error {
		page, err := a.jobService.Browse(ctx, f)
		if err != nil {
			return err
		}
		printJobs(a.out, page.Jobs)
		more := ""
		if page.HasNext {
			more = fmt.Sprintf(", next: jobs %d", page.Page+1)
		}
		printlnFn(fmt.Sprintf("Page %d, %d jobs total%s", page.Page, page.Total, more))
		return nil
	})
}

func (a *App) Job(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("job <id>")
	}
	return a.open(ctx, "/jobs/"+args[0], func(ctx context.Context) error {
		j, err := a.jobService.View(ctx, args[0])
		if err != nil {
			return err
		}
		printJob(a.out, j)
		return nil
	})
}

// PostJob walks through the job form. Featured posting is offered only to
// premium users.
func (a *App) PostJob(ctx context.Context, _ []string) error {
	return a.open(ctx, "/post-job", func(ctx context.Context) error {
		in, err := a.readJobInput(guard.HasPlan(a.store.User(), models.PlanPremium))
		if err != nil {
			return err
		}
		j, err := a.jobService.Post(ctx, in)
		if err != nil {
			return err
		}
		printlnFn("Job created:", j.ID)
		return nil
	})
}

func (a *App) MyJobs(ctx context.Context, _ []string) error {
	return a.open(ctx, "/my-jobs", func(ctx context.Context) error {
		jobs, err := a.jobService.Mine(ctx)
		if err != nil {
			return err
		}
		printJobs(a.out, jobs)
		return nil
	})
}

func (a *App) JobStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("job-status <id> <draft|published|closed|expired>")
	}
	status := models.JobStatus(args[1])
	switch status {
	case models.JobStatusDraft, models.JobStatusPublished, models.JobStatusClosed, models.JobStatusExpired:
	default:
		return usageError("job-status <id> <draft|published|closed|expired>")
	}

	return a.open(ctx, "/my-jobs", func(ctx context.Context) error {
		j, err := a.jobService.SetStatus(ctx, args[0], status)
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Job %s is now %s", j.ID, j.Status))
		return nil
	})
}

func (a *App) DeleteJob(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete-job <id>")
	}
	return a.open(ctx, "/my-jobs", func(ctx context.Context) error {
		if err := a.jobService.Delete(ctx, args[0]); err != nil {
			return err
		}
		printlnFn("Job deleted.")
		return nil
	})
}

func (a *App) readJobInput(allowFeatured bool) (models.JobInput, error) {
	var in models.JobInput
	r, w := a.reader, a.out

	title, err := GetRequiredText(r, "Title", w)
	if err != nil {
		return in, err
	}
	company, err := GetRequiredText(r, "Company name", w)
	if err != nil {
		return in, err
	}
	location, err := GetRequiredText(r, "Location", w)
	if err != nil {
		return in, err
	}
	mode, err := GetChoice(r, "Work mode", []string{"remote", "hybrid", "onsite"}, "onsite", w)
	if err != nil {
		return in, err
	}
	empType, err := GetChoice(r, "Employment type", []string{"full-time", "part-time", "contract", "freelance", "internship"}, "", w)
	if err != nil {
		return in, err
	}
	level, err := GetChoice(r, "Experience level", []string{"entry", "mid", "senior", "executive"}, "", w)
	if err != nil {
		return in, err
	}
	description, err := GetMultiline(r, "Description", w)
	if err != nil {
		return in, err
	}
	salaryMin, err := GetOptionalFloat(r, "Minimum salary", w)
	if err != nil {
		return in, err
	}
	salaryMax, err := GetOptionalFloat(r, "Maximum salary", w)
	if err != nil {
		return in, err
	}
	if salaryMin != nil && salaryMax != nil && *salaryMin > *salaryMax {
		return in, fmt.Errorf("minimum salary %.0f exceeds maximum %.0f", *salaryMin, *salaryMax)
	}
	deadline, err := GetOptionalDate(r, "Application deadline", w)
	if err != nil {
		return in, err
	}
	expires, err := GetOptionalDate(r, "Expires at", w)
	if err != nil {
		return in, err
	}
	status, err := GetChoice(r, "Status", []string{"draft", "published"}, "published", w)
	if err != nil {
		return in, err
	}

	wm := models.WorkMode(mode)
	et := models.EmploymentType(empType)
	el := models.ExperienceLevel(level)
	st := models.JobStatus(status)

	in = models.JobInput{
		Title:               &title,
		CompanyName:         &company,
		Location:            &location,
		WorkMode:            &wm,
		Description:         &description,
		EmploymentType:      &et,
		ExperienceLevel:     &el,
		SalaryMin:           salaryMin,
		SalaryMax:           salaryMax,
		ApplicationDeadline: deadline,
		ExpiresAt:           expires,
		Status:              &st,
	}

	if allowFeatured {
		featured, err := GetYesNo(r, "Feature this job", w)
		if err != nil {
			return in, err
		}
		in.IsFeatured = &featured
	}
	return in, nil
}

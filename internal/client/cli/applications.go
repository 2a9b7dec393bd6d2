package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// Apply prompts for the application form and a resume path.
func (a *App) Apply(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("apply <job-id>")
	}
	jobID := args[0]

	return a.open(ctx, "/applications", func(ctx context.Context) error {
		r, w := a.reader, a.out

		resume, err := GetRequiredText(r, "Path to resume (PDF)", w)
		if err != nil {
			return err
		}
		cover, err := GetMultiline(r, "Cover letter", w)
		if err != nil {
			return err
		}
		portfolio, err := getSimpleText(r, "Portfolio URL (optional)", w)
		if err != nil {
			return err
		}
		linkedin, err := getSimpleText(r, "LinkedIn URL (optional)", w)
		if err != nil {
			return err
		}
		github, err := getSimpleText(r, "GitHub URL (optional)", w)
		if err != nil {
			return err
		}
		salary, err := GetOptionalFloat(r, "Expected salary", w)
		if err != nil {
			return err
		}
		available, err := GetOptionalDate(r, "Available from", w)
		if err != nil {
			return err
		}
		notes, err := getSimpleText(r, "Additional notes (optional)", w)
		if err != nil {
			return err
		}

		app, err := a.applicationService.Apply(ctx, jobID, models.ApplicationInput{
			CoverLetter:      cover,
			PortfolioURL:     portfolio,
			LinkedinURL:      linkedin,
			GithubURL:        github,
			AdditionalNotes:  notes,
			ExpectedSalary:   salary,
			AvailabilityDate: available,
		}, resume)
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Application %s submitted (%s)", app.ID, app.Status))
		return nil
	})
}

func (a *App) Applications(ctx context.Context, _ []string) error {
	return a.open(ctx, "/applications", func(ctx context.Context) error {
		apps, err := a.applicationService.Mine(ctx)
		if err != nil {
			return err
		}
		printApplications(a.out, apps)
		return nil
	})
}

func (a *App) DeleteApplication(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete-application <application-id>")
	}
	return a.open(ctx, "/applications", func(ctx context.Context) error {
		if err := a.applicationService.Delete(ctx, args[0]); err != nil {
			return err
		}
		printlnFn("Application deleted.")
		return nil
	})
}

func (a *App) Resume(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("resume <application-id>")
	}
	return a.open(ctx, "/applications", func(ctx context.Context) error {
		path, err := a.applicationService.DownloadResume(ctx, args[0])
		if err != nil {
			return err
		}
		printlnFn("Resume saved to", path)
		return nil
	})
}

func (a *App) JobApplications(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("job-applications <job-id> [page]")
	}
	page, err := parsePage(args, 1)
	if err != nil {
		return err
	}
	jobID := args[0]

	return a.open(ctx, "/my-jobs/"+jobID+"/applications", func(ctx context.Context) error {
		res, err := a.applicationService.ForJob(ctx, jobID, page, 0)
		if err != nil {
			return err
		}
		printApplications(a.out, res.Applications)
		printlnFn(fmt.Sprintf("Page %d, %d applications total", res.Page, res.Total))
		return nil
	})
}

func (a *App) Accept(ctx context.Context, args []string) error {
	return a.review(ctx, args, "accept", a.applicationService.Accept)
}

func (a *App) Reject(ctx context.Context, args []string) error {
	return a.review(ctx, args, "reject", a.applicationService.Reject)
}

func (a *App) review(ctx context.Context, args []string, verb string, do func(ctx context.Context, jobID, applicationID string) (*models.Application, error)) error {
	if len(args) != 2 {
		return usageError(verb + " <job-id> <application-id>")
	}
	jobID, appID := args[0], args[1]

	return a.open(ctx, "/my-jobs/"+jobID+"/applications", func(ctx context.Context) error {
		app, err := do(ctx, jobID, appID)
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Application %s is now %s", app.ID, app.Status))
		return nil
	})
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

func formatSalary(j *models.Job) string {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%.0f-%.0f %s", *j.SalaryMin, *j.SalaryMax, j.SalaryCurrency)
	case j.SalaryMin != nil:
		return fmt.Sprintf("from %.0f %s", *j.SalaryMin, j.SalaryCurrency)
	case j.SalaryMax != nil:
		return fmt.Sprintf("up to %.0f %s", *j.SalaryMax, j.SalaryCurrency)
	case j.IsSalaryNegotiable:
		return "negotiable"
	}
	return "-"
}

func printJobs(w io.Writer, jobs []models.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tMODE\tSALARY\tSTATUS\t")
	for i := range jobs {
		j := &jobs[i]
		title := j.Title
		if j.IsFeatured {
			title = "* " + title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", j.ID, title, j.CompanyName, j.Location, j.WorkMode, formatSalary(j), j.Status)
	}
	_ = tw.Flush()
}

func printJob(w io.Writer, j *models.Job) {
	fmt.Fprintf(w, "%s at %s\n", j.Title, j.CompanyName)
	fmt.Fprintf(w, "  %s, %s, %s, %s\n", j.Location, j.WorkMode, j.EmploymentType, j.ExperienceLevel)
	fmt.Fprintf(w, "  Salary: %s\n", formatSalary(j))
	if j.ApplicationDeadline != nil {
		fmt.Fprintf(w, "  Apply by: %s\n", j.ApplicationDeadline.Format(DateLayout))
	}
	fmt.Fprintf(w, "  Status: %s, views: %d, applications: %d\n", j.Status, j.ViewCount, j.ApplicationCount)
	fmt.Fprintln(w)
	fmt.Fprintln(w, j.Description)
}

func printApplications(w io.Writer, apps []models.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB\tWHO\tSTATUS\tRESUME\tAPPLIED\t")
	for _, a := range apps {
		job := a.JobID
		if a.JobTitle != nil {
			job = *a.JobTitle
			if a.CompanyName != nil {
				job += " @ " + *a.CompanyName
			}
		}
		who := "-"
		if a.ApplicantEmail != nil {
			who = *a.ApplicantEmail
			if a.ApplicantName != nil {
				who = *a.ApplicantName + " <" + who + ">"
			}
		}
		resume := "no"
		if a.HasResume {
			resume = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", a.ID, job, who, a.Status, resume, a.CreatedAt.Format(DateLayout))
	}
	_ = tw.Flush()
}

func printPlans(w io.Writer, plans []models.Plan) {
	for _, p := range plans {
		fmt.Fprintf(w, "%s: %.0f %s for %d days\n", strings.ToUpper(string(p.PlanName)), p.Price, p.Currency, p.ValidFor)
		if p.Description != nil {
			fmt.Fprintf(w, "  %s\n", *p.Description)
		}
	}
}

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Fprintf(w, "  role: %s\n", u.Role)
	plan := "none"
	if p := u.PlanName(); p != "" {
		plan = string(p)
	}
	fmt.Fprintf(w, "  plan: %s\n", plan)
	fmt.Fprintf(w, "  email verified: %t\n", u.EmailVerified)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Jobs(ctx context.Context, args []string) error
	Job(ctx context.Context, args []string) error
	Apply(ctx context.Context, args []string) error
	Applications(ctx context.Context, args []string) error
	DeleteApplication(ctx context.Context, args []string) error
	Resume(ctx context.Context, args []string) error

	PostJob(ctx context.Context, args []string) error
	MyJobs(ctx context.Context, args []string) error
	JobStatus(ctx context.Context, args []string) error
	DeleteJob(ctx context.Context, args []string) error
	JobApplications(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error

	Pricing(ctx context.Context, args []string) error
	Buy(ctx context.Context, args []string) error
	PaymentReturn(ctx context.Context, args []string) error

	Where(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: jobs [page], job <id>, pricing, register, login, where, exit"
	helpSignedIn  = "Available commands: jobs [page], job <id>, apply <job-id>, applications, delete-application <id>, resume <application-id>, " +
		"post-job, my-jobs, job-status <id> <status>, delete-job <id>, job-applications <job-id> [page], accept <job-id> <application-id>, reject <job-id> <application-id>, " +
		"pricing, buy <plan>, payment-return, whoami, where, logout, exit"
)

// runREPL reads a line, takes the first token as the command and the rest as
// its arguments, and dispatches to a. The loop exits on scanner EOF, on
// "exit" or "quit", or when ctx is done.
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("jp %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			err = a.Register(ctx, args)
		case "login":
			err = a.Login(ctx, args)
		case "logout":
			err = a.Logout(ctx, args)
		case "whoami":
			err = a.WhoAmI(ctx, args)

		case "jobs":
			err = a.Jobs(ctx, args)
		case "job":
			err = a.Job(ctx, args)
		case "apply":
			err = a.Apply(ctx, args)
		case "applications":
			err = a.Applications(ctx, args)
		case "delete-application":
			err = a.DeleteApplication(ctx, args)
		case "resume":
			err = a.Resume(ctx, args)

		case "post-job":
			err = a.PostJob(ctx, args)
		case "my-jobs":
			err = a.MyJobs(ctx, args)
		case "job-status":
			err = a.JobStatus(ctx, args)
		case "delete-job":
			err = a.DeleteJob(ctx, args)
		case "job-applications":
			err = a.JobApplications(ctx, args)
		case "accept":
			err = a.Accept(ctx, args)
		case "reject":
			err = a.Reject(ctx, args)

		case "pricing":
			err = a.Pricing(ctx, args)
		case "buy":
			err = a.Buy(ctx, args)
		case "payment-return":
			err = a.PaymentReturn(ctx, args)

		case "where":
			err = a.Where(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

func (a *App) Pricing(ctx context.Context, _ []string) error {
	return a.open(ctx, "/pricing", func(ctx context.Context) error {
		plans, err := a.paymentService.Plans(ctx)
		if err != nil {
			return err
		}
		printPlans(a.out, plans)
		printlnFn("Use 'buy <plan>' to subscribe.")
		return nil
	})
}

// Buy starts a payment and saves the gateway form for a browser.
func (a *App) Buy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("buy <standard|premium>")
	}
	plan := models.PlanName(args[0])

	return a.open(ctx, "/checkout", func(ctx context.Context) error {
		co, err := a.paymentService.Initiate(ctx, plan)
		if err != nil {
			return err
		}
		printlnFn("Open this file in a browser to pay:", co.FormPath)
		printlnFn("Run 'payment-return' when the payment is done.")
		return nil
	})
}

// PaymentReturn is the landing screen after the gateway redirect: it always
// refreshes the user so a new plan shows up at once.
func (a *App) PaymentReturn(ctx context.Context, _ []string) error {
	return a.open(ctx, "/payment/return", func(ctx context.Context) error {
		u := a.paymentService.CompleteReturn(ctx)
		if u == nil {
			printlnFn("Session expired, please log in again.")
			return nil
		}
		plan := "none"
		if p := u.PlanName(); p != "" {
			plan = string(p)
		}
		printlnFn(fmt.Sprintf("Role: %s, plan: %s", u.Role, plan))
		return nil
	})
}

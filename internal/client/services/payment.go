package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/filex"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// paymentForm posts the signed parameters to the gateway as soon as it is
// opened in a browser.
var paymentForm = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<form method="POST" action="{{.URL}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

type formField struct {
	Name, Value string
}

// Checkout is a started payment: the gateway parameters and the saved form.
type Checkout struct {
	Initiation *models.PaymentInitiation
	FormPath   string
}

type PaymentService interface {
	Plans(ctx context.Context) ([]models.Plan, error)
	Initiate(ctx context.Context, plan models.PlanName) (*Checkout, error)
	// CompleteReturn refreshes the session after the gateway redirect and
	// returns the updated user, nil when the session is gone.
	CompleteReturn(ctx context.Context) *models.User
}

type paymentService struct {
	client      client.Client
	session     Session
	downloadDir string
	logger      logging.Logger
}

func NewPaymentService(c client.Client, session Session, downloadDir string, logger logging.Logger) PaymentService {
	return &paymentService{client: c, session: session, downloadDir: downloadDir, logger: logger.With("module", "payment")}
}

func (s *paymentService) Plans(ctx context.Context) ([]models.Plan, error) {
	plans, err := s.client.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans error: %w", err)
	}
	return plans, nil
}

func (s *paymentService) Initiate(ctx context.Context, plan models.PlanName) (*Checkout, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("unknown plan %q: %w", plan, client.ErrBadRequest)
	}

	pi, err := s.client.InitiatePayment(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("initiate payment error: %w", err)
	}

	page, err := RenderPaymentForm(pi)
	if err != nil {
		return nil, err
	}

	path, err := filex.WriteUnique(s.downloadDir, "payment-"+string(plan)+".html", page)
	if err != nil {
		return nil, fmt.Errorf("save payment form error: %w", err)
	}

	s.logger.Info(ctx, "payment form saved", "plan", plan, "path", path)
	return &Checkout{Initiation: pi, FormPath: path}, nil
}

func (s *paymentService) CompleteReturn(ctx context.Context) *models.User {
	s.session.FetchUser(ctx)
	return s.session.User()
}

// RenderPaymentForm builds the auto-submitting HTML form. Fields are sorted
// by name so the output is stable.
func RenderPaymentForm(pi *models.PaymentInitiation) ([]byte, error) {
	fields := make([]formField, 0, len(pi.Parameters))
	for k, v := range pi.Parameters {
		fields = append(fields, formField{Name: k, Value: v})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	var buf bytes.Buffer
	if err := paymentForm.Execute(&buf, struct {
		URL    string
		Fields []formField
	}{URL: pi.URL, Fields: fields}); err != nil {
		return nil, fmt.Errorf("render payment form error: %w", err)
	}
	return buf.Bytes(), nil
}

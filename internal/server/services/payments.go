package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/config"
	"github.com/dmitrijs2005/jobportal/internal/server/esewa"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PaymentGateway is the part of the eSewa gateway the payment flow uses.
type PaymentGateway interface {
	ProductCode() string
	PaymentURL() string
	FormParameters(totalAmount, transactionUUID, successURL, failureURL string) map[string]string
	VerifyCallback(c *esewa.Callback) error
	CheckStatus(ctx context.Context, totalAmount, transactionUUID string) (*esewa.StatusResult, error)
}

// Redirect error codes understood by the frontend.
const (
	PaymentErrInvalidResponse    = "invalid_response"
	PaymentErrMissingTransaction = "missing_transaction"
	PaymentErrUserNotFound       = "user_not_found"
	PaymentErrInvalidPlan        = "invalid_plan"
	PaymentErrPlanNotFound       = "plan_not_found"
	PaymentErrDatabase           = "database_error"
	PaymentErrProcessing         = "processing_error"
	PaymentErrUserCancelled      = "user_cancelled"
)

// CallbackParams are the query parameters of the success callback.
type CallbackParams struct {
	Data            string
	TransactionUUID string
	Plan            string
	UserID          string
}

type PaymentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     PaymentGateway
	frontendURL string
	backendURL  string
	logger      logging.Logger
	now         func() time.Time
}

func NewPaymentService(db *sql.DB, m repomanager.RepositoryManager, gw PaymentGateway, cfg *config.Config, logger logging.Logger) *PaymentService {
	return &PaymentService{
		db:          db,
		repomanager: m,
		gateway:     gw,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		backendURL:  strings.TrimRight(cfg.BackendURL, "/"),
		logger:      logger.With("module", "payments"),
		now:         time.Now,
	}
}

// Initiate records a pending transaction for plan and returns the signed
// form the client posts to eSewa.
func (s *PaymentService) Initiate(ctx context.Context, user *models.User, plan models.PlanName) (*models.PaymentInitiation, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: invalid plan %q", common.ErrorValidation, plan)
	}

	p, err := s.repomanager.Plans(s.db).GetActiveByName(ctx, plan)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: plan not found", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}

	transactionUUID := user.ID + "_" + uuid.NewString()
	amount := formatAmount(p.Price)

	q := url.Values{}
	q.Set("transaction_uuid", transactionUUID)
	q.Set("plan", string(plan))
	q.Set("user_id", user.ID)
	successURL := s.backendURL + "/api/payment/callback?" + q.Encode()
	failureURL := s.backendURL + "/api/payment/failure?" + q.Encode()

	productCode := s.gateway.ProductCode()
	_, err = s.repomanager.Payments(s.db).Create(ctx, &models.PaymentTransaction{
		TransactionUUID: transactionUUID,
		UserID:          user.ID,
		PlanID:          p.ID,
		Amount:          p.Price,
		Status:          models.TransactionPending,
		ProductID:       &productCode,
	})
	if err != nil {
		return nil, fmt.Errorf("error recording transaction: %w", err)
	}

	s.logger.Info(ctx, "payment initiated", "transaction_uuid", transactionUUID, "plan", plan, "amount", amount)
	return &models.PaymentInitiation{
		URL:        s.gateway.PaymentURL(),
		Parameters: s.gateway.FormParameters(amount, transactionUUID, successURL, failureURL),
	}, nil
}

// HandleCallback settles a payment eSewa reports as successful and returns
// the frontend URL to redirect the browser to. The transaction is only
// trusted after the status check API confirms it.
func (s *PaymentService) HandleCallback(ctx context.Context, p CallbackParams) string {
	transactionUUID := p.TransactionUUID
	var amount, refID string

	if p.Data != "" {
		cb, err := esewa.DecodeCallback(p.Data)
		if err == nil {
			err = s.gateway.VerifyCallback(cb)
		}
		if err != nil {
			s.logger.Warn(ctx, "invalid payment callback", "error", err)
			return s.failedURL(PaymentErrInvalidResponse)
		}
		if cb.TransactionUUID != "" {
			transactionUUID = cb.TransactionUUID
		}
		amount = strings.ReplaceAll(string(cb.TotalAmount), ",", "")
		refID = cb.RefID
	}

	if transactionUUID == "" {
		return s.failedURL(PaymentErrMissingTransaction)
	}

	userID, err := esewa.UserIDFromTransaction(transactionUUID)
	if err != nil {
		userID = p.UserID
	}
	if userID, err = parseID(userID, "user"); err != nil {
		return s.failedURL(PaymentErrUserNotFound)
	}

	planName := models.PlanName(p.Plan)
	if !planName.Valid() {
		return s.failedURL(PaymentErrInvalidPlan)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "payment for unknown user", "user_id", userID, "error", err)
		return s.failedURL(PaymentErrUserNotFound)
	}
	plan, err := s.repomanager.Plans(s.db).GetActiveByName(ctx, planName)
	if err != nil {
		return s.failedURL(PaymentErrPlanNotFound)
	}

	txn, err := s.repomanager.Payments(s.db).GetByUUID(ctx, transactionUUID)
	if err != nil {
		s.logger.Warn(ctx, "payment for unknown transaction", "transaction_uuid", transactionUUID, "error", err)
		return s.failedURL(PaymentErrMissingTransaction)
	}
	if txn.UserID != user.ID {
		return s.failedURL(PaymentErrUserNotFound)
	}
	if txn.PlanID != plan.ID {
		return s.failedURL(PaymentErrInvalidPlan)
	}
	if txn.Status == models.TransactionCompleted {
		return s.successURL(deref(txn.EsewaRefID))
	}

	if amount == "" {
		amount = formatAmount(plan.Price)
	}

	status, err := s.gateway.CheckStatus(ctx, amount, transactionUUID)
	if err != nil {
		s.logger.Error(ctx, "payment status check failed", "transaction_uuid", transactionUUID, "error", err)
		s.markStatus(ctx, transactionUUID, models.TransactionFailed, err.Error())
		return s.failedURL(PaymentErrProcessing)
	}

	if !status.Complete() {
		code := strings.ToUpper(status.Status)
		s.logger.Warn(ctx, "payment not complete", "transaction_uuid", transactionUUID, "status", code)
		s.markStatus(ctx, transactionUUID, models.TransactionFailed, "status: "+code)
		return s.failedURL(code)
	}
	if status.RefID != nil && *status.RefID != "" {
		refID = *status.RefID
	}

	if err := s.activate(ctx, txn, user, plan, refID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// a concurrent callback settled it first
			if done, gerr := s.repomanager.Payments(s.db).GetByUUID(ctx, transactionUUID); gerr == nil && done.Status == models.TransactionCompleted {
				s.logger.Info(ctx, "payment already settled", "transaction_uuid", transactionUUID)
				return s.successURL(deref(done.EsewaRefID))
			}
		}
		s.logger.Error(ctx, "payment settlement failed", "transaction_uuid", transactionUUID, "error", err)
		return s.failedURL(PaymentErrDatabase)
	}

	s.logger.Info(ctx, "payment completed", "transaction_uuid", transactionUUID, "user_id", user.ID, "plan", plan.PlanName)
	return s.successURL(refID)
}

// HandleFailure records a cancelled payment and returns the frontend URL.
func (s *PaymentService) HandleFailure(ctx context.Context, transactionUUID string) string {
	if transactionUUID != "" {
		s.markStatus(ctx, transactionUUID, models.TransactionCancelled, PaymentErrUserCancelled)
	}
	return s.failedURL(PaymentErrUserCancelled)
}

// activate completes the transaction, upgrades the user to both roles and
// replaces their subscriptions with one for plan, all or nothing.
func (s *PaymentService) activate(ctx context.Context, txn *models.PaymentTransaction, user *models.User, plan *models.Plan, refID string) error {
	now := s.now().UTC()
	var ref *string
	if refID != "" {
		ref = &refID
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Payments(tx).MarkCompleted(ctx, txn.TransactionUUID, ref, now); err != nil {
			return err
		}
		if user.Role != models.RoleBoth {
			if err := s.repomanager.Users(tx).UpdateRole(ctx, user.ID, models.RoleBoth); err != nil {
				return err
			}
		}
		subs := s.repomanager.Subscriptions(tx)
		if err := subs.DeactivateAll(ctx, user.ID); err != nil {
			return err
		}
		_, err := subs.Create(ctx, &models.Subscription{
			UserID:        user.ID,
			PlanID:        plan.ID,
			TransactionID: txn.ID,
			StartedAt:     now,
			ExpiresAt:     now.AddDate(0, 0, plan.ValidFor),
			IsActive:      true,
		})
		return err
	})
}

func (s *PaymentService) markStatus(ctx context.Context, transactionUUID string, status models.TransactionStatus, message string) {
	if err := s.repomanager.Payments(s.db).MarkStatus(ctx, transactionUUID, status, message); err != nil {
		s.logger.Warn(ctx, "failed to record payment status", "transaction_uuid", transactionUUID, "status", status, "error", err)
	}
}

func (s *PaymentService) successURL(refID string) string {
	if refID == "" {
		refID = "N/A"
	}
	return s.frontendURL + "/?payment=success&refId=" + url.QueryEscape(refID)
}

func (s *PaymentService) failedURL(code string) string {
	u := s.frontendURL + "/?payment=failed"
	if code != "" {
		u += "&error=" + url.QueryEscape(code)
	}
	return u
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// Requisition statuses.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestFilled    = "filled"
	RequestCancelled = "cancelled"
)

// Approval record types and statuses.
const (
	ApprovalRequisition = "requisition"
	ApprovalBudget      = "budget"
	ApprovalOffer       = "offer"

	ApprovalPending  = "pending"
	ApprovalGranted  = "approved"
	ApprovalDeclined = "rejected"
)

var approvalTypes = []string{ApprovalRequisition, ApprovalBudget, ApprovalOffer}

// RequestRepository captures the persistence interactions needed by the service.
type RequestRepository interface {
	CreateRequest(ctx context.Context, request persistence.RecruitmentRequest) error
	GetRequest(ctx context.Context, id string) (persistence.RecruitmentRequest, error)
	UpdateRequest(ctx context.Context, request persistence.RecruitmentRequest) error
	ListRequests(ctx context.Context, filter persistence.RequestFilter) ([]persistence.RecruitmentRequest, error)
	UpsertApproval(ctx context.Context, requestID string, approval persistence.Approval) error
	CountRequestNumbers(ctx context.Context, prefix string) (int, error)
}

// RequestService orchestrates validation and persistence for requisitions.
type RequestService struct {
	requests    RequestRepository
	activity    *ActivityLog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRequestService wires dependencies for requisition operations.
func NewRequestService(requests RequestRepository, activity *ActivityLog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RequestService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		requests:    requests,
		activity:    activity,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateRequest validates and persists a new requisition. Every approval type
// starts pending; the approve operation is the only way to mutate them.
func (s *RequestService) CreateRequest(ctx context.Context, input RequestInput) (persistence.RecruitmentRequest, error) {
	if s == nil || s.requests == nil {
		return persistence.RecruitmentRequest{}, fmt.Errorf("request repository not configured")
	}

	vErr := &ValidationError{}
	validateRequestCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.RecruitmentRequest{}, vErr
	}

	logger := serviceLogger(ctx, s.logger, "request", "create")

	now := s.now()
	number, err := nextNumber(ctx, s.requests.CountRequestNumbers, NumberPrefixRequest, now)
	if err != nil {
		return persistence.RecruitmentRequest{}, err
	}

	approvals := make([]persistence.Approval, 0, len(approvalTypes))
	for _, approvalType := range approvalTypes {
		approvals = append(approvals, persistence.Approval{Type: approvalType, Status: ApprovalPending})
	}

	request := persistence.RecruitmentRequest{
		ID:             s.idGenerator(),
		Number:         number,
		PositionTitle:  strings.TrimSpace(input.PositionTitle),
		Department:     strings.TrimSpace(input.Department),
		EmploymentType: input.EmploymentType,
		Headcount:      input.Headcount,
		SalaryBand:     input.SalaryBand,
		Status:         RequestPending,
		Approvals:      approvals,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
	}

	logger.InfoContext(ctx, "requisition created", "request_id", request.ID, "number", request.Number)

	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityRequest,
		EntityID:    request.ID,
		ActionType:  "request_created",
		Description: fmt.Sprintf("Requisition %s created for %s", request.Number, request.PositionTitle),
		Visibility:  VisibilityManager,
	})

	return request, nil
}

// GetRequest retrieves one requisition with its approval records.
func (s *RequestService) GetRequest(ctx context.Context, id string) (persistence.RecruitmentRequest, error) {
	if s == nil || s.requests == nil {
		return persistence.RecruitmentRequest{}, fmt.Errorf("request repository not configured")
	}

	request, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
	}
	return request, nil
}

// ListRequests enumerates requisitions matching the optional filters.
func (s *RequestService) ListRequests(ctx context.Context, status, department string) ([]persistence.RecruitmentRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}

	return s.requests.ListRequests(ctx, persistence.RequestFilter{
		Status:     status,
		Department: department,
	})
}

// UpdateRequest applies validated field changes to an existing requisition.
// Approval records are untouched; ApproveRequest owns them.
func (s *RequestService) UpdateRequest(ctx context.Context, requestID string, input RequestInput) (persistence.RecruitmentRequest, error) {
	if s == nil || s.requests == nil {
		return persistence.RecruitmentRequest{}, fmt.Errorf("request repository not configured")
	}

	existing, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
	}

	vErr := &ValidationError{}
	validateRequestCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.RecruitmentRequest{}, vErr
	}

	updated := existing
	updated.PositionTitle = strings.TrimSpace(input.PositionTitle)
	updated.Department = strings.TrimSpace(input.Department)
	updated.EmploymentType = input.EmploymentType
	updated.Headcount = input.Headcount
	updated.SalaryBand = input.SalaryBand
	updated.UpdatedAt = s.now()

	if err := s.requests.UpdateRequest(ctx, updated); err != nil {
		return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
	}
	return updated, nil
}

// ApproveRequest grants one approval type. Once both requisition and budget
// approvals are granted the requisition status derives to approved.
func (s *RequestService) ApproveRequest(ctx context.Context, params ApproveRequestParams) (persistence.RecruitmentRequest, error) {
	if s == nil || s.requests == nil {
		return persistence.RecruitmentRequest{}, fmt.Errorf("request repository not configured")
	}

	if !validApprovalType(params.ApprovalType) {
		vErr := &ValidationError{}
		vErr.add("approval_type", "must be one of requisition, budget, offer")
		return persistence.RecruitmentRequest{}, vErr
	}

	logger := serviceLogger(ctx, s.logger, "request", "approve", "request_id", params.RequestID)

	existing, err := s.requests.GetRequest(ctx, params.RequestID)
	if err != nil {
		return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
	}

	decidedAt := s.now()
	approval := persistence.Approval{
		Type:      params.ApprovalType,
		Status:    ApprovalGranted,
		Approver:  params.Approver,
		DecidedAt: &decidedAt,
	}
	if err := s.requests.UpsertApproval(ctx, params.RequestID, approval); err != nil {
		return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
	}

	updated := applyApproval(existing, approval)
	if updated.Status != existing.Status {
		updated.UpdatedAt = decidedAt
		if err := s.requests.UpdateRequest(ctx, updated); err != nil {
			return persistence.RecruitmentRequest{}, mapRequestRepoError(err)
		}
		logger.InfoContext(ctx, "requisition approved", "number", updated.Number)
	}

	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityRequest,
		EntityID:    updated.ID,
		ActionType:  "approval_granted",
		Description: fmt.Sprintf("%s approval granted", params.ApprovalType),
		PerformedBy: params.Approver,
		Visibility:  VisibilityManager,
	})

	return updated, nil
}

// applyApproval folds one granted approval into the request's approval set
// and derives the request status.
func applyApproval(request persistence.RecruitmentRequest, approval persistence.Approval) persistence.RecruitmentRequest {
	replaced := false
	approvals := make([]persistence.Approval, 0, len(request.Approvals)+1)
	for _, existing := range request.Approvals {
		if existing.Type == approval.Type {
			approvals = append(approvals, approval)
			replaced = true
			continue
		}
		approvals = append(approvals, existing)
	}
	if !replaced {
		approvals = append(approvals, approval)
	}
	request.Approvals = approvals

	if request.Status == RequestPending &&
		approvalGranted(approvals, ApprovalRequisition) &&
		approvalGranted(approvals, ApprovalBudget) {
		request.Status = RequestApproved
	}
	return request
}

func approvalGranted(approvals []persistence.Approval, approvalType string) bool {
	for _, approval := range approvals {
		if approval.Type == approvalType && approval.Status == ApprovalGranted {
			return true
		}
	}
	return false
}

func validApprovalType(approvalType string) bool {
	for _, known := range approvalTypes {
		if approvalType == known {
			return true
		}
	}
	return false
}

func validateRequestCore(input RequestInput, vErr *ValidationError) {
	if strings.TrimSpace(input.PositionTitle) == "" {
		vErr.add("position_title", "position title is required")
	}
	if strings.TrimSpace(input.Department) == "" {
		vErr.add("department", "department is required")
	}
	if input.Headcount < 1 {
		vErr.add("headcount", "headcount must be at least 1")
	}
}

func mapRequestRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) || errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("request", "related records are missing or invalid")
		return vErr
	}
	return err
}

// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AdminFlow provides user management use cases for the admin panel
type AdminFlow interface {
	ListUsers(ctx context.Context, req *dto.AdminListUsersRequest) (*dto.AdminListUsersResponse, error)
	SetUserActiveStatus(ctx context.Context, req *dto.AdminSetUserActiveStatusRequest, metadata *ClientMetadata) (*dto.AdminSetUserActiveStatusResponse, error)
	ExportUsersExcel(ctx context.Context, req *dto.AdminListUsersRequest) (string, []byte, error)
}

// AdminFlowImpl implements the admin user management flow
type AdminFlowImpl struct {
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	sessionRepo  repository.UserSessionRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewAdminFlow creates a new admin flow instance
func NewAdminFlow(
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) AdminFlow {
	return &AdminFlowImpl{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// ListUsers returns a paginated user report with per-user activity counts
func (af *AdminFlowImpl) ListUsers(ctx context.Context, req *dto.AdminListUsersRequest) (*dto.AdminListUsersResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_USERS_VALIDATION_FAILED", "List users validation failed", err)
	}

	filter := af.buildFilter(req)

	users, err := af.userRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_USERS_FAILED", "List users failed", err)
	}

	total, err := af.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_USERS_FAILED", "List users failed", err)
	}

	items, err := af.buildItems(ctx, users)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_USERS_FAILED", "List users failed", err)
	}

	return &dto.AdminListUsersResponse{
		Message:  "Users retrieved successfully.",
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// SetUserActiveStatus toggles a user's active flag. Deactivation also
// retires all of the user's sessions.
func (af *AdminFlowImpl) SetUserActiveStatus(ctx context.Context, req *dto.AdminSetUserActiveStatusRequest, metadata *ClientMetadata) (*dto.AdminSetUserActiveStatusResponse, error) {
	user, err := af.userRepo.ByID(ctx, req.UserID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_SET_USER_STATUS_FAILED", "Set user status failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		if err := af.userRepo.SetActive(txCtx, user.ID, req.IsActive); err != nil {
			return err
		}
		if !req.IsActive {
			return af.sessionRepo.ExpireAllUserSessions(txCtx, user.ID)
		}
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ADMIN_SET_USER_STATUS_FAILED", "Set user status failed", err)
	}

	if !req.IsActive {
		description := fmt.Sprintf("User deactivated by admin: %d", user.ID)
		audit := &models.AuditLog{
			UserID:      &user.ID,
			Action:      models.AuditActionUserDeactivated,
			Description: &description,
			Success:     utils.ToPtr(true),
		}
		if metadata != nil {
			audit.IPAddress = &metadata.IPAddress
			audit.UserAgent = &metadata.UserAgent
		}
		_ = af.auditRepo.Save(ctx, audit)
	}

	return &dto.AdminSetUserActiveStatusResponse{
		Message:  "User status updated.",
		IsActive: req.IsActive,
	}, nil
}

// ExportUsersExcel renders the filtered user report as an xlsx workbook
func (af *AdminFlowImpl) ExportUsersExcel(ctx context.Context, req *dto.AdminListUsersRequest) (string, []byte, error) {
	filter := af.buildFilter(req)

	users, err := af.userRepo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("ADMIN_EXPORT_USERS_FAILED", "Export users failed", err)
	}

	items, err := af.buildItems(ctx, users)
	if err != nil {
		return "", nil, NewBusinessError("ADMIN_EXPORT_USERS_FAILED", "Export users failed", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "users"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "uuid", "username", "name", "email", "is_active", "question_count", "answer_count", "created_at", "last_login_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, item := range items {
		lastLogin := ""
		if item.LastLoginAt != nil {
			lastLogin = item.LastLoginAt.UTC().Format(time.RFC3339)
		}

		record := []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.UUID,
			item.Username,
			item.Name,
			item.Email,
			strconv.FormatBool(utils.IsTrue(item.IsActive)),
			strconv.FormatInt(item.QuestionCount, 10),
			strconv.FormatInt(item.AnswerCount, 10),
			item.CreatedAt.UTC().Format(time.RFC3339),
			lastLogin,
		}

		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("ADMIN_EXPORT_USERS_FAILED", "Export users failed", err)
	}

	filename := fmt.Sprintf("users_%s.xlsx", utils.UTCNow().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

// Private helper methods

func (af *AdminFlowImpl) buildFilter(req *dto.AdminListUsersRequest) models.UserFilter {
	filter := models.UserFilter{
		IsActive: req.IsActive,
	}
	if req.Search != nil && strings.TrimSpace(*req.Search) != "" {
		filter.NameSearch = utils.ToPtr(strings.TrimSpace(*req.Search))
	}
	return filter
}

func (af *AdminFlowImpl) buildItems(ctx context.Context, users []*models.User) ([]dto.AdminUserItem, error) {
	items := make([]dto.AdminUserItem, 0, len(users))

	for _, u := range users {
		questionCount, err := af.questionRepo.Count(ctx, models.QuestionFilter{AuthorID: &u.ID})
		if err != nil {
			return nil, err
		}

		answerCount, err := af.answerRepo.Count(ctx, models.AnswerFilter{AuthorID: &u.ID})
		if err != nil {
			return nil, err
		}

		items = append(items, dto.AdminUserItem{
			ID:            u.ID,
			UUID:          u.UUID.String(),
			Username:      u.Username,
			Name:          u.Name,
			Email:         u.Email,
			IsActive:      u.IsActive,
			QuestionCount: questionCount,
			AnswerCount:   answerCount,
			CreatedAt:     u.CreatedAt,
			LastLoginAt:   u.LastLoginAt,
		})
	}

	return items, nil
}

package service

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/storage"

	"github.com/shopspring/decimal"
)

// DailyLogService 每日收益记录服务
// 提交同样是多步操作：校验、传截图、落库；任一步失败即中止。
type DailyLogService struct {
	cfg         *config.Config
	logRepo     repository.DailyLogRepository
	profileRepo repository.ProfileRepository
	store       *storage.Store
}

// NewDailyLogService 创建每日收益服务
func NewDailyLogService(
	cfg *config.Config,
	logRepo repository.DailyLogRepository,
	profileRepo repository.ProfileRepository,
	store *storage.Store,
) *DailyLogService {
	return &DailyLogService{
		cfg:         cfg,
		logRepo:     logRepo,
		profileRepo: profileRepo,
		store:       store,
	}
}

// SubmitLogInput 收益记录提交输入
type SubmitLogInput struct {
	MemberID   string
	Amount     string
	LogDate    *time.Time
	Screenshot *multipart.FileHeader
}

// SubmitLog 提交每日收益记录
// 截图大小上限在任何写入之前检查；同日多条记录不做唯一约束。
func (s *DailyLogService) SubmitLog(input SubmitLogInput) (ActionResult, *models.DailyLog) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || amount.IsNegative() {
		return ResultFail(StepValidate, ErrAmountInvalid.Error()), nil
	}
	if input.Screenshot != nil && input.Screenshot.Size > s.cfg.Upload.MaxSize {
		return ResultFail(StepValidate,
			fmt.Sprintf("截图超过大小上限（最大 %d MB）", s.cfg.Upload.MaxSize/1024/1024)), nil
	}

	member, err := s.profileRepo.GetByID(input.MemberID)
	if err != nil {
		return ResultFail(StepValidate, "成员档案查询失败"), nil
	}
	if member == nil {
		return ResultFail(StepValidate, ErrNotFound.Error()), nil
	}

	screenshotURL := ""
	if input.Screenshot != nil {
		url, err := s.store.Put(input.Screenshot, constants.BucketResults)
		if err != nil {
			logger.Warnw("daily_log_screenshot_upload_failed", "member_id", input.MemberID, "error", err)
			return ResultFail(StepUploadProof, "截图上传失败"), nil
		}
		screenshotURL = url
	}

	logDate := time.Now()
	if input.LogDate != nil {
		logDate = *input.LogDate
	}
	record := &models.DailyLog{
		MemberID:      input.MemberID,
		ProfitAmount:  models.NewMoneyFromDecimal(amount),
		ScreenshotURL: screenshotURL,
		LogDate:       logDate,
	}
	if err := s.logRepo.Create(record); err != nil {
		logger.Errorw("daily_log_insert_failed", "member_id", input.MemberID, "error", err)
		return ResultFail(StepInsertLog, "收益记录创建失败"), nil
	}

	return ResultOK("收益记录已提交"), record
}

// ListLogs 查询收益记录列表
func (s *DailyLogService) ListLogs(filter repository.DailyLogListFilter) ([]models.DailyLog, int64, error) {
	return s.logRepo.List(filter)
}

// GalleryItem 截图画廊条目
type GalleryItem struct {
	LogID      uint         `json:"log_id"`
	MemberID   string       `json:"member_id"`
	MemberName string       `json:"member_name"`
	Amount     models.Money `json:"amount"`
	URL        string       `json:"url"`
	LogDate    time.Time    `json:"log_date"`
}

// ListGallery 查询带截图的收益记录（画廊视图）
func (s *DailyLogService) ListGallery(filter repository.DailyLogListFilter) ([]GalleryItem, int64, error) {
	filter.WithMember = true
	logs, total, err := s.logRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]GalleryItem, 0, len(logs))
	for _, log := range logs {
		if strings.TrimSpace(log.ScreenshotURL) == "" {
			continue
		}
		items = append(items, GalleryItem{
			LogID:      log.ID,
			MemberID:   log.MemberID,
			MemberName: log.Member.FullName,
			Amount:     log.ProfitAmount,
			URL:        log.ScreenshotURL,
			LogDate:    log.LogDate,
		})
	}
	return items, total, nil
}

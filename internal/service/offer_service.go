package service

import (
	"errors"
	"strings"

	"github.com/vcaremart/offerlink/internal/clock"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"gorm.io/gorm"
)

// OfferService 优惠业务服务。
// 所有列表读路径先执行一次存储状态同步，再以实时计算结果对外展示。
type OfferService struct {
	repo       repository.OfferRepository
	branchRepo repository.BranchRepository
	sync       *OfferSyncService
	clk        clock.Clock
}

// NewOfferService 创建优惠服务
func NewOfferService(repo repository.OfferRepository, branchRepo repository.BranchRepository, sync *OfferSyncService, clk clock.Clock) *OfferService {
	return &OfferService{repo: repo, branchRepo: branchRepo, sync: sync, clk: clk}
}

// OfferMediaInput 附件输入
type OfferMediaInput struct {
	FileURL   string
	FileType  string
	Caption   string
	SortOrder int
}

// OfferInput 创建/更新优惠输入
type OfferInput struct {
	Title          string
	Description    string
	ValidFrom      models.DateOnly
	ValidTo        models.DateOnly
	DailyStartTime *models.TimeOfDay
	DailyEndTime   *models.TimeOfDay
	Status         string
	BranchIDs      []uint
	Media          []OfferMediaInput
}

// OfferView 优惠视图：存储状态之外附带实时计算状态
type OfferView struct {
	models.Offer
	ComputedStatus models.EffectiveStatus `json:"computed_status"`
}

func (s *OfferService) buildView(offer models.Offer) OfferView {
	return OfferView{
		Offer:          offer,
		ComputedStatus: ComputeEffectiveStatus(&offer, s.clk.Now()),
	}
}

func (s *OfferService) buildViews(offers []models.Offer) []OfferView {
	views := make([]OfferView, 0, len(offers))
	for _, offer := range offers {
		views = append(views, s.buildView(offer))
	}
	return views
}

// ListAdmin 后台优惠列表
func (s *OfferService) ListAdmin(userID uint, status, search string, page, pageSize int) ([]OfferView, int64, error) {
	s.sync.SynchronizeQuiet()
	filter := repository.OfferListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   models.OfferStatus(strings.TrimSpace(status)),
		Search:   strings.TrimSpace(search),
	}
	offers, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	return s.buildViews(offers), total, nil
}

// GetByID 优惠详情
func (s *OfferService) GetByID(id uint) (*OfferView, error) {
	offer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	view := s.buildView(*offer)
	return &view, nil
}

// Create 创建优惠
func (s *OfferService) Create(userID uint, input OfferInput) (*OfferView, error) {
	offer, err := s.buildEntity(input, nil)
	if err != nil {
		return nil, err
	}
	offer.UserID = userID

	branches, err := s.resolveBranches(input.BranchIDs)
	if err != nil {
		return nil, err
	}
	offer.Branches = branches

	if err := s.repo.Create(offer); err != nil {
		return nil, err
	}
	return s.GetByID(offer.ID)
}

// Update 更新优惠
func (s *OfferService) Update(id uint, input OfferInput) (*OfferView, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	offer, err := s.buildEntity(input, existing)
	if err != nil {
		return nil, err
	}

	if input.BranchIDs != nil {
		branches, err := s.resolveBranches(input.BranchIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceBranches(offer, branches); err != nil {
			return nil, err
		}
	}
	offer.Branches = nil

	if err := s.repo.Update(offer); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete 删除优惠
func (s *OfferService) Delete(id uint) error {
	offer, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if offer == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

// DeleteMedia 删除优惠附件
func (s *OfferService) DeleteMedia(offerID, mediaID uint) error {
	if err := s.repo.DeleteMedia(offerID, mediaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Stats 优惠状态统计（先同步，保证统计口径与当前时刻一致）
func (s *OfferService) Stats(userID uint) (repository.OfferStatusCounts, error) {
	s.sync.SynchronizeQuiet()
	return s.repo.CountByStatus(userID)
}

// ActiveOffersForBranch 门店实际可见的优惠。
// 存储状态先做粗筛（inactive 直接排除），再逐条按当前时刻实时校验窗口，
// 同步写库失败不影响读：实时计算结果是最终口径。
func (s *OfferService) ActiveOffersForBranch(branchID uint) (*models.Branch, []OfferView, error) {
	s.sync.SynchronizeQuiet()

	branch, err := s.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, nil, err
	}
	if branch == nil {
		return nil, nil, ErrNotFound
	}

	offers, err := s.repo.ListActiveByBranch(branchID)
	if err != nil {
		return nil, nil, err
	}

	now := s.clk.Now()
	views := make([]OfferView, 0, len(offers))
	for _, offer := range offers {
		if !IsEffectivelyActive(&offer, now) {
			continue
		}
		views = append(views, OfferView{Offer: offer, ComputedStatus: models.EffectiveActive})
	}
	return branch, views, nil
}

// ActiveOffersForBranchToken 扫码落地页：按公开链接 token 取门店优惠
func (s *OfferService) ActiveOffersForBranchToken(token string) (*models.Branch, []OfferView, error) {
	branch, err := s.branchRepo.GetByLinkToken(strings.TrimSpace(token))
	if err != nil {
		return nil, nil, err
	}
	if branch == nil {
		return nil, nil, ErrNotFound
	}
	return s.ActiveOffersForBranch(branch.ID)
}

// Discover 公开发现：branch_id > location > city 只取其一，
// 结果按优惠去重、新建在前，且只保留实时生效的优惠
func (s *OfferService) Discover(branchID uint, location, city string) ([]OfferView, error) {
	s.sync.SynchronizeQuiet()

	now := s.clk.Now()
	offers, err := s.repo.Discover(repository.DiscoverFilter{
		Today:    models.DateOf(now),
		BranchID: branchID,
		Location: location,
		City:     city,
	})
	if err != nil {
		return nil, err
	}

	views := make([]OfferView, 0, len(offers))
	for _, offer := range offers {
		if !IsEffectivelyActive(&offer, now) {
			continue
		}
		views = append(views, OfferView{Offer: offer, ComputedStatus: models.EffectiveActive})
	}
	return views, nil
}

func (s *OfferService) resolveBranches(ids []uint) ([]models.Branch, error) {
	branches := make([]models.Branch, 0, len(ids))
	for _, id := range ids {
		branch, err := s.branchRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, ErrInvalidBranch
		}
		branches = append(branches, *branch)
	}
	return branches, nil
}

func (s *OfferService) buildEntity(input OfferInput, existing *models.Offer) (*models.Offer, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidOffer
	}
	if input.ValidFrom.IsZero() || input.ValidTo.IsZero() {
		return nil, ErrInvalidOffer
	}
	if input.ValidFrom.After(input.ValidTo) {
		return nil, ErrInvalidDateRange
	}

	// 每日窗口成对出现，结束必须严格晚于开始
	if (input.DailyStartTime == nil) != (input.DailyEndTime == nil) {
		return nil, ErrInvalidTimeWindow
	}
	if input.DailyStartTime != nil && !input.DailyEndTime.After(*input.DailyStartTime) {
		return nil, ErrInvalidTimeWindow
	}

	status := models.OfferStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = models.OfferStatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidOffer
	}

	media := make([]models.OfferMedia, 0, len(input.Media))
	for i, m := range input.Media {
		url := strings.TrimSpace(m.FileURL)
		if url == "" {
			continue
		}
		sortOrder := m.SortOrder
		if sortOrder == 0 {
			sortOrder = i
		}
		media = append(media, models.OfferMedia{
			FileURL:   url,
			FileType:  strings.TrimSpace(m.FileType),
			Caption:   strings.TrimSpace(m.Caption),
			SortOrder: sortOrder,
		})
	}

	if existing == nil {
		return &models.Offer{
			Title:          title,
			Description:    strings.TrimSpace(input.Description),
			ValidFrom:      input.ValidFrom,
			ValidTo:        input.ValidTo,
			DailyStartTime: input.DailyStartTime,
			DailyEndTime:   input.DailyEndTime,
			Status:         status,
			Media:          media,
		}, nil
	}

	existing.Title = title
	existing.Description = strings.TrimSpace(input.Description)
	existing.ValidFrom = input.ValidFrom
	existing.ValidTo = input.ValidTo
	existing.DailyStartTime = input.DailyStartTime
	existing.DailyEndTime = input.DailyEndTime
	existing.Status = status
	if len(media) > 0 {
		existing.Media = append(existing.Media, media...)
	}
	return existing, nil
}

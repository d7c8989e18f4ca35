package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/export"
	"github.com/ward-roster/roster/backend/internal/importer"
	"github.com/ward-roster/roster/backend/internal/merge"
	"github.com/ward-roster/roster/backend/internal/roster"
)

var ErrNoGenerator = errors.New("未配置排班服务")

// Store 是远程排班表存储
type Store interface {
	LoadSchedule(ctx context.Context, month, year int) (domain.ScheduleGrid, bool, error)
	SaveSchedule(ctx context.Context, month, year int, grid domain.ScheduleGrid) error
}

type Generator interface {
	Generate(ctx context.Context, month, year int) (domain.ScheduleGrid, error)
}

// Directories 提供只读的员工和意愿数据
type Directories interface {
	Staff(ctx context.Context) ([]domain.Staff, error)
	Wishes(ctx context.Context) ([]domain.Wish, error)
}

type Options struct {
	Catalog     *catalog.Catalog
	Store       Store
	Generator   Generator
	Directories Directories
	Logger      *slog.Logger
}

// Session 持有某个月份的排班表以及它依赖的班次、员工和意愿数据。
// 所有修改都通过 Session 的方法进行；网络调用期间不持有锁。
type Session struct {
	Month int
	Year  int

	catalog     *catalog.Catalog
	store       Store
	generator   Generator
	directories Directories
	logger      *slog.Logger

	mu        sync.Mutex
	grid      domain.ScheduleGrid
	directory *domain.Directory
	wishes    *roster.WishIndex
	validator *roster.Validator
}

func New(opts Options, month, year int) (*Session, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", roster.ErrInvalidMonth, month)
	}
	if opts.Catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	grid, err := roster.EmptyGridFor(month, year)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Month:       month,
		Year:        year,
		catalog:     opts.Catalog,
		store:       opts.Store,
		generator:   opts.Generator,
		directories: opts.Directories,
		logger:      opts.Logger.With("month", month, "year", year),
		grid:        grid,
		directory:   domain.NewDirectory(nil),
		wishes:      roster.NewWishIndex(nil),
	}
	s.validator = roster.NewValidator(s.catalog, s.directory)
	return s, nil
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Session) Directory() *domain.Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directory
}

// Grid 返回当前排班表的副本
func (s *Session) Grid() domain.ScheduleGrid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Load 拉取员工、意愿和排班表。远程没有该月排班表时使用空排班表；
// 任一调用失败时本地状态保持不变。
func (s *Session) Load(ctx context.Context) error {
	var (
		staff  []domain.Staff
		wishes []domain.Wish
		err    error
	)
	if s.directories != nil {
		if staff, err = s.directories.Staff(ctx); err != nil {
			return fmt.Errorf("获取员工列表失败: %w", err)
		}
		if wishes, err = s.directories.Wishes(ctx); err != nil {
			return fmt.Errorf("获取意愿列表失败: %w", err)
		}
	}

	grid, found, err := s.store.LoadSchedule(ctx, s.Month, s.Year)
	if err != nil {
		return fmt.Errorf("获取排班表失败: %w", err)
	}
	if !found || len(grid) == 0 {
		s.logger.Info("远程没有该月排班表，使用空排班表")
		if grid, err = roster.EmptyGridFor(s.Month, s.Year); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.directories != nil {
		s.directory = domain.NewDirectory(staff)
		s.wishes = roster.NewWishIndex(wishes)
		s.validator = roster.NewValidator(s.catalog, s.directory)
	}
	s.grid = grid
	return nil
}

// Assign 只修改本地排班表，被拒绝时返回 roster.ErrCapabilityMismatch 或 roster.ErrWeekendExclusion
func (s *Session) Assign(date, shiftKey, staffID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.validator.SetAssignment(s.grid, date, shiftKey, domain.StaffRef(staffID), note)
	if err != nil {
		return err
	}
	s.grid = grid
	return nil
}

func (s *Session) Clear(date, shiftKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.validator.ClearAssignment(s.grid, date, shiftKey)
	if err != nil {
		return err
	}
	s.grid = grid
	return nil
}

// Save 发送调用时刻的排班表快照。保存失败不会回滚本地修改
func (s *Session) Save(ctx context.Context) error {
	snapshot := s.Grid()
	if err := s.store.SaveSchedule(ctx, s.Month, s.Year, snapshot); err != nil {
		s.logger.Error("保存排班表失败", "error", err)
		return err
	}
	s.logger.Info("排班表已保存", "days", len(snapshot))
	return nil
}

// Generate 用外部排班服务的结果整体替换本地排班表，不做校验
func (s *Session) Generate(ctx context.Context) error {
	if s.generator == nil {
		return ErrNoGenerator
	}
	grid, err := s.generator.Generate(ctx, s.Month, s.Year)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.grid = grid
	s.mu.Unlock()
	return nil
}

// Import 解析文件并合并到本地排班表，随后保存。不满足校验规则的单元格照常导入并记录警告。
// 解析失败时排班表不变；保存失败时保留合并后的本地排班表并返回错误。
func (s *Session) Import(ctx context.Context, filename string, data []byte, overwrite bool) (importer.Result, error) {
	res, err := importer.Parse(filename, data, s.catalog, s.Directory())
	if err != nil {
		return importer.Result{}, err
	}
	for _, u := range res.Unresolved {
		s.logger.Warn("导入时找不到员工", "line", u.Line, "date", u.Date, "shift", u.ShiftKey, "name", u.Name)
	}

	s.mu.Lock()
	s.grid = merge.Merge(s.grid, res.Grid, overwrite)
	violations := s.validator.Violations(res.Grid)
	s.mu.Unlock()

	// 导入的单元格不会被拒绝，只提示不满足规则的部分
	for _, w := range violations {
		s.logger.Warn("导入的排班不满足规则", "date", w.Date, "shift", w.ShiftKey, "reason", w.Message)
	}

	return res, s.Save(ctx)
}

func (s *Session) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.DelimitedText(s.grid, s.catalog, s.directory)
}

func (s *Session) ExportWorkbook() (*bytes.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.Workbook(s.grid, s.catalog, s.directory)
}

func (s *Session) Rows() []roster.RowView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.Rows(s.grid, s.catalog, s.directory, s.wishes)
}

// Warnings 包括数据完整性问题和不满足校验规则的单元格
func (s *Session) Warnings() []roster.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(roster.CheckIntegrity(s.grid, s.directory), s.validator.Violations(s.grid)...)
}

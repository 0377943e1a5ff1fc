package keywords

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	excelize "github.com/xuri/excelize/v2"
)

// Repository: хранилище списка ключевых слов. Список всегда пишется целиком.
type Repository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, keywords []string) error
}

const keywordHeader = "키워드"

// XLSXRepository: одна колонка в первом листе xlsx, первая строка, заголовок.
type XLSXRepository struct {
	Path string
}

func NewXLSXRepository(path string) *XLSXRepository {
	return &XLSXRepository{Path: path}
}

func (x *XLSXRepository) Load(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(x.Path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", x.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", x.Path, err)
	}
	out := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // заголовок
		}
		if v := strings.TrimSpace(row[0]); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Save: пишет во временный файл рядом и переименовывает.
func (x *XLSXRepository) Save(ctx context.Context, keywords []string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", keywordHeader); err != nil {
		return err
	}
	for i, kw := range keywords {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, kw); err != nil {
			return err
		}
	}

	dir := filepath.Dir(x.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".~"+filepath.Base(x.Path))
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, x.Path)
}

// MemoryRepository: репозиторий в памяти (тесты, CLI без файла).
type MemoryRepository struct {
	mu    sync.Mutex
	list  []string
	saves int
	fail  error
}

// NewMemoryRepository: nil означает «файла нет» (Load вернёт fs.ErrNotExist).
func NewMemoryRepository(initial []string) *MemoryRepository {
	return &MemoryRepository{list: initial}
}

func (m *MemoryRepository) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.list == nil {
		return nil, fs.ErrNotExist
	}
	return append([]string(nil), m.list...), nil
}

func (m *MemoryRepository) Save(ctx context.Context, keywords []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.list = append([]string{}, keywords...)
	m.saves++
	return nil
}

// Saves: сколько раз список сохранялся.
func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves: последующие Save возвращают err (nil, снова успешно).
func (m *MemoryRepository) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

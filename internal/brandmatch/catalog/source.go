package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"brandmatch-service/internal/brandmatch/model"
	"brandmatch-service/internal/fileio"
	"brandmatch-service/internal/utils"
)

// minColumns: бренд, товар, поставщик, цена, опции.
const minColumns = 5

var errTooFewColumns = errors.New("catalog: fewer than 5 columns")

// Source: источник справочника.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.CatalogRow, error)
}

// HTTPSource: CSV-выгрузка таблицы (Google Sheets export?format=csv).
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	Limiter *rate.Limiter // nil, без ограничения
}

// NewHTTPSource: perMinute, сколько загрузок в минуту разрешено.
func NewHTTPSource(url string, timeout time.Duration, perMinute int) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &HTTPSource{URL: url, Client: &http.Client{}, Timeout: timeout}
	if perMinute > 0 {
		s.Limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return s
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Load(ctx context.Context) ([]model.CatalogRow, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("catalog: rate limit: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch: status %d", resp.StatusCode)
	}

	// кодировку определяет fileio (chardet → x/text)
	records, err := fileio.ReadCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return parseRecords(records[1:], width(records))
}

// FileSource: локальный csv/xlsx/xls с тем же порядком колонок.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + filepath.Base(s.Path) }

func (s FileSource) Load(ctx context.Context) ([]model.CatalogRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl, err := fileio.ReadTable(f, s.Path, 1)
	if err != nil {
		return nil, err
	}
	return parseRecords(tbl.Rows, tbl.Width())
}

func width(records [][]string) int {
	w := 0
	for _, r := range records {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// parseRecords: позиционный разбор + гигиена: пустые/nan/заголовки выкидываем,
// дубли (brand, product, options), первый выигрывает, нечисловая цена → 0.
func parseRecords(records [][]string, cols int) ([]model.CatalogRow, error) {
	if cols < minColumns {
		return nil, errTooFewColumns
	}
	type key struct{ brand, product, options string }
	seen := make(map[key]struct{}, len(records))
	out := make([]model.CatalogRow, 0, len(records))

	for _, rec := range records {
		cell := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		r := model.CatalogRow{
			Brand:       cell(0),
			Product:     cell(1),
			Distributor: cell(2),
			Options:     cell(4),
		}
		if p, ok := utils.ParseAmount(cell(3)); ok {
			r.Price = p
		}
		if !validCell(r.Brand, "브랜드") || !validCell(r.Product, "상품명") {
			continue
		}
		k := key{r.Brand, r.Product, r.Options}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func validCell(v, header string) bool {
	return v != "" && v != "nan" && v != header
}

// FallbackSource: встроенный детерминированный набор.
type FallbackSource struct{}

func (FallbackSource) Name() string { return "fallback" }

func (FallbackSource) Load(context.Context) ([]model.CatalogRow, error) {
	return FallbackRows(), nil
}

// FallbackRows: копия встроенного набора из 15 строк.
func FallbackRows() []model.CatalogRow {
	out := make([]model.CatalogRow, len(fallbackRows))
	copy(out, fallbackRows)
	return out
}

var fallbackRows = []model.CatalogRow{
	{Brand: "소예", Product: "테리헤어밴드", Options: "사이즈{S,M,L}", Price: 8000, Distributor: "소예패션"},
	{Brand: "린도", Product: "세일러린넨바디수트", Options: "사이즈{80,90,100}", Price: 15000, Distributor: "린도키즈"},
	{Brand: "마마미", Product: "클래식썸머셔츠", Options: "사이즈{FREE}", Price: 18000, Distributor: "마마미브랜드"},
	{Brand: "로다제이", Product: "코코넛슈트", Options: "사이즈{S,M,L,XL}", Price: 14000, Distributor: "로다제이"},
	{Brand: "바비", Product: "래쉬가드", Options: "사이즈{5,7,9,11,13}", Price: 10000, Distributor: "바비브랜드"},
	{Brand: "보니토", Product: "래쉬가드스윔세트", Options: "사이즈{5,7,9,11,13}", Price: 20000, Distributor: "보니토코리아"},
	{Brand: "아르키드", Product: "슬립온", Options: "사이즈{150,160,170}", Price: 30000, Distributor: "아르키드"},
	{Brand: "미미앤루", Product: "티셔츠", Options: "사이즈{S,M,L}", Price: 12000, Distributor: "미미앤루"},
	{Brand: "니니벨로", Product: "루비볼레로세트", Options: "사이즈{90,100,110}", Price: 16000, Distributor: "니니벨로"},
	{Brand: "화이트스케치북", Product: "카고롱스커트", Options: "사이즈{5,7,9,11,13}", Price: 8000, Distributor: "화이트스케치북"},
	{Brand: "키즈", Product: "래쉬가드", Options: "사이즈{5,7,9,11,13}", Price: 12000, Distributor: "키즈패션"},
	{Brand: "여름", Product: "원피스", Options: "사이즈{S,M,L}", Price: 20000, Distributor: "여름브랜드"},
	{Brand: "아동", Product: "수영복", Options: "사이즈{90,100,110}", Price: 15000, Distributor: "아동복전문"},
	{Brand: "유아", Product: "티셔츠", Options: "사이즈{80,90,100}", Price: 10000, Distributor: "유아복몰"},
	{Brand: "베이비", Product: "반바지", Options: "사이즈{S,M,L}", Price: 14000, Distributor: "베이비웨어"},
}

// Loader: основной источник с подстановкой встроенного набора
// при ошибке, нехватке колонок или пустом результате. Ошибок наружу не отдаёт.
type Loader struct {
	Primary  Source // nil, сразу встроенный набор
	Fallback Source
	Log      zerolog.Logger
}

// Load возвращает строки и имя источника, из которого они пришли.
func (l Loader) Load(ctx context.Context) ([]model.CatalogRow, string) {
	fb := l.Fallback
	if fb == nil {
		fb = FallbackSource{}
	}
	if l.Primary != nil {
		start := time.Now()
		rows, err := l.Primary.Load(ctx)
		switch {
		case err != nil:
			l.Log.Error().Err(err).Str("source", l.Primary.Name()).Msg("catalog load failed, using fallback dataset")
		case len(rows) == 0:
			l.Log.Warn().Str("source", l.Primary.Name()).Msg("catalog is empty, using fallback dataset")
		default:
			l.Log.Info().
				Str("source", l.Primary.Name()).
				Int("rows", len(rows)).
				Dur("elapsed", time.Since(start)).
				Msg("catalog loaded")
			return rows, l.Primary.Name()
		}
	}
	rows, err := fb.Load(ctx)
	if err != nil {
		l.Log.Error().Err(err).Msg("fallback catalog failed")
		return FallbackRows(), FallbackSource{}.Name()
	}
	l.Log.Info().Int("rows", len(rows)).Msg("fallback catalog in use")
	return rows, fb.Name()
}

package model

import (
	"strconv"
	"time"
)

// CatalogRow: строка справочника (브랜드매칭시트), неизменяемая после загрузки.
type CatalogRow struct {
	Brand       string  `json:"brand"`
	Product     string  `json:"product"`
	Distributor string  `json:"distributor"` // 중도매
	Price       float64 `json:"price"`       // 공급가
	Options     string  `json:"options"`     // 옵션입력: 색상{…}//사이즈{…}
}

// Label: "бренд товар", как он попадает в результат матчинга.
func (r CatalogRow) Label() string { return r.Brand + " " + r.Product }

// Match: результат индексного матчинга одной строки.
type Match struct {
	Distributor  string  `json:"distributor"`
	Price        float64 `json:"price"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"` // 0..100
	ProductScore float64 `json:"productScore"`
	SizeScore    float64 `json:"sizeScore"`
	ColorScore   float64 `json:"colorScore"`
	EarlyExit    bool    `json:"earlyExit"`
}

// Candidate: промежуточная оценка кандидата, живёт только внутри сканирования.
type Candidate struct {
	Row          *CatalogRow
	Score        float64
	ProductScore float64
	SizeScore    float64
	ColorScore   float64
}

// MatchTier: уровень уверенности результата.
type MatchTier string

const (
	TierIndexed     MatchTier = "정확매칭" // индексный матчинг
	TierSimilar     MatchTier = "유사매칭" // fallback, пониженная уверенность
	TierFailed      MatchTier = "매칭실패"
	TierSkipped     MatchTier = "skipped"     // пустой бренд или товар
	TierUnprocessed MatchTier = "unprocessed" // не дошли из-за дедлайна пакета
)

// FailedProduct: снимок строки, не прошедшей индексный матчинг.
type FailedProduct struct {
	RowIndex int    `json:"rowIndex"`
	Brand    string `json:"brand"`
	Product  string `json:"product"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// SimilarityResult: строка отчёта fallback-прохода. Шкала оценок 0..1.
type SimilarityResult struct {
	Source FailedProduct `json:"source"`

	Brand       string  `json:"brand"`
	Product     string  `json:"product"`
	Distributor string  `json:"distributor"`
	Price       float64 `json:"price"`
	Options     string  `json:"options"`

	ProductScore float64   `json:"productScore"`
	ColorScore   float64   `json:"colorScore"`
	SizeScore    float64   `json:"sizeScore"`
	Score        float64   `json:"score"`
	Status       MatchTier `json:"status"`
}

// SimilarityColumns: заголовки листа 유사도매칭결과.
var SimilarityColumns = []string{
	"원본_행번호", "원본_브랜드", "원본_상품명", "원본_색상", "원본_사이즈",
	"유사상품_브랜드", "유사상품_상품명", "유사상품_중도매", "유사상품_공급가", "유사상품_옵션",
	"상품명_유사도", "색상_유사도", "사이즈_유사도", "종합_유사도", "매칭_상태",
}

// Values: значения в порядке SimilarityColumns.
func (s SimilarityResult) Values() []string {
	price := ""
	if s.Product != "" {
		price = formatNumber(s.Price)
	}
	return []string{
		strconv.Itoa(s.Source.RowIndex + 1),
		s.Source.Brand, s.Source.Product, s.Source.Color, s.Source.Size,
		s.Brand, s.Product, s.Distributor, price, s.Options,
		strconv.FormatFloat(s.ProductScore, 'f', 3, 64),
		strconv.FormatFloat(s.ColorScore, 'f', 3, 64),
		strconv.FormatFloat(s.SizeScore, 'f', 3, 64),
		strconv.FormatFloat(s.Score, 'f', 3, 64),
		string(s.Status),
	}
}

// BatchStats: сводка по пакету.
type BatchStats struct {
	Total       int           `json:"total"`
	Matched     int           `json:"matched"`
	Failed      int           `json:"failed"`
	Skipped     int           `json:"skipped"`
	Unprocessed int           `json:"unprocessed"`
	TimedOut    int           `json:"timedOut"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Options: настраиваемые константы матчинга (пороги, веса, лимиты).
type Options struct {
	ProductMin    float64       // минимальная схожесть названия, 0..100
	LengthRatio   float64       // минимальное отношение длин нормализованных названий
	Accept        float64       // порог принятия лучшего кандидата, 0..100
	EarlyExit     float64       // порог немедленного возврата, 0..100
	WeightProduct float64       // вес названия
	WeightSize    float64       // вес размера
	WeightColor   float64       // вес цвета
	MaxCandidates int           // сколько кандидатов бренда сканируем
	RowTimeout    time.Duration // мягкий дедлайн одной строки
	BatchTimeout  time.Duration // дедлайн всего пакета
	Workers       int           // >1, параллельная обработка строк
	Metric        string        // levenshtein | damerau | alignment
	MemoSize      int           // размер мемо нормализации

	Fallback FallbackOptions
}

// FallbackOptions: параметры прохода по похожести (шкала 0..1).
type FallbackOptions struct {
	PrefixLimit     int // без бренда, первые N строк справочника
	CandidateCap    int
	ProcessLimit    int
	ItemTimeout     time.Duration
	BatchTimeout    time.Duration
	Accept          float64
	ProductMin      float64
	WeightProduct   float64
	WeightColor     float64
	WeightSize      float64
	ReweightProduct float64 // вес названия, когда нет цвета или размера
}

// DefaultOptions: значения по умолчанию.
func DefaultOptions() Options {
	return Options{
		ProductMin:    70,
		LengthRatio:   0.7,
		Accept:        60,
		EarlyExit:     85,
		WeightProduct: 0.5,
		WeightSize:    0.3,
		WeightColor:   0.2,
		MaxCandidates: 20,
		RowTimeout:    3 * time.Second,
		BatchTimeout:  600 * time.Second,
		Workers:       1,
		Metric:        "levenshtein",
		MemoSize:      1000,
		Fallback: FallbackOptions{
			PrefixLimit:     100,
			CandidateCap:    50,
			ProcessLimit:    30,
			ItemTimeout:     5 * time.Second,
			BatchTimeout:    600 * time.Second,
			Accept:          0.3,
			ProductMin:      0.3,
			WeightProduct:   0.6,
			WeightColor:     0.2,
			WeightSize:      0.2,
			ReweightProduct: 0.8,
		},
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

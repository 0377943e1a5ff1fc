package model

import "errors"

var (
	// ErrEmptyQuery: пустой бренд или товар в запросе.
	ErrEmptyQuery = errors.New("brand or product is empty")

	// ErrBrandNotIndexed: бренда нет в индексе справочника.
	ErrBrandNotIndexed = errors.New("brand not in catalog index")

	// ErrNoMatch: ни один кандидат не набрал порог.
	ErrNoMatch = errors.New("no candidate above threshold")

	// ErrRowTimeout: строка превысила свой бюджет времени.
	ErrRowTimeout = errors.New("row matching timed out")

	// ErrNoCatalog: справочник не загружен.
	ErrNoCatalog = errors.New("catalog not loaded")

	// ErrKeywordExists / ErrKeywordNotFound / ErrKeywordEmpty: ошибки реестра ключевых слов.
	ErrKeywordExists   = errors.New("keyword already exists")
	ErrKeywordNotFound = errors.New("keyword not found")
	ErrKeywordEmpty    = errors.New("keyword is empty")
)

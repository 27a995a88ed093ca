// Package content хранит статические тексты бота (о нас, условия доставки,
// оплата) как markdown-файлы, редактируемые админом прямо из чата.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Известные страницы и их подписи для меню
var slugTitles = map[string]string{
	"about":    "О нас",
	"delivery": "Доставка",
	"payment":  "Оплата",
}

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию контента: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get возвращает текст страницы. Отсутствующая страница - пустой текст.
func (s *Store) Get(slug string) (string, error) {
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// Set целиком заменяет текст страницы
func (s *Store) Set(slug, text string) error {
	return os.WriteFile(s.path(slug), []byte(text), 0o644)
}

// List возвращает известные страницы
func (s *Store) List() map[string]string {
	pages := make(map[string]string, len(slugTitles))
	for slug, title := range slugTitles {
		pages[slug] = title
	}
	return pages
}

// Title возвращает подпись страницы для меню
func Title(slug string) string {
	if title, ok := slugTitles[slug]; ok {
		return title
	}
	return slug
}

// ValidSlug проверяет, что имя страницы известно
func ValidSlug(slug string) bool {
	_, ok := slugTitles[strings.ToLower(slug)]
	return ok
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound - запрошенная запись не существует (возможно, удалена во время диалога)
	ErrNotFound = errors.New("запись не найдена")

	// ErrDuplicateCategory - категория с таким именем уже есть (без учёта регистра)
	ErrDuplicateCategory = errors.New("категория с таким названием уже существует")
)

// CategoryHasProductsError - попытка удалить категорию, на которую ссылаются товары
type CategoryHasProductsError struct {
	Count int
}

func (e *CategoryHasProductsError) Error() string {
	return fmt.Sprintf("категорию нельзя удалить: в ней %d товар(ов)", e.Count)
}

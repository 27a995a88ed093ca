package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/setum77/myconfbot-sub000/internal/catalog"
	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/state"

	"go.uber.org/zap"
)

// ProductState - шаг мастера создания товара
type ProductState int

const (
	ProductStateName ProductState = iota
	ProductStateCategory
	ProductStateDescription
	ProductStatePrice
	ProductStateUnit
	ProductStateQuantity
	ProductStatePrepayment
	ProductStateAvailability
	ProductStateConfirmDraft
	ProductStatePhotos
	ProductStateMainPhoto
)

// ButtonBack - обратное ребро на предыдущий шаг (до сохранения черновика)
const ButtonBack = "⬅️ Назад"

// ProductRecord - накопленный черновик товара. До подтверждения обязательных
// полей в базу не пишется ничего; после подтверждения черновик сохранен,
// и шаги с фотографиями фиксируются отдельно.
type ProductRecord struct {
	State      ProductState
	Draft      models.Product
	ProductID  int64
	PhotoCount int
}

// ProductCatalog - то, что мастеру товара нужно от каталога
type ProductCatalog interface {
	Categories() ([]models.Category, error)
	CategoryByName(name string) (models.Category, error)
	CreateProduct(p models.Product) (int64, error)
	AddPhoto(productID int64, data []byte, isMain bool) (int64, error)
	SetMainPhoto(productID int64, number int) error
}

// ProductWizard ведет админа по шагам создания товара
type ProductWizard struct {
	store   *state.Store[ProductRecord]
	catalog ProductCatalog
	logger  *zap.Logger
}

func NewProductWizard(store *state.Store[ProductRecord], cat ProductCatalog, logger *zap.Logger) *ProductWizard {
	return &ProductWizard{
		store:   store,
		catalog: cat,
		logger:  logger,
	}
}

func (w *ProductWizard) InProgress(userID int64) bool {
	_, ok := w.store.Get(userID)
	return ok
}

// Start начинает создание товара
func (w *ProductWizard) Start(userID int64) (Outcome, error) {
	categories, err := w.catalog.Categories()
	if err != nil {
		return Outcome{}, err
	}
	if len(categories) == 0 {
		return Outcome{Cancelled: true, Text: "Сначала создайте хотя бы одну категорию"}, nil
	}

	record := ProductRecord{State: ProductStateName}
	w.store.Set(userID, record)
	return Outcome{Prompt: w.namePrompt()}, nil
}

// обратные ребра линейной части цепочки
var productPrevState = map[ProductState]ProductState{
	ProductStateCategory:     ProductStateName,
	ProductStateDescription:  ProductStateCategory,
	ProductStatePrice:        ProductStateDescription,
	ProductStateUnit:         ProductStatePrice,
	ProductStateQuantity:     ProductStateUnit,
	ProductStatePrepayment:   ProductStateQuantity,
	ProductStateAvailability: ProductStatePrepayment,
	ProductStateConfirmDraft: ProductStateAvailability,
}

func isBack(raw string) bool {
	switch normalize(raw) {
	case normalize(ButtonBack), "назад":
		return true
	}
	return false
}

// Handle обрабатывает текстовый ответ админа
func (w *ProductWizard) Handle(userID int64, input string) (Outcome, error) {
	record, ok := w.store.Get(userID)
	if !ok {
		return Outcome{Cancelled: true, Text: "Создание товара не начато"}, nil
	}

	if IsCancel(input) {
		w.store.Clear(userID)
		if record.ProductID != 0 {
			// черновик уже сохранен, отменяются только шаги с фотографиями
			return Outcome{
				Cancelled: true,
				ProductID: record.ProductID,
				Text:      fmt.Sprintf("Товар №%d сохранен, работа с фотографиями прервана", record.ProductID),
			}, nil
		}
		return Outcome{Cancelled: true, Text: "Создание товара отменено, ничего не сохранено"}, nil
	}

	if prev, hasPrev := productPrevState[record.State]; hasPrev && isBack(input) {
		record.State = prev
		w.store.Set(userID, record)
		return w.promptFor(record)
	}

	switch record.State {
	case ProductStateName:
		return w.handleName(userID, record, input)
	case ProductStateCategory:
		return w.handleCategory(userID, record, input)
	case ProductStateDescription:
		return w.handleDescription(userID, record, input)
	case ProductStatePrice:
		return w.handlePrice(userID, record, input)
	case ProductStateUnit:
		return w.handleUnit(userID, record, input)
	case ProductStateQuantity:
		return w.handleQuantity(userID, record, input)
	case ProductStatePrepayment:
		return w.handlePrepayment(userID, record, input)
	case ProductStateAvailability:
		return w.handleAvailability(userID, record, input)
	case ProductStateConfirmDraft:
		return w.handleConfirmDraft(userID, record, input)
	case ProductStatePhotos:
		return w.handlePhotosText(userID, record, input)
	case ProductStateMainPhoto:
		return w.handleMainPhoto(userID, record, input)
	}

	w.store.Clear(userID)
	return Outcome{Cancelled: true, Text: "Создание товара прервано"}, nil
}

// HandlePhoto обрабатывает присланную фотографию на шаге фотографий
func (w *ProductWizard) HandlePhoto(userID int64, data []byte) (Outcome, error) {
	record, ok := w.store.Get(userID)
	if !ok || record.State != ProductStatePhotos {
		return Outcome{Prompt: &Prompt{Text: "Сейчас фотография не ожидается"}}, nil
	}

	if _, err := w.catalog.AddPhoto(record.ProductID, data, false); err != nil {
		w.logger.Error("ошибка при сохранении фотографии товара",
			zap.Error(err),
			zap.Int64("product_id", record.ProductID),
		)
		return Outcome{Prompt: &Prompt{
			Text:    "Не удалось сохранить фотографию, попробуйте еще раз",
			Options: []string{ButtonPhotosDone, ButtonCancel},
		}}, nil
	}

	record.PhotoCount++
	w.store.Set(userID, record)

	return Outcome{Prompt: &Prompt{
		Text:    fmt.Sprintf("Фотография %d сохранена. Пришлите еще или нажмите «%s».", record.PhotoCount, ButtonPhotosDone),
		Options: []string{ButtonPhotosDone, ButtonCancel},
	}}, nil
}

func (w *ProductWizard) handleName(userID int64, record ProductRecord, input string) (Outcome, error) {
	name, err := ValidateText(input, 2, false)
	if err != nil {
		return w.reprompt(w.namePrompt(), err)
	}

	record.Draft.Name = name
	record.State = ProductStateCategory
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handleCategory(userID int64, record ProductRecord, input string) (Outcome, error) {
	category, err := w.catalog.CategoryByName(input)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			prompt, promptErr := w.categoryPrompt()
			if promptErr != nil {
				return Outcome{}, promptErr
			}
			return w.reprompt(prompt, &ValidationError{Msg: "Такой категории нет"})
		}
		return Outcome{}, err
	}

	record.Draft.CategoryID = category.ID
	record.State = ProductStateDescription
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handleDescription(userID int64, record ProductRecord, input string) (Outcome, error) {
	description, err := ValidateText(input, 2, true)
	if err != nil {
		return w.reprompt(w.descriptionPrompt(), err)
	}

	record.Draft.ShortDescription = description
	record.State = ProductStatePrice
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handlePrice(userID int64, record ProductRecord, input string) (Outcome, error) {
	price, err := ParseNonNegativeNumber(input)
	if err != nil {
		return w.reprompt(w.pricePrompt(), err)
	}

	record.Draft.Price = price
	record.State = ProductStateUnit
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handleUnit(userID int64, record ProductRecord, input string) (Outcome, error) {
	unit, ok := models.ParseMeasurementUnit(input)
	if !ok {
		return w.reprompt(w.unitPrompt(), &ValidationError{Msg: "Выберите единицу измерения с клавиатуры"})
	}

	record.Draft.Unit = unit
	record.State = ProductStateQuantity
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handleQuantity(userID int64, record ProductRecord, input string) (Outcome, error) {
	quantity, err := ParsePositiveNumber(input)
	if err != nil {
		return w.reprompt(w.quantityPrompt(record), err)
	}

	record.Draft.Quantity = quantity
	record.State = ProductStatePrepayment
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handlePrepayment(userID int64, record ProductRecord, input string) (Outcome, error) {
	paymentType, ok := models.ParsePaymentType(input)
	if !ok {
		return w.reprompt(w.prepaymentPrompt(), &ValidationError{Msg: "Выберите условия оплаты с клавиатуры"})
	}

	record.Draft.PaymentType = paymentType
	record.State = ProductStateAvailability
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handleAvailability(userID int64, record ProductRecord, input string) (Outcome, error) {
	choice, err := ParseChoice(input, []string{"Да", "Нет"})
	if err != nil {
		return w.reprompt(w.availabilityPrompt(), err)
	}

	record.Draft.IsAvailable = strings.EqualFold(choice, "Да")
	record.State = ProductStateConfirmDraft
	w.store.Set(userID, record)
	return w.promptFor(record)
}

func (w *ProductWizard) handleConfirmDraft(userID int64, record ProductRecord, input string) (Outcome, error) {
	if _, err := ParseChoice(input, []string{ButtonConfirm, ButtonCancel}); err != nil {
		return w.reprompt(w.confirmPrompt(record), err)
	}

	// документированное исключение: черновик сохраняется здесь,
	// до шагов с фотографиями
	productID, err := w.catalog.CreateProduct(record.Draft)
	if err != nil {
		w.logger.Error("ошибка при сохранении черновика товара",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return Outcome{}, err
	}

	record.ProductID = productID
	record.State = ProductStatePhotos
	w.store.Set(userID, record)

	return Outcome{
		ProductID: productID,
		Prompt: &Prompt{
			Text:    fmt.Sprintf("Товар №%d сохранен. Теперь пришлите фотографии (первая станет главной) или нажмите «%s».", productID, ButtonPhotosDone),
			Options: []string{ButtonPhotosDone, ButtonCancel},
		},
	}, nil
}

func (w *ProductWizard) handlePhotosText(userID int64, record ProductRecord, input string) (Outcome, error) {
	if _, err := ParseChoice(input, []string{ButtonPhotosDone}); err != nil {
		return w.reprompt(&Prompt{
			Text:    "Пришлите фотографию или нажмите «" + ButtonPhotosDone + "»",
			Options: []string{ButtonPhotosDone, ButtonCancel},
		}, err)
	}

	if record.PhotoCount > 1 {
		record.State = ProductStateMainPhoto
		w.store.Set(userID, record)
		return Outcome{Prompt: w.mainPhotoPrompt(record)}, nil
	}

	// ноль или одна фотография: выбирать главную не из чего
	w.store.Clear(userID)
	return Outcome{
		Done:      true,
		ProductID: record.ProductID,
		Text:      fmt.Sprintf("Товар №%d готов к продаже", record.ProductID),
	}, nil
}

func (w *ProductWizard) handleMainPhoto(userID int64, record ProductRecord, input string) (Outcome, error) {
	number, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return w.reprompt(w.mainPhotoPrompt(record), &ValidationError{Msg: "Нужен номер фотографии"})
	}

	if err := w.catalog.SetMainPhoto(record.ProductID, number); err != nil {
		if errors.Is(err, catalog.ErrBadPhotoNumber) {
			return w.reprompt(w.mainPhotoPrompt(record), &ValidationError{Msg: err.Error()})
		}
		return Outcome{}, err
	}

	w.store.Clear(userID)
	return Outcome{
		Done:      true,
		ProductID: record.ProductID,
		Text:      fmt.Sprintf("Товар №%d готов к продаже", record.ProductID),
	}, nil
}

func (w *ProductWizard) reprompt(prompt *Prompt, err error) (Outcome, error) {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return Outcome{}, err
	}
	return Outcome{Prompt: &Prompt{
		Text:    vErr.Msg + "\n\n" + prompt.Text,
		Options: prompt.Options,
	}}, nil
}

// promptFor возвращает вопрос текущего шага записи
func (w *ProductWizard) promptFor(record ProductRecord) (Outcome, error) {
	switch record.State {
	case ProductStateName:
		return Outcome{Prompt: w.namePrompt()}, nil
	case ProductStateCategory:
		prompt, err := w.categoryPrompt()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Prompt: prompt}, nil
	case ProductStateDescription:
		return Outcome{Prompt: w.descriptionPrompt()}, nil
	case ProductStatePrice:
		return Outcome{Prompt: w.pricePrompt()}, nil
	case ProductStateUnit:
		return Outcome{Prompt: w.unitPrompt()}, nil
	case ProductStateQuantity:
		return Outcome{Prompt: w.quantityPrompt(record)}, nil
	case ProductStatePrepayment:
		return Outcome{Prompt: w.prepaymentPrompt()}, nil
	case ProductStateAvailability:
		return Outcome{Prompt: w.availabilityPrompt()}, nil
	case ProductStateConfirmDraft:
		return Outcome{Prompt: w.confirmPrompt(record)}, nil
	}
	return Outcome{}, fmt.Errorf("нет вопроса для шага %d", record.State)
}

// ---- Вопросы шагов ----

func (w *ProductWizard) namePrompt() *Prompt {
	return &Prompt{
		Text:    "Название товара (не короче 2 символов)?",
		Options: []string{ButtonCancel},
	}
}

func (w *ProductWizard) categoryPrompt() (*Prompt, error) {
	categories, err := w.catalog.Categories()
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, len(categories)+2)
	for _, category := range categories {
		options = append(options, category.Name)
	}
	options = append(options, ButtonBack, ButtonCancel)

	return &Prompt{Text: "В какую категорию поместить товар?", Options: options}, nil
}

func (w *ProductWizard) descriptionPrompt() *Prompt {
	return &Prompt{
		Text:    "Короткое описание товара? Можно нажать «Пропустить».",
		Options: []string{ButtonSkip, ButtonBack, ButtonCancel},
	}
}

func (w *ProductWizard) pricePrompt() *Prompt {
	return &Prompt{
		Text:    "Цена в рублях?",
		Options: []string{ButtonBack, ButtonCancel},
	}
}

func (w *ProductWizard) unitPrompt() *Prompt {
	return &Prompt{
		Text: "Единица измерения?",
		Options: []string{
			models.UnitPiece.Title(), models.UnitKg.Title(), models.UnitGram.Title(),
			models.UnitLiter.Title(), models.UnitMl.Title(), models.UnitPack.Title(),
			ButtonBack, ButtonCancel,
		},
	}
}

func (w *ProductWizard) quantityPrompt(record ProductRecord) *Prompt {
	return &Prompt{
		Text:    fmt.Sprintf("За какое количество (%s) указана цена?", record.Draft.Unit.Title()),
		Options: []string{ButtonBack, ButtonCancel},
	}
}

func (w *ProductWizard) prepaymentPrompt() *Prompt {
	return &Prompt{
		Text: "Условия оплаты?",
		Options: []string{
			models.PaymentTypePrepay50.Title(),
			models.PaymentTypePrepay100.Title(),
			models.PaymentTypePostpay.Title(),
			ButtonBack, ButtonCancel,
		},
	}
}

func (w *ProductWizard) availabilityPrompt() *Prompt {
	return &Prompt{
		Text:    "Товар сразу доступен для заказа?",
		Options: []string{"Да", "Нет", ButtonBack, ButtonCancel},
	}
}

func (w *ProductWizard) confirmPrompt(record ProductRecord) *Prompt {
	availability := "недоступен"
	if record.Draft.IsAvailable {
		availability = "доступен"
	}

	text := fmt.Sprintf(
		"Проверьте товар:\n— %s\n— Описание: %s\n— Цена: %.2f ₽ за %g %s\n— Оплата: %s\n— Для заказа: %s",
		record.Draft.Name,
		record.Draft.ShortDescription,
		record.Draft.Price,
		record.Draft.Quantity,
		record.Draft.Unit.Title(),
		record.Draft.PaymentType.Title(),
		availability,
	)
	return &Prompt{Text: text, Options: []string{ButtonConfirm, ButtonCancel}}
}

func (w *ProductWizard) mainPhotoPrompt(record ProductRecord) *Prompt {
	return &Prompt{
		Text: fmt.Sprintf("Какая фотография будет главной? Укажите номер от 1 до %d", record.PhotoCount),
	}
}

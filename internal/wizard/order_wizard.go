package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/orders"
	"github.com/setum77/myconfbot-sub000/internal/state"

	"go.uber.org/zap"
)

// OrderState - шаг мастера оформления заказа. Цепочка линейная с одной
// развилкой: адрес спрашивается только при доставке.
type OrderState int

const (
	OrderStateQuantity OrderState = iota
	OrderStateDate
	OrderStateTime
	OrderStateDelivery
	OrderStateAddress
	OrderStatePayment
	OrderStateNotes
	OrderStateConfirm
)

// OrderRecord - накопленные ответы одного пользователя.
// Ничего не пишется в базу до подтверждения на последнем шаге.
type OrderRecord struct {
	State           OrderState
	ProductID       int64
	Quantity        *float64
	WeightGrams     *float64
	ReadyDate       time.Time
	ReadyAt         *time.Time
	DeliveryType    models.DeliveryType
	DeliveryAddress string
	CustomerNote    string
}

// CatalogReader - то, что мастеру нужно от каталога
type CatalogReader interface {
	Product(id int64) (models.Product, error)
}

// OrderPlacer - то, что мастеру нужно от жизненного цикла заказов
type OrderPlacer interface {
	PlaceOrder(p orders.PlaceOrderParams) (int64, error)
}

// OrderWizard ведет клиента по шагам оформления заказа
type OrderWizard struct {
	store   *state.Store[OrderRecord]
	catalog CatalogReader
	orders  OrderPlacer
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrderWizard(store *state.Store[OrderRecord], catalog CatalogReader, placer OrderPlacer, logger *zap.Logger) *OrderWizard {
	return &OrderWizard{
		store:   store,
		catalog: catalog,
		orders:  placer,
		logger:  logger,
		now:     time.Now,
	}
}

// InProgress сообщает, находится ли пользователь в середине оформления
func (w *OrderWizard) InProgress(userID int64) bool {
	_, ok := w.store.Get(userID)
	return ok
}

// Start начинает оформление заказа на товар
func (w *OrderWizard) Start(userID, productID int64) (Outcome, error) {
	product, err := w.catalog.Product(productID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Outcome{Cancelled: true, Text: "Этого товара больше нет в каталоге"}, nil
		}
		return Outcome{}, err
	}

	if !product.IsAvailable {
		return Outcome{Cancelled: true, Text: "Товар сейчас недоступен для заказа"}, nil
	}

	record := OrderRecord{State: OrderStateQuantity, ProductID: productID}
	w.store.Set(userID, record)

	return Outcome{Prompt: w.quantityPrompt(product)}, nil
}

// Handle обрабатывает очередной ответ пользователя. Ошибка валидации
// не двигает состояние и не трогает запись: тот же вопрос задается снова.
func (w *OrderWizard) Handle(userID int64, input string) (Outcome, error) {
	record, ok := w.store.Get(userID)
	if !ok {
		return Outcome{Cancelled: true, Text: "Оформление заказа не начато"}, nil
	}

	if IsCancel(input) {
		w.store.Clear(userID)
		return Outcome{Cancelled: true, Text: "Заказ отменен. Ничего не сохранено."}, nil
	}

	product, err := w.catalog.Product(record.ProductID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			w.store.Clear(userID)
			return Outcome{Cancelled: true, Text: "Товар был удален, оформление прервано"}, nil
		}
		return Outcome{}, err
	}

	// "К количеству" - явное обратное ребро, работает с любой глубины
	if record.State != OrderStateQuantity && isBackToQuantity(input) {
		record.State = OrderStateQuantity
		w.store.Set(userID, record)
		return Outcome{Prompt: w.quantityPrompt(product)}, nil
	}

	switch record.State {
	case OrderStateQuantity:
		return w.handleQuantity(userID, record, product, input)
	case OrderStateDate:
		return w.handleDate(userID, record, input)
	case OrderStateTime:
		return w.handleTime(userID, record, input)
	case OrderStateDelivery:
		return w.handleDelivery(userID, record, input)
	case OrderStateAddress:
		return w.handleAddress(userID, record, input)
	case OrderStatePayment:
		return w.handlePayment(userID, record, product, input)
	case OrderStateNotes:
		return w.handleNotes(userID, record, product, input)
	case OrderStateConfirm:
		return w.handleConfirm(userID, record, product, input)
	}

	// недостижимо при полном наборе шагов выше
	w.store.Clear(userID)
	return Outcome{Cancelled: true, Text: "Оформление прервано"}, nil
}

func (w *OrderWizard) handleQuantity(userID int64, record OrderRecord, product models.Product, input string) (Outcome, error) {
	value, err := ParsePositiveNumber(input)
	if err != nil {
		return w.reprompt(w.quantityPrompt(product), err)
	}

	if product.Unit.ByWeight() {
		record.WeightGrams = &value
		record.Quantity = nil
	} else {
		record.Quantity = &value
		record.WeightGrams = nil
	}

	record.State = OrderStateDate
	w.store.Set(userID, record)
	return Outcome{Prompt: w.datePrompt()}, nil
}

func (w *OrderWizard) handleDate(userID int64, record OrderRecord, input string) (Outcome, error) {
	date, err := ParseDate(input, w.now(), true)
	if err != nil {
		return w.reprompt(w.datePrompt(), err)
	}

	record.ReadyDate = date
	record.State = OrderStateTime
	w.store.Set(userID, record)
	return Outcome{Prompt: w.timePrompt()}, nil
}

func (w *OrderWizard) handleTime(userID int64, record OrderRecord, input string) (Outcome, error) {
	hour, minute, err := ParseWorkTime(input)
	if err != nil {
		return w.reprompt(w.timePrompt(), err)
	}

	readyAt := record.ReadyDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	record.ReadyAt = &readyAt
	record.State = OrderStateDelivery
	w.store.Set(userID, record)
	return Outcome{Prompt: w.deliveryPrompt()}, nil
}

func (w *OrderWizard) handleDelivery(userID int64, record OrderRecord, input string) (Outcome, error) {
	choice, err := ParseChoice(input, []string{
		models.DeliveryTypeDelivery.Title(),
		models.DeliveryTypePickup.Title(),
	})
	if err != nil {
		return w.reprompt(w.deliveryPrompt(), err)
	}

	deliveryType, _ := models.ParseDeliveryType(choice)
	record.DeliveryType = deliveryType

	if deliveryType == models.DeliveryTypeDelivery {
		record.State = OrderStateAddress
		w.store.Set(userID, record)
		return Outcome{Prompt: w.addressPrompt()}, nil
	}

	record.DeliveryAddress = ""
	record.State = OrderStatePayment
	w.store.Set(userID, record)
	return w.paymentOutcome(userID, record)
}

func (w *OrderWizard) handleAddress(userID int64, record OrderRecord, input string) (Outcome, error) {
	address, err := ValidateText(input, 5, false)
	if err != nil {
		return w.reprompt(w.addressPrompt(), err)
	}

	record.DeliveryAddress = address
	record.State = OrderStatePayment
	w.store.Set(userID, record)
	return w.paymentOutcome(userID, record)
}

func (w *OrderWizard) paymentOutcome(userID int64, record OrderRecord) (Outcome, error) {
	product, err := w.catalog.Product(record.ProductID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			w.store.Clear(userID)
			return Outcome{Cancelled: true, Text: "Товар был удален, оформление прервано"}, nil
		}
		return Outcome{}, err
	}
	return Outcome{Prompt: w.paymentPrompt(product)}, nil
}

func (w *OrderWizard) handlePayment(userID int64, record OrderRecord, product models.Product, input string) (Outcome, error) {
	if _, err := ParseChoice(input, []string{ButtonNext}); err != nil {
		return w.reprompt(w.paymentPrompt(product), err)
	}

	record.State = OrderStateNotes
	w.store.Set(userID, record)
	return Outcome{Prompt: w.notesPrompt()}, nil
}

func (w *OrderWizard) handleNotes(userID int64, record OrderRecord, product models.Product, input string) (Outcome, error) {
	note, err := ValidateText(input, 2, true)
	if err != nil {
		return w.reprompt(w.notesPrompt(), err)
	}

	record.CustomerNote = note
	record.State = OrderStateConfirm
	w.store.Set(userID, record)
	return Outcome{Prompt: w.confirmPrompt(product, record)}, nil
}

func (w *OrderWizard) handleConfirm(userID int64, record OrderRecord, product models.Product, input string) (Outcome, error) {
	if _, err := ParseChoice(input, []string{ButtonConfirm, ButtonCancel}); err != nil {
		return w.reprompt(w.confirmPrompt(product, record), err)
	}

	// единственный шаг, на котором мастер пишет в базу
	params := orders.PlaceOrderParams{
		UserID:       userID,
		ProductID:    record.ProductID,
		Quantity:     record.Quantity,
		WeightGrams:  record.WeightGrams,
		DeliveryType: record.DeliveryType,
		ReadyAt:      record.ReadyAt,
		CustomerNote: record.CustomerNote,
	}
	if record.DeliveryAddress != "" {
		params.DeliveryAddress = &record.DeliveryAddress
	}

	orderID, err := w.orders.PlaceOrder(params)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			w.store.Clear(userID)
			return Outcome{Cancelled: true, Text: "Товар был удален, заказ не создан"}, nil
		}
		w.logger.Error("ошибка при создании заказа из мастера",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return Outcome{}, err
	}

	w.store.Clear(userID)
	return Outcome{
		Done:    true,
		OrderID: orderID,
		Text: fmt.Sprintf(
			"🎂 Заказ №%d оформлен!\nСтоимость: %.2f ₽\nУсловия оплаты: %s\nМы напишем вам, когда статус изменится.",
			orderID,
			orders.TotalCost(product, record.Quantity, record.WeightGrams),
			product.PaymentType.Title(),
		),
	}, nil
}

// reprompt возвращает тот же вопрос с пояснением. Запись не меняется.
func (w *OrderWizard) reprompt(prompt *Prompt, err error) (Outcome, error) {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return Outcome{}, err
	}
	return Outcome{Prompt: &Prompt{
		Text:    vErr.Msg + "\n\n" + prompt.Text,
		Options: prompt.Options,
	}}, nil
}

// ---- Вопросы шагов ----

func (w *OrderWizard) quantityPrompt(product models.Product) *Prompt {
	var text string
	if product.Unit.ByWeight() {
		text = fmt.Sprintf(
			"Сколько граммов «%s» приготовить?\nЦена: %.2f ₽ за %g %s",
			product.Name, product.Price, product.Quantity, product.Unit.Title(),
		)
	} else {
		text = fmt.Sprintf(
			"Сколько «%s» приготовить?\nЦена: %.2f ₽ за %g %s",
			product.Name, product.Price, product.Quantity, product.Unit.Title(),
		)
	}
	return &Prompt{Text: text, Options: []string{ButtonCancel}}
}

func (w *OrderWizard) datePrompt() *Prompt {
	return &Prompt{
		Text:    "К какой дате нужен заказ? Формат ДД.ММ.ГГГГ, самое раннее - завтра.",
		Options: []string{ButtonBackToQuantity, ButtonCancel},
	}
}

func (w *OrderWizard) timePrompt() *Prompt {
	return &Prompt{
		Text:    "К какому времени? Формат ЧЧ:ММ, мы работаем с 09:00 до 21:00.",
		Options: []string{ButtonBackToQuantity, ButtonCancel},
	}
}

func (w *OrderWizard) deliveryPrompt() *Prompt {
	return &Prompt{
		Text: "Как вы хотите получить заказ?",
		Options: []string{
			models.DeliveryTypeDelivery.Title(),
			models.DeliveryTypePickup.Title(),
			ButtonBackToQuantity,
			ButtonCancel,
		},
	}
}

func (w *OrderWizard) addressPrompt() *Prompt {
	return &Prompt{
		Text:    "Укажите адрес доставки (не короче 5 символов).",
		Options: []string{ButtonBackToQuantity, ButtonCancel},
	}
}

func (w *OrderWizard) paymentPrompt(product models.Product) *Prompt {
	return &Prompt{
		Text: fmt.Sprintf("Условия оплаты этого товара: %s.", product.PaymentType.Title()),
		Options: []string{
			ButtonNext,
			ButtonBackToQuantity,
			ButtonCancel,
		},
	}
}

func (w *OrderWizard) notesPrompt() *Prompt {
	return &Prompt{
		Text:    "Пожелания к заказу? Надпись на торте, декор - или нажмите «Пропустить».",
		Options: []string{ButtonSkip, ButtonBackToQuantity, ButtonCancel},
	}
}

func (w *OrderWizard) confirmPrompt(product models.Product, record OrderRecord) *Prompt {
	var amount string
	if record.WeightGrams != nil {
		amount = fmt.Sprintf("%g г", *record.WeightGrams)
	} else if record.Quantity != nil {
		amount = fmt.Sprintf("%g %s", *record.Quantity, product.Unit.Title())
	}

	ready := ""
	if record.ReadyAt != nil {
		ready = record.ReadyAt.Format(DateLayout + " " + TimeLayout)
	}

	receive := record.DeliveryType.Title()
	if record.DeliveryAddress != "" {
		receive += ", " + record.DeliveryAddress
	}

	text := fmt.Sprintf(
		"Проверьте заказ:\n— %s, %s\n— Готовность: %s\n— Получение: %s\n— Стоимость: %.2f ₽\n— Оплата: %s",
		product.Name, amount, ready, receive,
		orders.TotalCost(product, record.Quantity, record.WeightGrams),
		product.PaymentType.Title(),
	)
	if record.CustomerNote != "" {
		text += "\n— Комментарий: " + record.CustomerNote
	}

	return &Prompt{Text: text, Options: []string{ButtonConfirm, ButtonCancel}}
}

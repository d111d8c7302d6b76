package i18n

import "golang.org/x/text/message"

// Message keys.
const (
	MsgAllFieldsRequired   = "All fields are required!"
	MsgPasswordsMismatch   = "Passwords do not match!"
	MsgEmailInvalid        = "Email is invalid"
	MsgRegisterFailed      = "Registration failed"
	MsgConfirmEmail        = "To finish registration, follow the activation link sent to your email."
	MsgLoginFailed         = "Login failed"
	MsgInvalidCredentials  = "Wrong email or password"
	MsgPhoneRequired       = "Phone number is required"
	MsgPhoneInvalid        = "Phone number format is invalid"
	MsgManagerPhoneInvalid = "Phone must look like +996XXXXXXXXX"
	MsgAddressRequired     = "Delivery address is required"
	MsgNotesTooLong        = "Notes are too long"
	MsgCartEmpty           = "Your cart is empty"
	MsgOrderFailed         = "Error while placing the order"
	MsgSessionExpired      = "Access denied. Please log in again"
	MsgPaymentSuccess      = "Payment completed successfully!"
	MsgPaymentPending      = "Your payment is still being processed."
	MsgPaymentRetry        = "Check again"
	MsgPaymentCancelled    = "Payment was cancelled"
	MsgDateError           = "Date error"
	MsgSomethingWrong      = "Something went wrong"
	MsgNotFound            = "Not found"
	MsgDiscountName        = "Discount name is required"
	MsgDiscountPercent     = "Discount percentage must be a number from 0 to 100"
	MsgDiscountImage       = "Discount image is required"
	MsgDiscountDates       = "Start and end dates are required"
	MsgDiscountDateOrder   = "Start date must be before end date"
	MsgTitleRequired       = "Title is required"
	MsgDescRequired        = "Description is required"
	MsgPriceInvalid        = "Price must be a positive number"
	MsgStockInvalid        = "Stock quantity must be a whole number"
	MsgUsernameRequired    = "Username is required"
	MsgPasswordShort       = "Password must be at least 6 characters"
	MsgBirthDateInvalid    = "Birth date is invalid"
	MsgManagerHasRelations = "Failed to delete manager: related data exists. Contact the database administrator."
	MsgNoStageAvailable    = "This order has no next stage"
	MsgConfirmNotAllowed   = "Delivery can only be confirmed for delivered orders"
	MsgPageOf              = "Page %d of %d"
	MsgEmptyCart           = "Cart is empty"
	MsgEmptyWishlist       = "Wishlist is empty"
	MsgNothingFound        = "Nothing found"
	MsgTooManyActions      = "Too many actions, try again in a minute"
	MsgUploadFailed        = "File upload failed"
)

type entry struct{ ky, ru string }

var catalog = map[string]entry{
	MsgAllFieldsRequired:   {"Бардык талааларды толтуруңуз!", "Все поля обязательны для заполнения!"},
	MsgPasswordsMismatch:   {"Сыр сөздөр дал келбейт!", "Пароли не совпадают!"},
	MsgEmailInvalid:        {"Email туура эмес", "Некорректный email"},
	MsgRegisterFailed:      {"Катталуу учурунда ката кетти", "Ошибка при регистрации"},
	MsgConfirmEmail:        {"Каттоону аяктоо үчүн, почтаңызга жөнөтүлгөн шилтемени басыңыз.", "Для завершения регистрации перейдите по ссылке, отправленной на вашу почту."},
	MsgLoginFailed:         {"Кирүү учурунда ката кетти", "Непредвиденная ошибка при входе"},
	MsgInvalidCredentials:  {"Email же сыр сөз туура эмес", "Неверный email или пароль"},
	MsgPhoneRequired:       {"Телефон номуру керектүү", "Номер телефона обязателен"},
	MsgPhoneInvalid:        {"Телефон номурунун форматы туура эмес", "Неверный формат номера телефона"},
	MsgManagerPhoneInvalid: {"Номер +996XXXXXXXXX форматында болушу керек", "Номер должен быть в формате +996XXXXXXXXX"},
	MsgAddressRequired:     {"Жеткирүү дареги керектүү", "Адрес доставки обязателен"},
	MsgNotesTooLong:        {"Кошумча маалымат өтө узун", "Примечание слишком длинное"},
	MsgCartEmpty:           {"Себетиңизде жеткиликтүү китептер жок", "В корзине нет доступных книг"},
	MsgOrderFailed:         {"Буюртма берүүдө ката кетти", "Ошибка при оформлении заказа"},
	MsgSessionExpired:      {"Кирүү мүмкүн эмес. Кайрадан авторизациядан өтүү керек", "Доступ запрещён. Необходимо снова войти"},
	MsgPaymentSuccess:      {"Төлөм ийгиликтүү аяктады!", "Оплата прошла успешно!"},
	MsgPaymentPending:      {"Төлөмүңүз дагы эле иштетилүүдө.", "Ваш платёж ещё обрабатывается."},
	MsgPaymentRetry:        {"Кайра текшерүү", "Проверить снова"},
	MsgPaymentCancelled:    {"Төлөм жокко чыгарылды", "Оплата отменена"},
	MsgDateError:           {"Дата катасы", "Ошибка даты"},
	MsgSomethingWrong:      {"Бир нерсе туура эмес болуп калды", "Что-то пошло не так"},
	MsgNotFound:            {"Табылган жок", "Не найдено"},
	MsgDiscountName:        {"Арзандатуунун аталышы керектүү", "Название скидки обязательно"},
	MsgDiscountPercent:     {"Пайыз 0дөн 100гө чейинки сан болушу керек", "Процент скидки должен быть числом от 0 до 100"},
	MsgDiscountImage:       {"Арзандатуунун сүрөтү керектүү", "Изображение скидки обязательно"},
	MsgDiscountDates:       {"Башталуу жана аяктоо даталары керектүү", "Даты начала и окончания обязательны"},
	MsgDiscountDateOrder:   {"Башталуу датасы аяктоо датасынан мурун болушу керек", "Дата начала должна быть раньше даты окончания"},
	MsgTitleRequired:       {"Аталышы керектүү", "Название обязательно"},
	MsgDescRequired:        {"Сүрөттөмө керектүү", "Описание обязательно"},
	MsgPriceInvalid:        {"Баасы оң сан болушу керек", "Цена должна быть положительным числом"},
	MsgStockInvalid:        {"Саны бүтүн сан болушу керек", "Количество должно быть целым числом"},
	MsgUsernameRequired:    {"Колдонуучунун аты керектүү", "Имя пользователя обязательно"},
	MsgPasswordShort:       {"Сыр сөз кеминде 6 белгиден турушу керек", "Пароль должен содержать минимум 6 символов"},
	MsgBirthDateInvalid:    {"Туулган күнү туура эмес", "Некорректная дата рождения"},
	MsgManagerHasRelations: {"Менеджерди өчүрүү мүмкүн эмес: байланышкан маалыматтар бар.", "Не удалось удалить менеджера: существуют связанные данные. Обратитесь к администратору базы данных."},
	MsgNoStageAvailable:    {"Бул буюртманын кийинки этабы жок", "У этого заказа нет следующего этапа"},
	MsgConfirmNotAllowed:   {"Жеткирилген буюртманы гана ырастоого болот", "Подтвердить можно только доставленный заказ"},
	MsgPageOf:              {"%d / %d барак", "Страница %d из %d"},
	MsgEmptyCart:           {"Себет бош", "Корзина пуста"},
	MsgEmptyWishlist:       {"Тандалгандар бош", "Избранное пусто"},
	MsgNothingFound:        {"Эч нерсе табылган жок", "Ничего не найдено"},
	MsgTooManyActions:      {"Аракеттер өтө көп, бир мүнөттөн кийин кайталаңыз", "Слишком много действий, повторите через минуту"},
	MsgUploadFailed:        {"Файлды жүктөө ишке ашкан жок", "Не удалось загрузить файл"},
}

func init() {
	for key, e := range catalog {
		_ = message.SetString(Kyrgyz, key, e.ky)
		_ = message.SetString(Russian, key, e.ru)
	}
}

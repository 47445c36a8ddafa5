package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// TelegramService notifies the operations chat about new orders.
type TelegramService struct {
	botToken    string
	adminChatID string
	log         *logrus.Entry
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, log *logrus.Entry) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		log:         log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat. A missing bot
// token disables notifications silently.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		s.log.Debug("telegram bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		s.log.WithError(err).Warn("failed to send telegram message")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.WithField("status", resp.StatusCode).Warn("unexpected telegram status")
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification contains order data for the new-order message.
type OrderNotification struct {
	OrderNumber          string
	PharmacyName         string
	CustomerName         string
	CustomerPhone        string
	Items                []OrderItemNotification
	TotalAmount          float64
	PrescriptionRequired bool
}

// OrderItemNotification contains one order line.
type OrderItemNotification struct {
	Name     string
	Quantity int
	Price    float64
}

// FormatPrice formats an amount with thousand separators and currency.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "EGP"
	}
	intAmount := int64(amount)
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String() + " " + currency
}

// NotifyNewOrder announces a freshly placed order to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		itemTotal := item.Price * float64(item.Quantity)
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			item.Name,
			item.Quantity,
			FormatPrice(item.Price, "EGP"),
			FormatPrice(itemTotal, "EGP"),
		))
	}

	prescriptionNote := ""
	if order.PrescriptionRequired {
		prescriptionNote = "\n<b>⚕️ Prescription review required</b>"
	}

	message := fmt.Sprintf(`<b>🛒 New order</b>
<b>📋 Order:</b> %s
<b>🏥 Pharmacy:</b> %s
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s%s`,
		order.OrderNumber,
		order.PharmacyName,
		order.CustomerName,
		order.CustomerPhone,
		itemsList.String(),
		FormatPrice(order.TotalAmount, "EGP"),
		prescriptionNote,
	)

	return s.SendMessage(s.adminChatID, strings.TrimSpace(message))
}

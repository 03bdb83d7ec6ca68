package interfaces

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	application "nhatro-cloud/internal/invoice/application"
	invoice "nhatro-cloud/internal/invoice/domain"
	reading "nhatro-cloud/internal/reading/domain"
)

// ErrPayeeNotConfigured is returned when the billing profile has no account.
var ErrPayeeNotConfigured = errors.New("payment: payee account not configured")

// PaymentReference is the payload handed to the external QR renderer:
// the amount, a transfer note the landlord can recognize, and the
// account identifiers. No business rules live here.
type PaymentReference struct {
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	BankID      string `json:"bankId"`
	AccountNo   string `json:"accountNo"`
	AccountName string `json:"accountName"`
	ImageURL    string `json:"imageUrl"`
}

// TransferNote renders the "room rent for month M/YYYY" note.
func TransferNote(month reading.Month) string {
	parts := strings.SplitN(month.String(), "-", 2)
	if len(parts) != 2 {
		return ""
	}
	return fmt.Sprintf("tien phong thang %s/%s", parts[1], parts[0])
}

// BuildPaymentReference builds the deterministic payment payload for an invoice.
func BuildPaymentReference(inv *invoice.Invoice, payee application.PayeeAccount) (PaymentReference, error) {
	if inv == nil {
		return PaymentReference{}, invoice.ErrInvoiceNotFound
	}
	if payee.BankID == "" || payee.AccountNo == "" {
		return PaymentReference{}, ErrPayeeNotConfigured
	}
	note := TransferNote(inv.Month)

	query := url.Values{}
	query.Set("amount", strconv.FormatInt(inv.TotalAmount, 10))
	query.Set("addInfo", note)
	query.Set("accountName", payee.AccountName)
	imageURL := fmt.Sprintf("https://img.vietqr.io/image/%s-%s-%s.png?%s",
		payee.BankID, payee.AccountNo, payee.QRTemplate, query.Encode())

	return PaymentReference{
		Amount:      inv.TotalAmount,
		Reference:   note,
		BankID:      payee.BankID,
		AccountNo:   payee.AccountNo,
		AccountName: payee.AccountName,
		ImageURL:    imageURL,
	}, nil
}

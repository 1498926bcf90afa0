// Package vnpay builds signed VNPay checkout URLs and verifies the signed
// parameters VNPay appends to the return URL.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Version    = "2.1.0"
	dateLayout = "20060102150405"

	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"

	ResponseCodeSuccess = "00"
)

// VNPay timestamps are always Indochina time.
var gatewayZone = time.FixedZone("ICT", 7*60*60)

type Config struct {
	URL         string
	TmnCode     string
	HashSecret  string
	ReturnURL   string
	ExpireAfter time.Duration
}

type PaymentRequest struct {
	OrderID   string
	Amount    decimal.Decimal
	OrderInfo string
	IPAddr    string
	Locale    string
}

type ReturnResult struct {
	Valid         bool
	Success       bool
	Message       string
	ResponseCode  string
	OrderID       string
	TransactionNo string
	Amount        decimal.Decimal
	BankCode      string
	PayDate       string
}

type Client struct {
	cfg Config
	now func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.ExpireAfter <= 0 {
		cfg.ExpireAfter = 15 * time.Minute
	}
	return &Client{cfg: cfg, now: time.Now}
}

func (c *Client) CreatePaymentURL(req PaymentRequest) (string, error) {
	if req.OrderID == "" {
		return "", errors.New("vnpay: order id is required")
	}
	if !req.Amount.IsPositive() {
		return "", errors.New("vnpay: amount must be positive")
	}
	locale := req.Locale
	if locale == "" {
		locale = "vn"
	}

	created := c.now().In(gatewayZone)
	params := map[string]string{
		"vnp_Version":    Version,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Locale":     locale,
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.OrderID,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Amount":     req.Amount.Mul(decimal.NewFromInt(100)).Round(0).StringFixed(0),
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     req.IPAddr,
		"vnp_CreateDate": created.Format(dateLayout),
		"vnp_ExpireDate": created.Add(c.cfg.ExpireAfter).Format(dateLayout),
	}
	params[ParamSecureHash] = c.Sign(params)

	keys := sortedKeys(params)
	var b strings.Builder
	b.WriteString(c.cfg.URL)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String(), nil
}

// Sign joins the parameters in key order without URL encoding and returns
// the hex HMAC-SHA512 digest. The hash fields themselves are skipped.
func (c *Client) Sign(params map[string]string) string {
	keys := sortedKeys(params)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		parts = append(parts, k+"="+params[k])
	}

	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) Verify(params map[string]string) bool {
	given := params[ParamSecureHash]
	if given == "" {
		return false
	}
	expected := c.Sign(params)
	return hmac.Equal([]byte(strings.ToLower(given)), []byte(expected))
}

func (c *Client) ProcessReturn(params map[string]string) ReturnResult {
	if !c.Verify(params) {
		return ReturnResult{Message: "Invalid signature"}
	}

	res := ReturnResult{
		Valid:         true,
		ResponseCode:  params["vnp_ResponseCode"],
		OrderID:       params["vnp_TxnRef"],
		TransactionNo: params["vnp_TransactionNo"],
		BankCode:      params["vnp_BankCode"],
		PayDate:       params["vnp_PayDate"],
	}
	if raw, err := strconv.ParseInt(params["vnp_Amount"], 10, 64); err == nil {
		res.Amount = decimal.New(raw, -2)
	}

	res.Success = res.ResponseCode == ResponseCodeSuccess
	res.Message = ResponseMessage(res.ResponseCode)
	return res
}

func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package vnpay builds signed VNPay payment URLs and validates gateway callbacks.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Apurer/flower-shop-api/internal/shared/money"
)

const (
	DefaultVersion     = "2.1.0"
	DefaultCommand     = "pay"
	DefaultCurrCode    = "VND"
	DefaultLocale      = "vn"
	DefaultOrderType   = "other"
	DefaultIPAddr      = "127.0.0.1"
	DefaultExpireAfter = 15 * time.Minute

	// DateLayout is the gateway's yyyyMMddHHmmss timestamp format.
	DateLayout = "20060102150405"

	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
)

var (
	// ErrInvalidSignature is returned when a callback was not signed with our secret.
	ErrInvalidSignature = errors.New("vnpay: invalid signature")
	// ErrMissingSignature is returned when the callback carries no vnp_SecureHash.
	ErrMissingSignature = errors.New("vnpay: missing vnp_SecureHash")
	// ErrTmnCodeMismatch is returned when a signed callback names another terminal.
	ErrTmnCodeMismatch = errors.New("vnpay: terminal code mismatch")
	// ErrInvalidRequest is returned for incomplete payment requests.
	ErrInvalidRequest = errors.New("vnpay: invalid payment request")
	// ErrNotConfigured is returned when the merchant credentials are missing.
	ErrNotConfigured = errors.New("vnpay: merchant not configured")
)

// Config holds the merchant credentials and gateway defaults.
type Config struct {
	TmnCode     string
	HashSecret  string
	PaymentURL  string
	ReturnURL   string
	Version     string
	Command     string
	CurrCode    string
	Locale      string
	ExpireAfter time.Duration
	Location    *time.Location
}

// Validate reports whether the merchant credentials are present.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.TmnCode) == "" {
		missing = append(missing, "TmnCode")
	}
	if strings.TrimSpace(c.HashSecret) == "" {
		missing = append(missing, "HashSecret")
	}
	if strings.TrimSpace(c.PaymentURL) == "" {
		missing = append(missing, "PaymentURL")
	}
	if strings.TrimSpace(c.ReturnURL) == "" {
		missing = append(missing, "ReturnURL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.CurrCode == "" {
		c.CurrCode = DefaultCurrCode
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.ExpireAfter <= 0 {
		c.ExpireAfter = DefaultExpireAfter
	}
	if c.Location == nil {
		c.Location = GatewayLocation()
	}
	return c
}

// GatewayLocation is Asia/Ho_Chi_Minh, or a fixed UTC+7 zone if the database is unavailable.
func GatewayLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// PaymentRequest describes one redirect to the payment page. Amount is in VND.
type PaymentRequest struct {
	TxnRef    string
	Amount    int64
	OrderInfo string
	OrderType string
	Locale    string
	BankCode  string
	IPAddr    string
	CreatedAt time.Time
}

// CallbackResult is a verified IPN or return-URL query. Amount is in VND.
type CallbackResult struct {
	TmnCode           string
	TxnRef            string
	Amount            int64
	BankCode          string
	BankTranNo        string
	CardType          string
	OrderInfo         string
	PayDate           string
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
}

// Succeeded reports whether the gateway approved the payment.
func (r *CallbackResult) Succeeded() bool {
	return r.ResponseCode == "00" && (r.TransactionStatus == "" || r.TransactionStatus == "00")
}

// Client signs and verifies gateway messages for one merchant.
type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration with defaults applied.
func (c *Client) Config() Config {
	return c.cfg
}

// Canonicalize returns the string the gateway signs: sorted keys, signature fields dropped,
// values encoded like encodeURIComponent with %20 as '+'. Empty values are signed as "k=".
func Canonicalize(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(encodeComponent(k))
		b.WriteByte('=')
		b.WriteString(encodeComponent(params.Get(k)))
	}
	return b.String()
}

// Sign returns the lowercase hex HMAC-SHA512 of the canonical parameters.
func Sign(secret string, params url.Values) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(Canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign signs params with the merchant secret.
func (c *Client) Sign(params url.Values) string {
	return Sign(c.cfg.HashSecret, params)
}

// BuildPaymentURL assembles and signs the redirect URL for req.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.TxnRef) == "" {
		return "", fmt.Errorf("%w: txnRef is required", ErrInvalidRequest)
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.OrderInfo) == "" {
		return "", fmt.Errorf("%w: orderInfo is required", ErrInvalidRequest)
	}
	if req.IPAddr == "" {
		req.IPAddr = DefaultIPAddr
	}
	if req.OrderType == "" {
		req.OrderType = DefaultOrderType
	}
	if req.Locale == "" {
		req.Locale = c.cfg.Locale
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	created := req.CreatedAt.In(c.cfg.Location)

	params := url.Values{}
	params.Set("vnp_Version", c.cfg.Version)
	params.Set("vnp_Command", c.cfg.Command)
	params.Set("vnp_TmnCode", c.cfg.TmnCode)
	params.Set("vnp_Locale", req.Locale)
	params.Set("vnp_CurrCode", c.cfg.CurrCode)
	params.Set("vnp_TxnRef", req.TxnRef)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", req.OrderType)
	params.Set("vnp_Amount", money.ToGatewayUnits(req.Amount))
	params.Set("vnp_ReturnUrl", c.cfg.ReturnURL)
	params.Set("vnp_IpAddr", req.IPAddr)
	params.Set("vnp_CreateDate", created.Format(DateLayout))
	params.Set("vnp_ExpireDate", created.Add(c.cfg.ExpireAfter).Format(DateLayout))
	if req.BankCode != "" {
		params.Set("vnp_BankCode", req.BankCode)
	}

	canonical := Canonicalize(params)
	return c.cfg.PaymentURL + "?" + canonical + "&" + ParamSecureHash + "=" + c.Sign(params), nil
}

// VerifyCallback checks the signature and terminal of a gateway query and parses it.
func (c *Client) VerifyCallback(query url.Values) (*CallbackResult, error) {
	received := query.Get(ParamSecureHash)
	if received == "" {
		return nil, ErrMissingSignature
	}
	expected := c.Sign(query)
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return nil, ErrInvalidSignature
	}
	if tmn := query.Get("vnp_TmnCode"); tmn != "" && tmn != c.cfg.TmnCode {
		return nil, ErrTmnCodeMismatch
	}
	result := &CallbackResult{
		TmnCode:           query.Get("vnp_TmnCode"),
		TxnRef:            query.Get("vnp_TxnRef"),
		BankCode:          query.Get("vnp_BankCode"),
		BankTranNo:        query.Get("vnp_BankTranNo"),
		CardType:          query.Get("vnp_CardType"),
		OrderInfo:         query.Get("vnp_OrderInfo"),
		PayDate:           query.Get("vnp_PayDate"),
		ResponseCode:      query.Get("vnp_ResponseCode"),
		TransactionStatus: query.Get("vnp_TransactionStatus"),
		TransactionNo:     query.Get("vnp_TransactionNo"),
	}
	if raw := query.Get("vnp_Amount"); raw != "" {
		amount, err := money.FromGatewayUnits(raw)
		if err != nil {
			return nil, fmt.Errorf("vnpay: parse vnp_Amount: %w", err)
		}
		result.Amount = amount
	}
	return result, nil
}

var componentUnescaper = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent matches encodeURIComponent followed by %20 -> '+'.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

var responseMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công. Giao dịch bị nghi ngờ (liên quan tới lừa đảo, giao dịch bất thường)",
	"09": "Giao dịch không thành công do: Thẻ/Tài khoản của khách hàng chưa đăng ký dịch vụ InternetBanking tại ngân hàng",
	"10": "Giao dịch không thành công do: Khách hàng xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Giao dịch không thành công do: Đã hết hạn chờ thanh toán",
	"12": "Giao dịch không thành công do: Thẻ/Tài khoản của khách hàng bị khóa",
	"13": "Giao dịch không thành công do: Quý khách nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Giao dịch không thành công do: Khách hàng hủy giao dịch",
	"51": "Giao dịch không thành công do: Tài khoản không đủ số dư để thực hiện giao dịch",
	"65": "Giao dịch không thành công do: Tài khoản của Quý khách đã vượt quá hạn mức giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Giao dịch không thành công do: KH nhập sai mật khẩu thanh toán quá số lần quy định",
	"99": "Các lỗi khác",
}

// ResponseMessage describes a vnp_ResponseCode.
func ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}
	return "Lỗi không xác định: " + code
}

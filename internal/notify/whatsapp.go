package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/logger"
)

var (
	// ErrChannelDisabled WhatsApp 渠道未启用
	ErrChannelDisabled = errors.New("whatsapp channel disabled")
	// ErrSendFailed 推送失败
	ErrSendFailed = errors.New("whatsapp send failed")
)

// WhatsAppSender WhatsApp 模板消息推送器。
// 对接营销 API 的 campaign 接口，验证码走带按钮的 OTP 模板。
type WhatsAppSender struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewWhatsAppSender 创建推送器
func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WhatsAppSender{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled 渠道是否可用
func (s *WhatsAppSender) Enabled() bool {
	return s != nil && s.cfg.Enabled && strings.TrimSpace(s.cfg.APIKey) != ""
}

type campaignRequest struct {
	APIKey         string           `json:"apiKey"`
	CampaignName   string           `json:"campaignName"`
	Destination    string           `json:"destination"`
	UserName       string           `json:"userName"`
	TemplateParams []string         `json:"templateParams"`
	Buttons        []campaignButton `json:"buttons,omitempty"`
}

type campaignButton struct {
	Type       string                `json:"type"`
	SubType    string                `json:"sub_type"`
	Index      string                `json:"index"`
	Parameters []campaignButtonParam `json:"parameters"`
}

type campaignButtonParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendOTP 推送验证码。destination 为国家码加手机号。
func (s *WhatsAppSender) SendOTP(ctx context.Context, phone, name, code string) error {
	if !s.Enabled() {
		return ErrChannelDisabled
	}
	if ctx == nil {
		ctx = context.Background()
	}

	destination := strings.TrimSpace(s.cfg.CountryCode) + strings.TrimSpace(phone)
	if strings.TrimSpace(name) == "" {
		name = "Customer"
	}

	payload := campaignRequest{
		APIKey:         s.cfg.APIKey,
		CampaignName:   s.cfg.CampaignName,
		Destination:    destination,
		UserName:       name,
		TemplateParams: []string{code},
		Buttons: []campaignButton{
			{
				Type:    "button",
				SubType: "url",
				Index:   "0",
				Parameters: []campaignButtonParam{
					{Type: "text", Text: code},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload failed", ErrSendFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request failed", ErrSendFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnw("whatsapp_send_failed",
			"status", resp.StatusCode,
			"destination", destination,
			"body", string(respBody),
		)
		return fmt.Errorf("%w: status %d", ErrSendFailed, resp.StatusCode)
	}

	logger.Infow("whatsapp_otp_sent", "destination", destination)
	return nil
}

package notification

import (
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"hospital-connect/configuration"
)

// SMSVerifier wraps the Twilio Verify API used to confirm patient phone
// numbers at registration.
type SMSVerifier struct {
	client     *twilio.RestClient
	serviceSID string
}

func NewSMSVerifier(cfg *configuration.Config) *SMSVerifier {
	if cfg.TwilioAccountSID == "" {
		return &SMSVerifier{}
	}
	return &SMSVerifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		serviceSID: cfg.TwilioVerifySID,
	}
}

func (v *SMSVerifier) Enabled() bool { return v.client != nil }

// SendCode asks Twilio to text a verification code to phone.
func (v *SMSVerifier) SendCode(phone string) error {
	if !v.Enabled() {
		return nil
	}
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	if _, err := v.client.VerifyV2.CreateVerification(v.serviceSID, params); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// CheckCode verifies the code the patient typed in.
func (v *SMSVerifier) CheckCode(phone, code string) error {
	if !v.Enabled() {
		return nil
	}
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := v.client.VerifyV2.CreateVerificationCheck(v.serviceSID, params)
	if err != nil {
		return fmt.Errorf("check verification code: %w", err)
	}
	if resp.Status == nil || *resp.Status != "approved" {
		return fmt.Errorf("wrong verification code")
	}
	return nil
}

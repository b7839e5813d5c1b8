// Package chat implements the conversational lead-intake engine: a
// finite-state dialogue controller that interviews a visitor, validates and
// normalizes each answer, and publishes the completed record for scoring,
// persistence and analytics.
package chat

import (
	"fmt"

	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/platform/config"
)

// Script owns the agent's copy: prompts, quick-reply options and corrective
// messages, localized with the agency's name, service area and currency.
type Script struct {
	agency      string
	serviceArea string
	currency    string
}

// NewScript builds the agent copy from chat configuration.
func NewScript(cfg config.ChatConfig) *Script {
	return &Script{
		agency:      cfg.GetAgencyName(),
		serviceArea: cfg.GetServiceArea(),
		currency:    cfg.GetCurrencySymbol(),
	}
}

// Quick-reply tokens with transition semantics. Button labels double as the
// wire tokens the shell posts back.
const (
	ReplyGetStarted = "Get Started"
	ReplyLearnMore  = "Learn More"
	ReplyNotNow     = "Not Now"
	ReplyLetsStart  = "Yes, let's start"
	ReplyTellMeMore = "Tell me more"
	ReplyMaybeLater = "Maybe later"
	ReplyStartNew   = "Start New Quote"
	ReplyCloseChat  = "Close Chat"
)

func (s *Script) WelcomeReplies() []string {
	return []string{ReplyGetStarted, ReplyLearnMore, ReplyNotNow}
}

func (s *Script) LearnMoreReplies() []string {
	return []string{ReplyLetsStart, ReplyTellMeMore, ReplyMaybeLater}
}

func (s *Script) InsuranceOptions() []string {
	return []string{domain.InsuranceLife, domain.InsuranceTravel, domain.InsuranceCritical, domain.InsuranceNotSure}
}

func (s *Script) GenderOptions() []string {
	return []string{domain.GenderMale, domain.GenderFemale, domain.GenderUndecl}
}

func (s *Script) SmokerOptions() []string {
	return []string{domain.SmokerNo, domain.SmokerYes, domain.SmokerFormer}
}

func (s *Script) CoverageOptions() []string {
	return []string{
		s.currency + "250K",
		s.currency + "500K",
		s.currency + "1M",
		domain.CoverageNotSure,
	}
}

func (s *Script) ConfirmationReplies() []string {
	return []string{ReplyStartNew, ReplyCloseChat}
}

func (s *Script) Greeting() string {
	return fmt.Sprintf("👋 Hi! I'm your %s assistant. I'm here to help you find the perfect life insurance coverage in just a few minutes.", s.agency)
}

func (s *Script) Elaboration() string {
	return fmt.Sprintf("I'm an LLQP certified agent specializing in life insurance across %s. I can help you compare quotes from 15+ insurance companies and find coverage that fits your budget. Ready to get started?", s.serviceArea)
}

func (s *Script) Goodbye() string {
	return "No problem! I'll be here whenever you're ready. Feel free to click on me anytime to get your free quote. Have a great day! 👋"
}

func (s *Script) AskName() string {
	return "Great! Let's start with your name. What's your first name?"
}

func (s *Script) AskInsuranceType(firstName string) string {
	return fmt.Sprintf("Nice to meet you, %s! What type of insurance are you most interested in?", firstName)
}

func (s *Script) AskGender(insuranceType string) string {
	if insuranceType == domain.InsuranceLife || insuranceType == domain.InsuranceNotSure {
		return "Perfect! To give you an accurate quote for life insurance, I need some basic information. Are you male or female?"
	}
	return fmt.Sprintf("Great choice on %s! Let me connect you with specialized information. For now, let's focus on life insurance as it's foundational coverage. Are you male or female?", insuranceType)
}

func (s *Script) AskAge() string {
	return "Thanks! What's your age? (This helps determine your premium rates)"
}

func (s *Script) AskSmoker() string {
	return "Are you currently a smoker? (This significantly affects rates)"
}

func (s *Script) AskCoverage(age string) string {
	return fmt.Sprintf("Thanks! Based on your age (%s), what coverage amount are you considering? Here are typical ranges:", age)
}

func (s *Script) AskLastName() string {
	return "Excellent! Almost done. I'll need your contact information to send you personalized quotes. What's your last name?"
}

func (s *Script) AskEmail() string {
	return "What's your email address?"
}

func (s *Script) AskPhone() string {
	return "Finally, what's your phone number? (I'll call you with your personalized quote)"
}

func (s *Script) InvalidAge() string {
	return "Please enter a valid age between 18 and 100."
}

func (s *Script) InvalidEmail() string {
	return "Please enter a valid email address."
}

func (s *Script) InvalidPhone() string {
	return "Please enter a valid phone number with at least 10 digits."
}

func (s *Script) InvalidName() string {
	return "Sorry, I didn't catch that. Could you type your name again?"
}

func (s *Script) PickOption() string {
	return "Please pick one of the options below."
}

func (s *Script) Summary(rec domain.LeadRecord) string {
	return fmt.Sprintf(`Perfect! Here's what I've gathered:

👤 Name: %s %s
📧 Email: %s
📱 Phone: %s
🎯 Insurance: %s
👥 Gender: %s
🎂 Age: %s
🚭 Smoker: %s
💰 Coverage: %s

I'm now preparing your personalized quote...`,
		rec.FirstName, rec.LastName, rec.Email, rec.Phone, rec.InsuranceType,
		rec.Gender, rec.Age, rec.Smoker, rec.CoverageAmount)
}

func (s *Script) Success(rec domain.LeadRecord) string {
	return fmt.Sprintf(`🎉 Perfect! I've got all your information.

Your information has been sent to our LLQP certified team. You'll receive:
• Personalized quotes within 24 hours
• Comparison from multiple insurance companies
• No-obligation consultation call
• Expert guidance tailored to your needs

Thanks %s! We'll be in touch soon. 📞`, rec.FirstName)
}

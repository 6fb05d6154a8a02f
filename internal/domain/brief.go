// Package domain holds the core data contracts of the content creator.
package domain

// Brand voice options accepted by the brief.
const (
	VoiceCorporate    = "corporate"
	VoiceFriendly     = "friendly"
	VoiceHumorous     = "humorous"
	VoiceSpiritual    = "spiritual"
	VoiceProfessional = "professional"
	VoiceCasual       = "casual"
	VoiceLuxury       = "luxury"
	VoiceEdgy         = "edgy"
)

// Content frequency options accepted by the brief.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Brief field names, matching the persisted JSON keys.
const (
	FieldBusinessName        = "businessName"
	FieldIndustry            = "industry"
	FieldTargetAudience      = "targetAudience"
	FieldSocialMediaAccounts = "socialMediaAccounts"
	FieldBrandVoice          = "brandVoice"
	FieldCampaigns           = "campaigns"
	FieldStylePreferences    = "stylePreferences"
	FieldLogo                = "logo"
	FieldContentFrequency    = "contentFrequency"
)

// RequiredBriefFields are the fields that must be non-empty before the
// session may leave the brief-collection step.
var RequiredBriefFields = []string{
	FieldBusinessName,
	FieldIndustry,
	FieldTargetAudience,
	FieldBrandVoice,
	FieldContentFrequency,
}

// Brief holds the business-context answers collected by the wizard.
type Brief struct {
	BusinessName        string `json:"businessName" validate:"omitempty"`
	Industry            string `json:"industry" validate:"omitempty"`
	TargetAudience      string `json:"targetAudience" validate:"omitempty"`
	SocialMediaAccounts string `json:"socialMediaAccounts,omitempty"`
	BrandVoice          string `json:"brandVoice" validate:"omitempty,oneof=corporate friendly humorous spiritual professional casual luxury edgy"`
	Campaigns           string `json:"campaigns,omitempty"`
	StylePreferences    string `json:"stylePreferences,omitempty"`
	Logo                string `json:"logo,omitempty"`
	ContentFrequency    string `json:"contentFrequency" validate:"omitempty,oneof=daily weekly monthly"`
}

// BriefPatch is a partial field-by-field update to a brief.
type BriefPatch map[string]string

// Apply merges the patch into the brief, last write wins. Unknown field
// names are ignored.
func (b *Brief) Apply(patch BriefPatch) {
	for field, value := range patch {
		b.Set(field, value)
	}
}

// Set assigns a single brief field by name.
func (b *Brief) Set(field, value string) {
	switch field {
	case FieldBusinessName:
		b.BusinessName = value
	case FieldIndustry:
		b.Industry = value
	case FieldTargetAudience:
		b.TargetAudience = value
	case FieldSocialMediaAccounts:
		b.SocialMediaAccounts = value
	case FieldBrandVoice:
		b.BrandVoice = value
	case FieldCampaigns:
		b.Campaigns = value
	case FieldStylePreferences:
		b.StylePreferences = value
	case FieldLogo:
		b.Logo = value
	case FieldContentFrequency:
		b.ContentFrequency = value
	}
}

// Field returns the value of a single brief field by name.
func (b *Brief) Field(field string) string {
	switch field {
	case FieldBusinessName:
		return b.BusinessName
	case FieldIndustry:
		return b.Industry
	case FieldTargetAudience:
		return b.TargetAudience
	case FieldSocialMediaAccounts:
		return b.SocialMediaAccounts
	case FieldBrandVoice:
		return b.BrandVoice
	case FieldCampaigns:
		return b.Campaigns
	case FieldStylePreferences:
		return b.StylePreferences
	case FieldLogo:
		return b.Logo
	case FieldContentFrequency:
		return b.ContentFrequency
	default:
		return ""
	}
}

// IsComplete reports whether every one of the given fields is non-empty.
func (b *Brief) IsComplete(required []string) bool {
	for _, field := range required {
		if b.Field(field) == "" {
			return false
		}
	}
	return true
}

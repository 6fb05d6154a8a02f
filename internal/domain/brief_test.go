package domain

import "testing"

func TestBriefSetAndField(t *testing.T) {
	var b Brief
	b.Set(FieldBusinessName, "Acme")
	b.Set(FieldBrandVoice, VoiceFriendly)

	if b.BusinessName != "Acme" {
		t.Errorf("Expected BusinessName=Acme, got %q", b.BusinessName)
	}
	if got := b.Field(FieldBrandVoice); got != VoiceFriendly {
		t.Errorf("Expected brandVoice=%q, got %q", VoiceFriendly, got)
	}
	if got := b.Field("noSuchField"); got != "" {
		t.Errorf("Expected empty value for unknown field, got %q", got)
	}
}

func TestBriefApplyLastWriteWins(t *testing.T) {
	var b Brief
	b.Apply(BriefPatch{FieldIndustry: "Fashion"})
	b.Apply(BriefPatch{FieldIndustry: "Technology"})

	if b.Industry != "Technology" {
		t.Errorf("Expected last write to win, got %q", b.Industry)
	}
}

func TestBriefApplyIgnoresUnknownFields(t *testing.T) {
	var b Brief
	b.Apply(BriefPatch{"bogus": "value", FieldBusinessName: "Acme"})

	if b.BusinessName != "Acme" {
		t.Errorf("Expected known field applied, got %q", b.BusinessName)
	}
}

func TestBriefIsComplete(t *testing.T) {
	var b Brief
	if b.IsComplete(RequiredBriefFields) {
		t.Error("Expected empty brief to be incomplete")
	}

	b.Set(FieldBusinessName, "Acme")
	b.Set(FieldIndustry, "Technology")
	b.Set(FieldTargetAudience, "Developers")
	b.Set(FieldBrandVoice, VoiceProfessional)
	if b.IsComplete(RequiredBriefFields) {
		t.Error("Expected brief without contentFrequency to be incomplete")
	}

	b.Set(FieldContentFrequency, FrequencyWeekly)
	if !b.IsComplete(RequiredBriefFields) {
		t.Error("Expected fully answered brief to be complete")
	}
}

func TestBriefOptionalFieldsNotRequired(t *testing.T) {
	b := Brief{
		BusinessName:     "Acme",
		Industry:         "Technology",
		TargetAudience:   "Developers",
		BrandVoice:       VoiceCasual,
		ContentFrequency: FrequencyDaily,
	}
	if !b.IsComplete(RequiredBriefFields) {
		t.Error("Expected brief to be complete without optional fields")
	}
}

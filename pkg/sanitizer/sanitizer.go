package sanitizer

import (
	"strings"

	"bondvoyage/pkg/model"
)

// Booking normalizes contact fields in place.
func Booking(b *model.Booking, phoneRegion string) {
	b.CustomerName = NormalizeName(b.CustomerName)
	b.Email = NormalizeEmail(b.Email)
	b.Phone = phoneOrRaw(b.Phone, phoneRegion)
	b.Destination = NormalizeName(b.Destination)
	b.Notes = NormalizeText(b.Notes)
	b.TotalAmount = NormalizeAmount(b.TotalAmount)
	b.AmountPaid = NormalizeAmount(b.AmountPaid)
	Itinerary(b.Itinerary)
}

func BookingUpdate(u *model.BookingUpdate, phoneRegion string) {
	u.CustomerName = NormalizeName(u.CustomerName)
	u.Email = NormalizeEmail(u.Email)
	u.Phone = phoneOrRaw(u.Phone, phoneRegion)
	u.Destination = NormalizeName(u.Destination)
	if u.Notes != nil {
		notes := NormalizeText(*u.Notes)
		u.Notes = &notes
	}
	if u.TotalAmount != nil {
		total := NormalizeAmount(*u.TotalAmount)
		u.TotalAmount = &total
	}
}

func Itinerary(days []model.ItineraryDay) {
	for i := range days {
		days[i].Title = NormalizeName(days[i].Title)
		for j := range days[i].Activities {
			a := &days[i].Activities[j]
			a.Time = TrimAndNormalize(a.Time)
			a.Icon = NormalizeTag(a.Icon)
			a.Title = NormalizeName(a.Title)
			a.Description = NormalizeText(a.Description)
			a.Location = NormalizeName(a.Location)
		}
	}
}

func PaymentRequest(p *model.PaymentRequest) {
	p.Amount = NormalizeAmount(p.Amount)
	p.ProofReference = NormalizeProofReference(p.ProofReference)
}

func PaymentSettings(s *model.PaymentSettings, phoneRegion string) {
	s.GcashAccountName = NormalizeName(s.GcashAccountName)
	s.GcashNumber = phoneOrRaw(s.GcashNumber, phoneRegion)
	s.MinPartialPercent = ClampPercent(s.MinPartialPercent)
	s.AcceptedModes = NormalizeStringSlice(s.AcceptedModes, TrimAndNormalize)
}

func User(u *model.User, phoneRegion string) {
	u.Name = NormalizeName(u.Name)
	u.Email = NormalizeEmail(u.Email)
	u.Phone = phoneOrRaw(u.Phone, phoneRegion)
}

func FAQ(f *model.FAQ) {
	f.Question = TrimAndNormalize(f.Question)
	f.Answer = NormalizeText(f.Answer)
	f.Tags = NormalizeTags(f.Tags)
	f.Pages = NormalizePages(f.Pages)
	f.Keywords = NormalizeKeywords(f.Keywords)
}

func ActivityLog(e *model.ActivityLogEntry) {
	e.Actor = TrimAndNormalize(e.Actor)
	e.Action = TrimAndNormalize(e.Action)
	e.Details = NormalizeText(e.Details)
	e.IP = TrimAndNormalize(e.IP)
}

// phoneOrRaw keeps unparseable input so the e164 rule reports it instead of
// a misleading "required".
func phoneOrRaw(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if normalized := NormalizePhone(phone, region); normalized != "" {
		return normalized
	}
	return phone
}

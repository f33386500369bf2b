package profile

import (
	"math"
	"strings"
)

const (
	// RequiredSlots is the denominator of the score. Only eleven required
	// signals exist, so a profile without bonus fields tops out at 92.
	RequiredSlots      = 12
	CompletedThreshold = 70
	bonusWeight        = 0.5
)

type Completeness struct {
	Percentage int
	Completed  bool
}

func Calculate(j Jobseeker) Completeness {
	filled := 0
	for _, ok := range requiredSignals(j) {
		if ok {
			filled++
		}
	}

	bonus := 0
	for _, s := range []string{j.Summary, j.SertifikatURL, j.SuratPengalamanURL} {
		if isFilled(s) {
			bonus++
		}
	}

	score := (float64(filled) + float64(bonus)*bonusWeight) / RequiredSlots * 100
	pct := int(math.Round(score))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	return Completeness{Percentage: pct, Completed: pct >= CompletedThreshold}
}

func requiredSignals(j Jobseeker) []bool {
	return []bool{
		isFilled(j.PhotoURL),
		isFilled(j.FirstName),
		j.DateOfBirth != nil && !j.DateOfBirth.IsZero(),
		isFilled(string(j.Gender)),
		isFilled(j.Phone),
		isFilled(j.Kecamatan) && isFilled(j.Kelurahan),
		isFilled(string(j.LastEducationLevel)) && isFilled(j.LastEducationInstitution),
		isFilled(j.CVURL),
		isFilled(j.KTPURL),
		isFilled(j.AK1URL),
		isFilled(j.IjazahURL),
	}
}

func isFilled(s string) bool {
	return strings.TrimSpace(s) != ""
}

package dto

import (
	"time"

	"jobhub/internal/domain/profile"
	"jobhub/internal/usecase"
)

type EducationItem struct {
	Level       string   `json:"level" validate:"required"`
	Institution string   `json:"institution" validate:"required,notblank"`
	Major       string   `json:"major"`
	StartYear   int      `json:"startYear" validate:"required,min=1950,max=2100"`
	EndYear     *int     `json:"endYear,omitempty" validate:"omitempty,min=1950,max=2100"`
	GPA         *float64 `json:"gpa,omitempty" validate:"omitempty,min=0,max=4"`
}

type ExperienceItem struct {
	CompanyName string `json:"companyName" validate:"required,notblank"`
	Position    string `json:"position" validate:"required,notblank"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description"`
}

type CertificationItem struct {
	Name          string `json:"name" validate:"required,notblank"`
	Issuer        string `json:"issuer"`
	IssuedAt      string `json:"issuedAt,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
	CredentialURL string `json:"credentialUrl,omitempty" validate:"omitempty,url"`
}

type ProfileRequest struct {
	FirstName   string `json:"firstName" validate:"max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender" validate:"omitempty,oneof=MALE FEMALE male female"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`

	Address   string `json:"address"`
	Kecamatan string `json:"kecamatan"`
	Kelurahan string `json:"kelurahan"`
	City      string `json:"city"`
	Province  string `json:"province"`

	LastEducationLevel       string `json:"lastEducationLevel"`
	LastEducationInstitution string `json:"lastEducationInstitution"`
	Major                    string `json:"major"`
	Summary                  string `json:"summary" validate:"max=2000"`

	ExpectedSalary   *int64 `json:"expectedSalary,omitempty" validate:"omitempty,min=0"`
	PreferredJobType string `json:"preferredJobType"`

	Educations     []EducationItem     `json:"educations" validate:"dive"`
	Experiences    []ExperienceItem    `json:"experiences" validate:"dive"`
	Skills         []string            `json:"skills" validate:"dive,notblank"`
	Certifications []CertificationItem `json:"certifications" validate:"dive"`
}

func (r ProfileRequest) ToInput() (usecase.ProfileInput, error) {
	dob, err := parseDate("dateOfBirth", r.DateOfBirth)
	if err != nil {
		return usecase.ProfileInput{}, err
	}

	in := usecase.ProfileInput{
		FirstName:                r.FirstName,
		LastName:                 r.LastName,
		DateOfBirth:              dob,
		Gender:                   r.Gender,
		Phone:                    r.Phone,
		Address:                  r.Address,
		Kecamatan:                r.Kecamatan,
		Kelurahan:                r.Kelurahan,
		City:                     r.City,
		Province:                 r.Province,
		LastEducationLevel:       r.LastEducationLevel,
		LastEducationInstitution: r.LastEducationInstitution,
		Major:                    r.Major,
		Summary:                  r.Summary,
		ExpectedSalary:           r.ExpectedSalary,
		PreferredJobType:         r.PreferredJobType,
		Skills:                   r.Skills,
	}

	for _, e := range r.Educations {
		in.Educations = append(in.Educations, profile.Education{
			Level:       profile.EducationLevel(upper(e.Level)),
			Institution: e.Institution,
			Major:       e.Major,
			StartYear:   e.StartYear,
			EndYear:     e.EndYear,
			GPA:         e.GPA,
		})
	}
	for _, x := range r.Experiences {
		start, err := parseDate("experiences.startDate", x.StartDate)
		if err != nil {
			return usecase.ProfileInput{}, err
		}
		end, err := parseDate("experiences.endDate", x.EndDate)
		if err != nil {
			return usecase.ProfileInput{}, err
		}
		in.Experiences = append(in.Experiences, profile.WorkExperience{
			CompanyName: x.CompanyName,
			Position:    x.Position,
			StartDate:   *start,
			EndDate:     end,
			Description: x.Description,
		})
	}
	for _, c := range r.Certifications {
		issued, err := parseDate("certifications.issuedAt", c.IssuedAt)
		if err != nil {
			return usecase.ProfileInput{}, err
		}
		expires, err := parseDate("certifications.expiresAt", c.ExpiresAt)
		if err != nil {
			return usecase.ProfileInput{}, err
		}
		in.Certifications = append(in.Certifications, profile.Certification{
			Name:          c.Name,
			Issuer:        c.Issuer,
			IssuedAt:      issued,
			ExpiresAt:     expires,
			CredentialURL: c.CredentialURL,
		})
	}
	return in, nil
}

type DocumentsResponse struct {
	Photo           string `json:"photo"`
	CV              string `json:"cv"`
	KTP             string `json:"ktp"`
	AK1             string `json:"ak1"`
	Ijazah          string `json:"ijazah"`
	Sertifikat      string `json:"sertifikat"`
	SuratPengalaman string `json:"suratPengalaman"`
}

type ProfileResponse struct {
	UserID      string `json:"userId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Phone       string `json:"phone"`

	Address   string `json:"address"`
	Kecamatan string `json:"kecamatan"`
	Kelurahan string `json:"kelurahan"`
	City      string `json:"city"`
	Province  string `json:"province"`

	LastEducationLevel       string `json:"lastEducationLevel,omitempty"`
	LastEducationInstitution string `json:"lastEducationInstitution"`
	Major                    string `json:"major"`
	Summary                  string `json:"summary"`

	ExpectedSalary   *int64 `json:"expectedSalary,omitempty"`
	PreferredJobType string `json:"preferredJobType,omitempty"`

	Documents DocumentsResponse `json:"documents"`

	Completeness     int  `json:"completeness"`
	ProfileCompleted bool `json:"profileCompleted"`

	Educations     []EducationItem     `json:"educations"`
	Experiences    []ExperienceItem    `json:"experiences"`
	Skills         []string            `json:"skills"`
	Certifications []CertificationItem `json:"certifications"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func NewProfileResponse(j profile.Jobseeker) ProfileResponse {
	out := ProfileResponse{
		UserID:                   j.UserID.String(),
		FirstName:                j.FirstName,
		LastName:                 j.LastName,
		DateOfBirth:              formatDate(j.DateOfBirth),
		Gender:                   string(j.Gender),
		Phone:                    j.Phone,
		Address:                  j.Address,
		Kecamatan:                j.Kecamatan,
		Kelurahan:                j.Kelurahan,
		City:                     j.City,
		Province:                 j.Province,
		LastEducationLevel:       string(j.LastEducationLevel),
		LastEducationInstitution: j.LastEducationInstitution,
		Major:                    j.Major,
		Summary:                  j.Summary,
		ExpectedSalary:           j.ExpectedSalary,
		PreferredJobType:         j.PreferredJobType,
		Documents: DocumentsResponse{
			Photo:           j.PhotoURL,
			CV:              j.CVURL,
			KTP:             j.KTPURL,
			AK1:             j.AK1URL,
			Ijazah:          j.IjazahURL,
			Sertifikat:      j.SertifikatURL,
			SuratPengalaman: j.SuratPengalamanURL,
		},
		Completeness:     j.Completeness,
		ProfileCompleted: j.Completed,
		Educations:       make([]EducationItem, 0, len(j.Educations)),
		Experiences:      make([]ExperienceItem, 0, len(j.Experiences)),
		Skills:           j.Skills,
		Certifications:   make([]CertificationItem, 0, len(j.Certifications)),
		UpdatedAt:        j.UpdatedAt,
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	for _, e := range j.Educations {
		out.Educations = append(out.Educations, EducationItem{
			Level:       string(e.Level),
			Institution: e.Institution,
			Major:       e.Major,
			StartYear:   e.StartYear,
			EndYear:     e.EndYear,
			GPA:         e.GPA,
		})
	}
	for _, x := range j.Experiences {
		start := x.StartDate
		out.Experiences = append(out.Experiences, ExperienceItem{
			CompanyName: x.CompanyName,
			Position:    x.Position,
			StartDate:   formatDate(&start),
			EndDate:     formatDate(x.EndDate),
			Description: x.Description,
		})
	}
	for _, c := range j.Certifications {
		out.Certifications = append(out.Certifications, CertificationItem{
			Name:          c.Name,
			Issuer:        c.Issuer,
			IssuedAt:      formatDate(c.IssuedAt),
			ExpiresAt:     formatDate(c.ExpiresAt),
			CredentialURL: c.CredentialURL,
		})
	}
	return out
}

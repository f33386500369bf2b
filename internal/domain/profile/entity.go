package profile

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var ErrUnknownDocumentKind = errors.New("unknown document kind")

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type EducationLevel string

const (
	EducationSD  EducationLevel = "SD"
	EducationSMP EducationLevel = "SMP"
	EducationSMA EducationLevel = "SMA"
	EducationSMK EducationLevel = "SMK"
	EducationD3  EducationLevel = "D3"
	EducationD4  EducationLevel = "D4"
	EducationS1  EducationLevel = "S1"
	EducationS2  EducationLevel = "S2"
	EducationS3  EducationLevel = "S3"
)

func (l EducationLevel) IsValid() bool {
	switch l {
	case EducationSD, EducationSMP, EducationSMA, EducationSMK, EducationD3, EducationD4, EducationS1, EducationS2, EducationS3:
		return true
	default:
		return false
	}
}

// DocumentKind names an uploadable profile document.
type DocumentKind string

const (
	DocumentPhoto           DocumentKind = "photo"
	DocumentCV              DocumentKind = "cv"
	DocumentKTP             DocumentKind = "ktp"
	DocumentAK1             DocumentKind = "ak1"
	DocumentIjazah          DocumentKind = "ijazah"
	DocumentSertifikat      DocumentKind = "sertifikat"
	DocumentSuratPengalaman DocumentKind = "surat-pengalaman"
)

func ParseDocumentKind(raw string) (DocumentKind, error) {
	k := DocumentKind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case DocumentPhoto, DocumentCV, DocumentKTP, DocumentAK1, DocumentIjazah, DocumentSertifikat, DocumentSuratPengalaman:
		return k, nil
	default:
		return "", errors.Wrapf(ErrUnknownDocumentKind, "%q", raw)
	}
}

// IsImage reports whether the kind expects an image upload rather than a PDF.
func (k DocumentKind) IsImage() bool {
	return k == DocumentPhoto
}

type Jobseeker struct {
	UserID uuid.UUID

	PhotoURL    string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Gender      Gender
	Phone       string

	Address   string
	Kecamatan string
	Kelurahan string
	City      string
	Province  string

	LastEducationLevel       EducationLevel
	LastEducationInstitution string
	Major                    string
	Summary                  string

	CVURL              string
	KTPURL             string
	AK1URL             string
	IjazahURL          string
	SertifikatURL      string
	SuratPengalamanURL string

	ExpectedSalary   *int64
	PreferredJobType string

	Completeness int
	Completed    bool

	Educations     []Education
	Experiences    []WorkExperience
	Skills         []string
	Certifications []Certification

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j Jobseeker) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(j.FirstName) + " " + strings.TrimSpace(j.LastName))
}

// Document returns the stored URL for kind.
func (j Jobseeker) Document(kind DocumentKind) string {
	switch kind {
	case DocumentPhoto:
		return j.PhotoURL
	case DocumentCV:
		return j.CVURL
	case DocumentKTP:
		return j.KTPURL
	case DocumentAK1:
		return j.AK1URL
	case DocumentIjazah:
		return j.IjazahURL
	case DocumentSertifikat:
		return j.SertifikatURL
	case DocumentSuratPengalaman:
		return j.SuratPengalamanURL
	default:
		return ""
	}
}

// SetDocument stores url for kind and refreshes the completeness fields.
func (j *Jobseeker) SetDocument(kind DocumentKind, url string) error {
	switch kind {
	case DocumentPhoto:
		j.PhotoURL = url
	case DocumentCV:
		j.CVURL = url
	case DocumentKTP:
		j.KTPURL = url
	case DocumentAK1:
		j.AK1URL = url
	case DocumentIjazah:
		j.IjazahURL = url
	case DocumentSertifikat:
		j.SertifikatURL = url
	case DocumentSuratPengalaman:
		j.SuratPengalamanURL = url
	default:
		return ErrUnknownDocumentKind
	}
	j.Refresh()
	return nil
}

// Refresh recomputes Completeness and Completed from the current fields.
func (j *Jobseeker) Refresh() {
	c := Calculate(*j)
	j.Completeness = c.Percentage
	j.Completed = c.Completed
}

type Education struct {
	ID          uuid.UUID
	Level       EducationLevel
	Institution string
	Major       string
	StartYear   int
	EndYear     *int
	GPA         *float64
}

type WorkExperience struct {
	ID          uuid.UUID
	CompanyName string
	Position    string
	StartDate   time.Time
	EndDate     *time.Time
	Description string
}

type Certification struct {
	ID            uuid.UUID
	Name          string
	Issuer        string
	IssuedAt      *time.Time
	ExpiresAt     *time.Time
	CredentialURL string
}

package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"jobhub/internal/domain/profile"
	"jobhub/internal/pkg/logger"
	"jobhub/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultMaxUploadSize int64 = 5 << 20

// ProfileInput is the editable part of a jobseeker profile. Document URLs are
// managed by UploadDocument and DeleteDocument only.
type ProfileInput struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Gender      string
	Phone       string

	Address   string
	Kecamatan string
	Kelurahan string
	City      string
	Province  string

	LastEducationLevel       string
	LastEducationInstitution string
	Major                    string
	Summary                  string

	ExpectedSalary   *int64
	PreferredJobType string

	Educations     []profile.Education
	Experiences    []profile.WorkExperience
	Skills         []string
	Certifications []profile.Certification
}

type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Jobseeker, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (profile.Jobseeker, error)
	UploadDocument(ctx context.Context, userID uuid.UUID, kind profile.DocumentKind, file Upload) (profile.Jobseeker, error)
	DeleteDocument(ctx context.Context, userID uuid.UUID, kind profile.DocumentKind) (profile.Jobseeker, error)
}

type Profile struct {
	profiles  repository.ProfileRepository
	storage   ObjectStorage
	maxUpload int64
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfileUsecase accepts a nil storage; uploads then fail with ErrStorageUnavailable.
func NewProfileUsecase(profiles repository.ProfileRepository, storage ObjectStorage, maxUpload int64, l *zap.Logger) *Profile {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadSize
	}
	return &Profile{profiles: profiles, storage: storage, maxUpload: maxUpload, logger: logger.OrNop(l), now: time.Now}
}

func (u *Profile) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Jobseeker, error) {
	j, err := u.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return profile.Jobseeker{}, ErrProfileNotFound
		}
		return profile.Jobseeker{}, internalErr(err)
	}
	return j, nil
}

func (u *Profile) SaveProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (profile.Jobseeker, error) {
	gender := profile.Gender(strings.ToUpper(strings.TrimSpace(in.Gender)))
	if gender != "" && !gender.IsValid() {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "gender")
	}
	level := profile.EducationLevel(strings.ToUpper(strings.TrimSpace(in.LastEducationLevel)))
	if level != "" && !level.IsValid() {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "lastEducationLevel")
	}
	for _, e := range in.Educations {
		if !e.Level.IsValid() {
			return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "educations.level")
		}
		if e.EndYear != nil && *e.EndYear < e.StartYear {
			return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "educations.endYear")
		}
	}
	for _, w := range in.Experiences {
		if w.EndDate != nil && w.EndDate.Before(w.StartDate) {
			return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "experiences.endDate")
		}
	}
	if in.ExpectedSalary != nil && *in.ExpectedSalary < 0 {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "expectedSalary")
	}

	j, err := u.profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return profile.Jobseeker{}, internalErr(err)
	}
	now := u.now().UTC()
	if j.UserID == uuid.Nil {
		j.UserID = userID
		j.CreatedAt = now
	}

	j.FirstName = strings.TrimSpace(in.FirstName)
	j.LastName = strings.TrimSpace(in.LastName)
	j.DateOfBirth = in.DateOfBirth
	j.Gender = gender
	j.Phone = strings.TrimSpace(in.Phone)
	j.Address = strings.TrimSpace(in.Address)
	j.Kecamatan = strings.TrimSpace(in.Kecamatan)
	j.Kelurahan = strings.TrimSpace(in.Kelurahan)
	j.City = strings.TrimSpace(in.City)
	j.Province = strings.TrimSpace(in.Province)
	j.LastEducationLevel = level
	j.LastEducationInstitution = strings.TrimSpace(in.LastEducationInstitution)
	j.Major = strings.TrimSpace(in.Major)
	j.Summary = strings.TrimSpace(in.Summary)
	j.ExpectedSalary = in.ExpectedSalary
	j.PreferredJobType = strings.TrimSpace(in.PreferredJobType)
	j.Educations = in.Educations
	j.Experiences = in.Experiences
	j.Skills = in.Skills
	j.Certifications = in.Certifications
	j.UpdatedAt = now
	j.Refresh()

	if err := u.profiles.SaveProfile(ctx, j); err != nil {
		return profile.Jobseeker{}, internalErr(err)
	}
	return j, nil
}

func (u *Profile) UploadDocument(ctx context.Context, userID uuid.UUID, kind profile.DocumentKind, file Upload) (profile.Jobseeker, error) {
	if u.storage == nil {
		return profile.Jobseeker{}, ErrStorageUnavailable
	}
	if file.Body == nil {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "file")
	}
	if file.Size > u.maxUpload {
		return profile.Jobseeker{}, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file.Body, u.maxUpload+1))
	if err != nil {
		return profile.Jobseeker{}, internalErr(errors.Wrap(err, "read upload"))
	}
	if int64(len(data)) > u.maxUpload {
		return profile.Jobseeker{}, ErrFileTooLarge
	}
	if len(data) == 0 {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, "file is empty")
	}

	mt := mimetype.Detect(data)
	if !acceptsMIME(kind, mt) {
		return profile.Jobseeker{}, errors.Wrapf(ErrUnsupportedFile, "%s for %s", mt.String(), kind)
	}

	j, err := u.profiles.GetProfile(ctx, userID)
	exists := true
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return profile.Jobseeker{}, internalErr(err)
		}
		exists = false
		j = profile.Jobseeker{UserID: userID, CreatedAt: u.now().UTC()}
	}
	previous := j.Document(kind)

	key := fmt.Sprintf("jobseekers/%s/%s-%s%s", userID, kind, uuid.NewString(), mt.Extension())
	url, err := u.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mt.String())
	if err != nil {
		return profile.Jobseeker{}, internalErr(err)
	}

	if err := j.SetDocument(kind, url); err != nil {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, err.Error())
	}
	j.UpdatedAt = u.now().UTC()

	if exists {
		err = u.profiles.UpdateDocument(ctx, j, kind)
	} else {
		err = u.profiles.SaveProfile(ctx, j)
	}
	if err != nil {
		u.removeObject(ctx, url)
		return profile.Jobseeker{}, internalErr(err)
	}

	if previous != "" && previous != url {
		u.removeObject(ctx, previous)
	}
	return j, nil
}

func (u *Profile) DeleteDocument(ctx context.Context, userID uuid.UUID, kind profile.DocumentKind) (profile.Jobseeker, error) {
	j, err := u.GetProfile(ctx, userID)
	if err != nil {
		return profile.Jobseeker{}, err
	}
	previous := j.Document(kind)
	if previous == "" {
		return profile.Jobseeker{}, ErrDocumentMissing
	}

	if err := j.SetDocument(kind, ""); err != nil {
		return profile.Jobseeker{}, errors.Wrap(ErrInvalidInput, err.Error())
	}
	j.UpdatedAt = u.now().UTC()
	if err := u.profiles.UpdateDocument(ctx, j, kind); err != nil {
		return profile.Jobseeker{}, internalErr(err)
	}

	u.removeObject(ctx, previous)
	return j, nil
}

func (u *Profile) removeObject(ctx context.Context, url string) {
	if u.storage == nil {
		return
	}
	if err := u.storage.Delete(ctx, url); err != nil {
		u.logger.Warn("delete stored document failed", zap.String("url", url), zap.Error(err))
	}
}

func acceptsMIME(kind profile.DocumentKind, mt *mimetype.MIME) bool {
	if kind.IsImage() {
		return mt.Is("image/jpeg") || mt.Is("image/png") || mt.Is("image/webp")
	}
	return mt.Is("application/pdf")
}

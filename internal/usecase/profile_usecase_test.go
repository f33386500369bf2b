package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"jobhub/internal/domain/profile"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
)

func upload(name string, b []byte) Upload {
	return Upload{Filename: name, Size: int64(len(b)), Body: bytes.NewReader(b)}
}

func TestSaveProfile_RefreshesCompleteness(t *testing.T) {
	seeker := uuid.New()
	existing := completeProfile(seeker)
	repo := newFakeProfiles(existing)
	uc := NewProfileUsecase(repo, newFakeStorage(), 0, nil)
	uc.now = fixedClock(testNow)

	dob := time.Date(1998, 5, 17, 0, 0, 0, 0, time.UTC)
	in := ProfileInput{
		FirstName:                "Sari",
		DateOfBirth:              &dob,
		Gender:                   "female",
		Phone:                    "081234567890",
		Kecamatan:                "Coblong",
		Kelurahan:                "Dago",
		LastEducationLevel:       "s1",
		LastEducationInstitution: "ITB",
		Summary:                  "Backend developer",
	}
	p, err := uc.SaveProfile(context.Background(), seeker, in)
	require.NoError(t, err)
	assert.Equal(t, existing.CVURL, p.CVURL)
	assert.Equal(t, profile.GenderFemale, p.Gender)
	assert.Equal(t, profile.Calculate(p).Percentage, p.Completeness)
	assert.True(t, p.Completed)

	in.Kelurahan = ""
	in.Gender = ""
	in.Phone = ""
	in.DateOfBirth = nil
	p, err = uc.SaveProfile(context.Background(), seeker, in)
	require.NoError(t, err)
	assert.Less(t, p.Completeness, profile.CompletedThreshold)
	assert.False(t, repo.items[seeker].Completed)
}

func TestSaveProfile_Validation(t *testing.T) {
	uc := NewProfileUsecase(newFakeProfiles(), nil, 0, nil)

	_, err := uc.SaveProfile(context.Background(), uuid.New(), ProfileInput{Gender: "other"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	neg := int64(-1)
	_, err = uc.SaveProfile(context.Background(), uuid.New(), ProfileInput{ExpectedSalary: &neg})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUploadDocument_StoresAndReplaces(t *testing.T) {
	seeker := uuid.New()
	existing := completeProfile(seeker)
	repo := newFakeProfiles(existing)
	store := newFakeStorage()
	uc := NewProfileUsecase(repo, store, 1<<20, nil)

	p, err := uc.UploadDocument(context.Background(), seeker, profile.DocumentCV, upload("cv.pdf", pdfBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.CVURL, "https://cdn.example.com/jobseekers/"+seeker.String()+"/cv-"))
	assert.True(t, strings.HasSuffix(p.CVURL, ".pdf"))
	assert.Equal(t, p.CVURL, repo.items[seeker].CVURL)
	assert.Equal(t, []string{existing.CVURL}, store.deleted)

	p, err = uc.UploadDocument(context.Background(), seeker, profile.DocumentPhoto, upload("me.png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.PhotoURL, ".png"))
}

func TestUploadDocument_CreatesProfileWhenMissing(t *testing.T) {
	seeker := uuid.New()
	repo := newFakeProfiles()
	uc := NewProfileUsecase(repo, newFakeStorage(), 0, nil)

	p, err := uc.UploadDocument(context.Background(), seeker, profile.DocumentKTP, upload("ktp.pdf", pdfBytes))
	require.NoError(t, err)
	assert.NotEmpty(t, p.KTPURL)
	assert.Equal(t, 1, repo.saves)
}

func TestUploadDocument_RejectsWrongContent(t *testing.T) {
	seeker := uuid.New()
	store := newFakeStorage()
	uc := NewProfileUsecase(newFakeProfiles(completeProfile(seeker)), store, 64, nil)
	ctx := context.Background()

	_, err := uc.UploadDocument(ctx, seeker, profile.DocumentCV, upload("cv.pdf", []byte("just some text pretending to be a pdf")))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = uc.UploadDocument(ctx, seeker, profile.DocumentPhoto, upload("photo.jpg", pdfBytes[:40]))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = uc.UploadDocument(ctx, seeker, profile.DocumentCV, upload("big.pdf", pdfBytes))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Empty(t, store.objects)
}

func TestUploadDocument_NoStorage(t *testing.T) {
	uc := NewProfileUsecase(newFakeProfiles(), nil, 0, nil)
	_, err := uc.UploadDocument(context.Background(), uuid.New(), profile.DocumentCV, upload("cv.pdf", pdfBytes))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDeleteDocument(t *testing.T) {
	seeker := uuid.New()
	existing := completeProfile(seeker)
	repo := newFakeProfiles(existing)
	store := newFakeStorage()
	uc := NewProfileUsecase(repo, store, 0, nil)

	p, err := uc.DeleteDocument(context.Background(), seeker, profile.DocumentAK1)
	require.NoError(t, err)
	assert.Empty(t, p.AK1URL)
	assert.Less(t, p.Completeness, existing.Completeness)
	assert.Equal(t, []string{existing.AK1URL}, store.deleted)

	_, err = uc.DeleteDocument(context.Background(), seeker, profile.DocumentAK1)
	assert.ErrorIs(t, err, ErrDocumentMissing)
}

package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/application"
	"jobhub/internal/domain/interview"
	"jobhub/internal/domain/profile"
	"jobhub/internal/domain/user"
	"jobhub/internal/infrastructure/ratelimit"
	"jobhub/internal/pkg/jwt"
	"jobhub/internal/repository"
	"jobhub/internal/usecase"
	ucauth "jobhub/internal/usecase/auth"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorData struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// Embedding the interface keeps each fake down to the methods a test needs.
type fakeAuth struct {
	usecase.AuthUsecase
	register func(in ucauth.RegisterInput) (user.User, usecase.TokenPair, error)
}

func (f *fakeAuth) Register(_ context.Context, in ucauth.RegisterInput) (user.User, usecase.TokenPair, error) {
	return f.register(in)
}

type fakeApplications struct {
	usecase.ApplicationUsecase
	apply        func(jobseekerID, jobID uuid.UUID) (repository.ApplicationView, error)
	updateStatus func(in usecase.StatusUpdateInput) (usecase.StatusUpdateResult, error)
}

func (f *fakeApplications) Apply(_ context.Context, jobseekerID, jobID uuid.UUID, _ string) (repository.ApplicationView, error) {
	return f.apply(jobseekerID, jobID)
}

func (f *fakeApplications) UpdateStatus(_ context.Context, _, _ uuid.UUID, in usecase.StatusUpdateInput) (usecase.StatusUpdateResult, error) {
	return f.updateStatus(in)
}

func (f *fakeApplications) ExportApplicants(_ context.Context, _, _ uuid.UUID, w io.Writer) error {
	_, err := w.Write([]byte("PK\x03\x04"))
	return err
}

type fakeInterviews struct {
	usecase.InterviewUsecase
	join     func(a usecase.Actor, id uuid.UUID) (usecase.JoinInfo, error)
	complete func(pid *uuid.UUID) (interview.Interview, error)
}

func (f *fakeInterviews) Join(_ context.Context, a usecase.Actor, id uuid.UUID) (usecase.JoinInfo, error) {
	return f.join(a, id)
}

func (f *fakeInterviews) Complete(_ context.Context, _, _ uuid.UUID, pid *uuid.UUID) (interview.Interview, error) {
	return f.complete(pid)
}

type fakeProfiles struct {
	usecase.ProfileUsecase
	upload func(kind profile.DocumentKind, file usecase.Upload) (profile.Jobseeker, error)
}

func (f *fakeProfiles) UploadDocument(_ context.Context, userID uuid.UUID, kind profile.DocumentKind, file usecase.Upload) (profile.Jobseeker, error) {
	return f.upload(kind, file)
}

type testServer struct {
	app    *fiber.App
	tokens *jwt.HMACService

	auth       *fakeAuth
	apps       *fakeApplications
	interviews *fakeInterviews
	profiles   *fakeProfiles
}

func newTestServer(t *testing.T, applyLimiter ratelimit.Limiter) *testServer {
	t.Helper()

	s := &testServer{
		tokens:     jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour),
		auth:       &fakeAuth{},
		apps:       &fakeApplications{},
		interviews: &fakeInterviews{},
		profiles:   &fakeProfiles{},
	}

	errMw := middleware.NewErrorMiddleware(nil)
	s.app = fiber.New(fiber.Config{ErrorHandler: errMw.Handle})
	s.app.Use(errMw.Middleware())

	Register(s.app.Group("/api/v1"), Handlers{
		Auth:        handler.NewAuthHandler(s.auth, nil),
		Profile:     handler.NewProfileHandler(s.profiles),
		Application: handler.NewApplicationHandler(s.apps),
		Interview:   handler.NewInterviewHandler(s.interviews),
		RequireAuth: middleware.NewAuthMiddleware(s.tokens).Middleware(),

		ApplyLimiter: applyLimiter,
	})
	return s
}

func (s *testServer) token(t *testing.T, id uuid.UUID, role user.Role) string {
	t.Helper()
	tok, err := s.tokens.GenerateAccessToken(id, "someone@example.com", string(role))
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" || bytes.HasPrefix(raw, []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decodeError(t *testing.T, env envelope) errorData {
	t.Helper()
	var out errorData
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestRegisterValidatesBody(t *testing.T) {
	s := newTestServer(t, nil)

	resp, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "short",
		"role":     "JOBSEEKER",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad request", env.Message)
	e := decodeError(t, env)
	assert.Equal(t, "Validation failed", e.Error)
	assert.Equal(t, "email", e.Details["email"])
	assert.Equal(t, "min=8", e.Details["password"])
}

func TestRegisterReturnsTokens(t *testing.T) {
	s := newTestServer(t, nil)
	id := uuid.New()
	s.auth.register = func(in ucauth.RegisterInput) (user.User, usecase.TokenPair, error) {
		assert.Equal(t, "RECRUITER", in.Role)
		return user.User{ID: id, Email: in.Email, Role: user.RoleRecruiter},
			usecase.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
	}

	resp, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "rina@example.com",
		"password": "password123",
		"role":     "RECRUITER",
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, fiber.StatusCreated, env.Status)
	assert.Equal(t, "created", env.Message)

	var data struct {
		User struct {
			ID   uuid.UUID `json:"id"`
			Role string    `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.User.ID)
	assert.Equal(t, "RECRUITER", data.User.Role)
	assert.Equal(t, "a", data.AccessToken)
	assert.Equal(t, "r", data.RefreshToken)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	s := newTestServer(t, nil)
	s.auth.register = func(ucauth.RegisterInput) (user.User, usecase.TokenPair, error) {
		return user.User{}, usecase.TokenPair{}, ucauth.ErrEmailAlreadyRegistered
	}

	resp, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "rina@example.com",
		"password": "password123",
		"role":     "JOBSEEKER",
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", decodeError(t, env).Error)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t, nil)

	resp, env := s.do(t, http.MethodGet, "/api/v1/interviews", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", env.Message)
}

func TestApplyIsJobseekerOnly(t *testing.T) {
	s := newTestServer(t, nil)
	tok := s.token(t, uuid.New(), user.RoleRecruiter)

	resp, _ := s.do(t, http.MethodPost, "/api/v1/applications", tok, map[string]string{"jobId": uuid.NewString()})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestApplyMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"incomplete profile", usecase.ErrProfileIncomplete, fiber.StatusBadRequest, "Profile must be at least 70% complete before applying"},
		{"duplicate", usecase.ErrDuplicate, fiber.StatusConflict, "You already have an active application for this job"},
		{"closed job", usecase.ErrJobNotOpen, fiber.StatusConflict, "Job is not open for applications"},
		{"missing job", usecase.ErrJobNotFound, fiber.StatusNotFound, "Job not found"},
		{"database down", errors.Mark(errors.New("conn refused"), usecase.ErrInternal), fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.apps.apply = func(uuid.UUID, uuid.UUID) (repository.ApplicationView, error) {
				return repository.ApplicationView{}, tc.err
			}
			tok := s.token(t, uuid.New(), user.RoleJobseeker)

			resp, env := s.do(t, http.MethodPost, "/api/v1/applications", tok, map[string]string{"jobId": uuid.NewString()})

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.msg, decodeError(t, env).Error)
		})
	}
}

func TestApplyIsRateLimited(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemoryLimiter(1, time.Minute))
	jobseekerID := uuid.New()
	s.apps.apply = func(id, jobID uuid.UUID) (repository.ApplicationView, error) {
		v := repository.ApplicationView{JobTitle: "Backend Engineer"}
		v.ID = uuid.New()
		v.JobID = jobID
		v.JobseekerID = id
		v.Status = application.StatusPending
		return v, nil
	}
	tok := s.token(t, jobseekerID, user.RoleJobseeker)
	body := map[string]string{"jobId": uuid.NewString()}

	resp, env := s.do(t, http.MethodPost, "/api/v1/applications", tok, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		Status    string `json:"status"`
		Applicant struct {
			ID uuid.UUID `json:"id"`
		} `json:"applicant"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, jobseekerID, created.Applicant.ID)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/applications", tok, body)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestStatusUpdateInvalidTransitionIsConflict(t *testing.T) {
	s := newTestServer(t, nil)
	s.apps.updateStatus = func(in usecase.StatusUpdateInput) (usecase.StatusUpdateResult, error) {
		assert.Equal(t, "ACCEPTED", in.Status)
		return usecase.StatusUpdateResult{}, errors.Wrapf(application.ErrInvalidTransition, "%s -> %s", application.StatusPending, application.StatusAccepted)
	}
	tok := s.token(t, uuid.New(), user.RoleRecruiter)

	resp, env := s.do(t, http.MethodPatch, "/api/v1/applications/"+uuid.NewString()+"/status", tok, map[string]string{"status": "ACCEPTED"})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Invalid application status transition", decodeError(t, env).Error)
}

func TestStatusUpdateRejectsBadID(t *testing.T) {
	s := newTestServer(t, nil)
	tok := s.token(t, uuid.New(), user.RoleRecruiter)

	resp, env := s.do(t, http.MethodPatch, "/api/v1/applications/not-a-uuid/status", tok, map[string]string{"status": "REVIEWING"})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid id", decodeError(t, env).Error)
}

func TestExportSendsWorkbook(t *testing.T) {
	s := newTestServer(t, nil)
	tok := s.token(t, uuid.New(), user.RoleRecruiter)
	jobID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recruiter/jobs/"+jobID.String()+"/applications/export", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "applicants-"+jobID.String()+".xlsx")
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")))
}

func TestJoinBeforeWindowHidesMeeting(t *testing.T) {
	s := newTestServer(t, nil)
	jobseekerID := uuid.New()
	ivID := uuid.New()
	opens := time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC)
	s.interviews.join = func(a usecase.Actor, id uuid.UUID) (usecase.JoinInfo, error) {
		assert.Equal(t, jobseekerID, a.UserID)
		assert.Equal(t, user.RoleJobseeker, a.Role)
		return usecase.JoinInfo{
			InterviewID: id,
			Access: interview.Access{
				State:            interview.AccessUpcoming,
				OpensAt:          opens,
				ClosesAt:         opens.Add(75 * time.Minute),
				SecondsUntilOpen: 600,
			},
		}, nil
	}
	tok := s.token(t, jobseekerID, user.RoleJobseeker)

	resp, env := s.do(t, http.MethodGet, "/api/v1/interviews/"+ivID.String()+"/join", tok, nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "UPCOMING", data["state"])
	assert.Equal(t, false, data["canJoin"])
	assert.EqualValues(t, 600, data["secondsUntilOpen"])
	assert.NotContains(t, data, "meeting")
}

func TestJoinDeniedIsForbidden(t *testing.T) {
	s := newTestServer(t, nil)
	s.interviews.join = func(usecase.Actor, uuid.UUID) (usecase.JoinInfo, error) {
		return usecase.JoinInfo{}, usecase.ErrJoinDenied
	}
	tok := s.token(t, uuid.New(), user.RoleJobseeker)

	resp, env := s.do(t, http.MethodGet, "/api/v1/interviews/"+uuid.NewString()+"/join", tok, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Interview room is not available", decodeError(t, env).Error)
}

func TestCompleteTooEarly(t *testing.T) {
	s := newTestServer(t, nil)
	s.interviews.complete = func(pid *uuid.UUID) (interview.Interview, error) {
		assert.Nil(t, pid)
		return interview.Interview{}, interview.ErrTooEarly
	}
	tok := s.token(t, uuid.New(), user.RoleRecruiter)

	resp, env := s.do(t, http.MethodPatch, "/api/v1/interviews/"+uuid.NewString()+"/complete", tok, nil)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Interview cannot be completed before its scheduled time", decodeError(t, env).Error)
}

func TestCompleteSingleParticipant(t *testing.T) {
	s := newTestServer(t, nil)
	pid := uuid.New()
	s.interviews.complete = func(got *uuid.UUID) (interview.Interview, error) {
		require.NotNil(t, got)
		assert.Equal(t, pid, *got)
		return interview.Interview{ID: uuid.New(), Status: interview.StatusScheduled}, nil
	}
	tok := s.token(t, uuid.New(), user.RoleRecruiter)

	resp, env := s.do(t, http.MethodPatch, "/api/v1/interviews/"+uuid.NewString()+"/complete", tok, map[string]string{"participantId": pid.String()})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data struct {
		Status       string `json:"status"`
		Participants []any  `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "SCHEDULED", data.Status)
	assert.NotNil(t, data.Participants)
}

func multipartUpload(t *testing.T, path, token string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadDocumentPassesFile(t *testing.T) {
	s := newTestServer(t, nil)
	userID := uuid.New()
	content := []byte("%PDF-1.4 test")
	s.profiles.upload = func(kind profile.DocumentKind, file usecase.Upload) (profile.Jobseeker, error) {
		assert.Equal(t, profile.DocumentCV, kind)
		assert.Equal(t, "cv.pdf", file.Filename)
		got, err := io.ReadAll(file.Body)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		return profile.Jobseeker{UserID: userID, CVURL: "https://cdn.example.com/cv.pdf", Completeness: 12}, nil
	}
	tok := s.token(t, userID, user.RoleJobseeker)

	resp, env := s.send(t, multipartUpload(t, "/api/v1/profile/jobseeker/documents/cv", tok, content))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data struct {
		Documents struct {
			CV string `json:"cv"`
		} `json:"documents"`
		Completeness int `json:"completeness"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "https://cdn.example.com/cv.pdf", data.Documents.CV)
	assert.Equal(t, 12, data.Completeness)
}

func TestUploadDocumentErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"unknown kind", "/api/v1/profile/jobseeker/documents/passport", nil, fiber.StatusBadRequest},
		{"storage off", "/api/v1/profile/jobseeker/documents/cv", usecase.ErrStorageUnavailable, fiber.StatusServiceUnavailable},
		{"too large", "/api/v1/profile/jobseeker/documents/cv", usecase.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
		{"wrong type", "/api/v1/profile/jobseeker/documents/photo", errors.Wrap(usecase.ErrUnsupportedFile, "application/pdf for photo"), fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.profiles.upload = func(profile.DocumentKind, usecase.Upload) (profile.Jobseeker, error) {
				return profile.Jobseeker{}, tc.err
			}
			tok := s.token(t, uuid.New(), user.RoleJobseeker)

			resp, _ := s.send(t, multipartUpload(t, tc.path, tok, []byte("%PDF-1.4")))

			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

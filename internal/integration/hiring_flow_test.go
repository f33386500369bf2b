package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"jobhub/internal/app"
	"jobhub/internal/config"
	"jobhub/internal/database"
	"jobhub/internal/database/migration"
	dbpostgres "jobhub/internal/database/postgres"
	"jobhub/internal/database/seeder"
	"jobhub/internal/infrastructure/cache"
	"jobhub/internal/infrastructure/mail"
	"jobhub/internal/notification"
	"jobhub/internal/pkg/jwt"
	"jobhub/internal/repository"
	"jobhub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

type idData struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func TestIntegration_HiringFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	suffix := strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	admin := config.AdminConfig{Email: "admin-" + suffix + "@jobhub.test", Password: "admin-password"}
	if err := (seeder.Runner{Seeders: []seeder.Seeder{seeder.AdminSeeder{Email: admin.Email, Password: admin.Password}}}).Run(ctx, db); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	f := newTestApp(t, ctx, db)

	adminTok := login(t, f, admin.Email, admin.Password)
	recruiter := register(t, f, "recruiter-"+suffix+"@jobhub.test", "RECRUITER")
	seeker := register(t, f, "seeker-"+suffix+"@jobhub.test", "JOBSEEKER")
	defer cleanup(t, db, admin.Email, recruiter.User.ID, seeker.User.ID)

	// Company goes through admin verification before its jobs are visible.
	var co idData
	expect(t, call(t, f, "PUT", "/api/v1/recruiter/company", recruiter.AccessToken, map[string]any{"name": "PT Integrasi " + suffix, "city": "Bandung"}), 200, &co)
	if co.Status != "PENDING_VERIFICATION" {
		t.Fatalf("company: expected PENDING_VERIFICATION, got %s", co.Status)
	}
	expect(t, call(t, f, "PATCH", "/api/v1/admin/companies/"+co.ID.String()+"/reject", adminTok, map[string]any{"reason": "  "}), 400, nil)
	expect(t, call(t, f, "PATCH", "/api/v1/admin/companies/"+co.ID.String()+"/verify", adminTok, map[string]any{"notes": "NIB checked"}), 200, &co)
	if co.Status != "VERIFIED" {
		t.Fatalf("verify: expected VERIFIED, got %s", co.Status)
	}

	var jb idData
	expect(t, call(t, f, "POST", "/api/v1/recruiter/jobs", recruiter.AccessToken, map[string]any{
		"title":       "Backend Engineer",
		"description": "Build the hiring API",
		"location":    "Bandung",
		"type":        "FULL_TIME",
		"level":       "MID",
	}), 201, &jb)
	expect(t, call(t, f, "GET", "/api/v1/jobs/"+jb.ID.String(), "", nil), 200, nil)

	// Applying needs a profile at or above the completeness threshold.
	expect(t, call(t, f, "POST", "/api/v1/applications", seeker.AccessToken, map[string]any{"jobId": jb.ID}), 400, nil)
	profileBody := map[string]any{
		"firstName":                "Sari",
		"dateOfBirth":              "1999-04-12",
		"gender":                   "FEMALE",
		"phone":                    "081234567890",
		"kecamatan":                "Coblong",
		"kelurahan":                "Dago",
		"lastEducationLevel":       "S1",
		"lastEducationInstitution": "ITB",
		"summary":                  "Backend developer",
	}
	expect(t, call(t, f, "POST", "/api/v1/profile/jobseeker", seeker.AccessToken, profileBody), 200, nil)
	if _, err := db.Exec(ctx,
		`UPDATE jobseekers SET photo_url = 'p', cv_url = 'c', ktp_url = 'k', ak1_url = 'a', ijazah_url = 'i' WHERE user_id = $1`,
		seeker.User.ID,
	); err != nil {
		t.Fatalf("attach documents: %v", err)
	}
	var prof struct {
		Completeness     int  `json:"completeness"`
		ProfileCompleted bool `json:"profileCompleted"`
	}
	expect(t, call(t, f, "POST", "/api/v1/profile/jobseeker", seeker.AccessToken, profileBody), 200, &prof)
	if !prof.ProfileCompleted || prof.Completeness < 70 {
		t.Fatalf("profile: expected completed, got %d%%", prof.Completeness)
	}

	var ap idData
	expect(t, call(t, f, "POST", "/api/v1/applications", seeker.AccessToken, map[string]any{"jobId": jb.ID, "coverLetter": "Halo"}), 201, &ap)
	expect(t, call(t, f, "POST", "/api/v1/applications", seeker.AccessToken, map[string]any{"jobId": jb.ID}), 409, nil)

	appPath := "/api/v1/applications/" + ap.ID.String()
	expect(t, call(t, f, "PATCH", appPath+"/status", recruiter.AccessToken, map[string]any{"status": "ACCEPTED"}), 409, nil)
	expect(t, call(t, f, "PATCH", appPath+"/status", recruiter.AccessToken, map[string]any{"status": "REVIEWING"}), 200, nil)
	expect(t, call(t, f, "PATCH", appPath+"/status", recruiter.AccessToken, map[string]any{"status": "SHORTLISTED"}), 200, nil)

	var iv idData
	expect(t, call(t, f, "POST", "/api/v1/interviews/schedule", recruiter.AccessToken, map[string]any{
		"title":          "Technical interview",
		"jobId":          jb.ID,
		"scheduledAt":    time.Now().Add(3 * time.Hour).UTC().Format(time.RFC3339),
		"duration":       60,
		"meetingType":    "GOOGLE_MEET",
		"meetingUrl":     "https://meet.google.com/abc-defg-hij",
		"applicationIds": []string{ap.ID.String()},
	}), 201, &iv)

	ivPath := "/api/v1/interviews/" + iv.ID.String()
	expect(t, call(t, f, "PATCH", ivPath+"/respond", seeker.AccessToken, map[string]any{"response": "ACCEPT"}), 200, nil)

	var join struct {
		State   string `json:"state"`
		CanJoin bool   `json:"canJoin"`
	}
	expect(t, call(t, f, "GET", ivPath+"/join", seeker.AccessToken, nil), 200, &join)
	if join.State != "UPCOMING" || join.CanJoin {
		t.Fatalf("join: expected UPCOMING without access, got %s canJoin=%v", join.State, join.CanJoin)
	}
	expect(t, call(t, f, "PATCH", ivPath+"/complete", recruiter.AccessToken, nil), 409, nil)

	// Cancelling rejects every application still attached to the interview.
	expect(t, call(t, f, "DELETE", ivPath, recruiter.AccessToken, nil), 200, nil)

	var detail struct {
		Status  string `json:"status"`
		History []struct {
			ToStatus string `json:"toStatus"`
		} `json:"history"`
	}
	expect(t, call(t, f, "GET", appPath, seeker.AccessToken, nil), 200, &detail)
	if detail.Status != "REJECTED" {
		t.Fatalf("application: expected REJECTED after cancel, got %s", detail.Status)
	}
	if n := len(detail.History); n == 0 || detail.History[n-1].ToStatus != "REJECTED" {
		t.Fatalf("application: expected history to end with REJECTED, got %+v", detail.History)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("JOBHUB_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("JOBHUB_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("JOBHUB_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("JOBHUB_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("JOBHUB_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("JOBHUB_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set JOBHUB_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	}, nil)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	if _, err := (migration.Runner{Dir: resolveMigrationsDir(t)}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func resolveMigrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	dir := filepath.Join(root, "migrations")
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("resolve migrations dir: not found or not a dir: %s", dir)
	}
	return dir
}

func newTestApp(t *testing.T, ctx context.Context, db database.DB) *fiber.App {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{AppName: "jobhub", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
		Storage: config.StorageConfig{MaxUploadSize: 1 << 20},
	}
	l := zap.NewNop()
	mailer, err := mail.New(ctx, config.MailConfig{Transport: "log"}, l)
	if err != nil {
		t.Fatalf("mailer: %v", err)
	}
	hub := ws.NewHub(l)

	c := &app.Container{
		Config: cfg,
		Logger: l,
		DB:     db,
		Cache:  cache.NewRedis(config.RedisConfig{}, l),
		Hub:    hub,
		JWT:    jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn),

		Users:        repository.NewPostgresUserRepository(db),
		Skills:       repository.NewPostgresSkillRepository(db),
		Profiles:     repository.NewPostgresProfileRepository(db),
		Companies:    repository.NewPostgresCompanyRepository(db),
		Jobs:         repository.NewPostgresJobRepository(db),
		Applications: repository.NewPostgresApplicationRepository(db),
		Interviews:   repository.NewPostgresInterviewRepository(db),

		Notifier: notification.NewDispatcher(mailer, "http://localhost:3000", l),
		Events:   ws.NewNotifier(hub),
	}
	return app.New(c).Fiber
}

func call(t *testing.T, f *fiber.App, method, path, token string, body any) semanticResponse {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("%s %s: encode body: %v", method, path, err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.Test(req)
	if err != nil {
		t.Fatalf("%s %s: request error: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode error: %v", method, path, err)
	}
	return sr
}

func expect(t *testing.T, sr semanticResponse, status int, out any) {
	t.Helper()

	if sr.Status != status {
		t.Fatalf("expected status=%d, got %d (message=%s data=%s)", status, sr.Status, sr.Message, sr.Data)
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal(sr.Data, out); err != nil {
		t.Fatalf("data unmarshal error: %v", err)
	}
}

func register(t *testing.T, f *fiber.App, email, role string) authData {
	t.Helper()

	var out authData
	expect(t, call(t, f, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"role":     role,
	}), 201, &out)
	if out.AccessToken == "" {
		t.Fatalf("register %s: missing accessToken", email)
	}
	return out
}

func login(t *testing.T, f *fiber.App, email, password string) string {
	t.Helper()

	var out authData
	expect(t, call(t, f, "POST", "/api/v1/auth/login", "", map[string]string{"email": email, "password": password}), 200, &out)
	return out.AccessToken
}

func cleanup(t *testing.T, db database.DB, adminEmail string, ids ...uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	for _, id := range ids {
		_, _ = db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	}
	_, _ = db.Exec(ctx, `DELETE FROM users WHERE email = $1`, adminEmail)
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
